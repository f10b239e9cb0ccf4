package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1000000", 1000000, false},
		{"1,000,000", 1000000, false},
		{" 250000 ", 250000, false},
		{"12.50", 13, false},
		{"12.49", 12, false},
		{"", 0, true},
		{"0", 0, true},
		{"-100", 0, true},
		{"+100", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseAmount(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatKES(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "KES 0"},
		{999, "KES 999"},
		{1000, "KES 1,000"},
		{1000000, "KES 1,000,000"},
		{-5000, "-KES 5,000"},
	}
	for _, tc := range cases {
		if got := FormatKES(tc.in); got != tc.want {
			t.Fatalf("FormatKES(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
