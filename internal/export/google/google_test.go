package google

import (
	"context"
	"testing"

	"watchdog/internal/core"
)

func TestEntryRowColumnLayout(t *testing.T) {
	e := core.Entry{
		ID:         "abc123",
		Title:      "Campaign cash handout",
		SourceURL:  "https://news.example.com/article",
		Amount:     1_000_000,
		Date:       core.NewDate(2024, 3, 5),
		Giver:      "Hon. X",
		Recipients: "Youth group",
		Location:   core.Location{County: "Nairobi", Town: "Westlands"},
		Tags:       []string{"election", "harambee"},
	}

	row := EntryRow(e)
	if len(row) != 10 {
		t.Fatalf("len(row) = %d, want 10", len(row))
	}
	want := []interface{}{
		"abc123", "2024-03-05", "Campaign cash handout", "Hon. X",
		"Youth group", int64(1_000_000), "Nairobi", "Westlands",
		"election, harambee", "https://news.example.com/article",
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestAppendEntryRejectsIncomplete(t *testing.T) {
	c := &Client{spreadsheetID: "sheet", sheetName: "Ledger"}
	if _, err := c.AppendEntry(context.Background(), core.Entry{Title: "no id"}); err == nil {
		t.Fatal("expected error for entry without id")
	}
	if _, err := c.AppendEntry(context.Background(), core.Entry{ID: "k1"}); err == nil {
		t.Fatal("expected error for entry without title")
	}
}
