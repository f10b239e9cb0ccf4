package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubGenerator struct {
	calls    int
	response string
	err      error

	lastPrompt string
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	return g.response, g.err
}

func TestSummarizeEmbedsURLInPrompt(t *testing.T) {
	gen := &stubGenerator{response: "A politician handed over cash."}
	s := New(gen)

	got, err := s.Summarize(context.Background(), "https://news.example.com/story")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if got != "A politician handed over cash." {
		t.Fatalf("summary = %q", got)
	}
	if !strings.Contains(gen.lastPrompt, "https://news.example.com/story") {
		t.Fatalf("prompt does not embed url: %q", gen.lastPrompt)
	}
}

func TestSummarizeInvalidURL(t *testing.T) {
	tests := []string{"", "not-a-url", "ftp://example.com/x", "https://"}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			gen := &stubGenerator{response: "unused"}
			s := New(gen)
			_, err := s.Summarize(context.Background(), raw)
			if !errors.Is(err, ErrSummarizationFailed) {
				t.Fatalf("expected ErrSummarizationFailed, got %v", err)
			}
			if gen.calls != 0 {
				t.Fatal("generator should not be called for invalid url")
			}
		})
	}
}

func TestSummarizeGeneratorFailure(t *testing.T) {
	s := New(&stubGenerator{err: errors.New("quota exceeded")})
	_, err := s.Summarize(context.Background(), "https://news.example.com/story")
	if !errors.Is(err, ErrSummarizationFailed) {
		t.Fatalf("expected ErrSummarizationFailed, got %v", err)
	}
}

func TestSummarizeEmptyResponse(t *testing.T) {
	s := New(&stubGenerator{response: "   "})
	_, err := s.Summarize(context.Background(), "https://news.example.com/story")
	if !errors.Is(err, ErrSummarizationFailed) {
		t.Fatalf("expected ErrSummarizationFailed, got %v", err)
	}
}

func TestSummarizeCachesByURL(t *testing.T) {
	gen := &stubGenerator{response: "Cached summary."}
	s := New(gen)
	ctx := context.Background()

	for range 3 {
		if _, err := s.Summarize(ctx, "https://news.example.com/story"); err != nil {
			t.Fatalf("summarize: %v", err)
		}
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 generator call, got %d", gen.calls)
	}

	if _, err := s.Summarize(ctx, "https://news.example.com/other"); err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if gen.calls != 2 {
		t.Fatalf("expected distinct urls to miss the cache, got %d calls", gen.calls)
	}
}

func TestFailedSummariesAreNotCached(t *testing.T) {
	gen := &stubGenerator{err: errors.New("transient")}
	s := New(gen)
	ctx := context.Background()

	s.Summarize(ctx, "https://news.example.com/story")
	gen.err = nil
	gen.response = "Recovered summary."

	got, err := s.Summarize(ctx, "https://news.example.com/story")
	if err != nil {
		t.Fatalf("summarize after recovery: %v", err)
	}
	if got != "Recovered summary." {
		t.Fatalf("summary = %q", got)
	}
}
