// Package summarize produces short summaries of news articles backing
// ledger entries, using the Gemini API.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"watchdog/internal/cache"
)

// ErrSummarizationFailed wraps every upstream failure. Callers render
// the message instead of a summary; the entry itself is unaffected.
var ErrSummarizationFailed = errors.New("summarization failed")

const prompt = "Summarize the key details from the following article " +
	"about an alleged irregular political donation in Kenya. Focus on who " +
	"gave what, to whom, where, and any stated context. Keep it to three " +
	"or four sentences. Article: %s"

// Generator is the text-generation backend, one call per summary.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Summarizer validates the article URL, consults the cache, and asks
// the generator once per distinct URL.
type Summarizer struct {
	gen   Generator
	cache cache.Cache[string]
}

const (
	cacheSize = 256
	cacheTTL  = 24 * time.Hour
)

func New(gen Generator) *Summarizer {
	return &Summarizer{
		gen:   gen,
		cache: cache.NewLRUCache[string](cacheSize, cacheTTL),
	}
}

// SummaryCache exposes the cache for cleanup registration.
func (s *Summarizer) SummaryCache() cache.Cache[string] {
	return s.cache
}

// Summarize returns a cached or freshly generated summary for the
// article at articleURL.
func (s *Summarizer) Summarize(ctx context.Context, articleURL string) (string, error) {
	trimmed := strings.TrimSpace(articleURL)
	if !isAbsoluteURL(trimmed) {
		return "", fmt.Errorf("%w: invalid article url %q", ErrSummarizationFailed, articleURL)
	}

	if summary, ok := s.cache.Get(trimmed); ok {
		return summary, nil
	}

	text, err := s.gen.GenerateText(ctx, fmt.Sprintf(prompt, trimmed))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSummarizationFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrSummarizationFailed)
	}

	s.cache.Set(trimmed, text)
	slog.InfoContext(ctx, "Generated article summary", "url", trimmed, "length", len(text))
	return text, nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
