package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newsmind/internal/llm"
)

// DegradedSummary is the fixed response when the provider fails; ingestion of
// other articles must continue.
const DegradedSummary = "Summary unavailable."

const summarySystemPrompt = "You are a news editor. You summarize articles into short, " +
	"strictly factual bullet points. Never include opinion or speculation."

// Summarizer generates a short factual digest of an article via an LLM call.
type Summarizer struct {
	completer llm.Completer
	maxChars  int
	logger    *slog.Logger
}

func NewSummarizer(completer llm.Completer, maxChars int, logger *slog.Logger) *Summarizer {
	if maxChars == 0 {
		maxChars = 5000
	}
	return &Summarizer{
		completer: completer,
		maxChars:  maxChars,
		logger:    logger.With("component", "summarizer"),
	}
}

// Summarize maps (title, text) to a bullet-point digest. The text is bounded
// to the character budget before the call; any provider failure degrades to
// the fixed fallback string.
func (s *Summarizer) Summarize(ctx context.Context, title, text string) string {
	if len(text) > s.maxChars {
		text = text[:s.maxChars]
	}

	prompt := fmt.Sprintf(
		"Summarize the following article in exactly 3 bullet points, one per line.\n"+
			"Title: %s\n\nContent:\n%s",
		title, text,
	)

	raw, err := s.completer.Complete(ctx, summarySystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("summarization failed", "title", title, "error", err)
		return DegradedSummary
	}

	summary := normalizeBullets(raw)
	if summary == "" {
		s.logger.Warn("summarization returned empty text", "title", title)
		return DegradedSummary
	}

	return summary
}

// normalizeBullets rewrites alternate bullet markers to "- " and collapses
// blank lines so the bullets sit on contiguous lines.
func normalizeBullets(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, marker := range []string{"* ", "• ", "– ", "+ "} {
			if strings.HasPrefix(line, marker) {
				line = "- " + strings.TrimSpace(strings.TrimPrefix(line, marker))
				break
			}
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
