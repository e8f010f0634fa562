package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newsmind/internal/domain"
	"newsmind/internal/llm"
)

const sentimentSystemPrompt = "You classify the sentiment of news summaries. " +
	"Answer with exactly one word: positive, neutral, or negative. Nothing else."

// Classifier assigns one of the fixed sentiment labels to a digest. It runs
// on the summary rather than the raw article: cheaper, and the summary
// already distills the tone.
type Classifier struct {
	completer llm.Completer
	logger    *slog.Logger
}

func NewClassifier(completer llm.Completer, logger *slog.Logger) *Classifier {
	return &Classifier{
		completer: completer,
		logger:    logger.With("component", "sentiment"),
	}
}

// Classify returns the sentiment label for the summary. Provider failures and
// off-label responses both coerce to neutral.
func (c *Classifier) Classify(ctx context.Context, summary string) domain.Sentiment {
	prompt := fmt.Sprintf("Classify the sentiment of this news summary:\n\n%s", summary)

	raw, err := c.completer.Complete(ctx, sentimentSystemPrompt, prompt)
	if err != nil {
		c.logger.Warn("sentiment classification failed", "error", err)
		return domain.SentimentNeutral
	}

	return domain.ParseSentiment(strings.ToLower(strings.TrimSpace(raw)))
}
