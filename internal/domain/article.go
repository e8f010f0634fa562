package domain

import "time"

// Sentiment is the tone label assigned to an article summary.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment maps a raw model response to a known label.
// Anything that is not exactly one of the three labels becomes neutral.
func ParseSentiment(raw string) Sentiment {
	switch Sentiment(raw) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return Sentiment(raw)
	default:
		return SentimentNeutral
	}
}

type Article struct {
	ID          int64
	URL         string // natural key, unique
	Title       string
	Author      string
	Source      string
	Category    string // topic the article was fetched under
	PublishedAt string // provider-supplied string, never reparsed
	FetchedAt   time.Time
	Summary     *string
	Sentiment   *Sentiment
	Embedding   Vector
}

// Embedded reports whether the article carries a usable embedding
// and may participate in similarity retrieval.
func (a *Article) Embedded() bool {
	return !a.Embedding.Absent()
}
