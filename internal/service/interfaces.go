package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"newsmind/internal/domain"
	"newsmind/internal/source/newsapi"
)

// Source searches an external news API for topic candidates.
type Source interface {
	Name() string
	Search(ctx context.Context, topic string) ([]newsapi.Candidate, error)
}

// Extractor pulls the readable body out of a web page. The boolean is false
// when no usable text could be extracted; extraction never hard-fails.
type Extractor interface {
	FullText(ctx context.Context, url string) (string, bool)
}

// Embedder maps text to a vector, returning the absent sentinel for blank
// input or provider failure.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.Vector, error)
}

// Summarizer produces a short factual digest; it degrades internally and
// never fails.
type Summarizer interface {
	Summarize(ctx context.Context, title, text string) string
}

// SentimentClassifier labels a digest; it coerces anything unexpected to
// neutral and never fails.
type SentimentClassifier interface {
	Classify(ctx context.Context, summary string) domain.Sentiment
}

// Completer is one LLM provider binding used for answer generation.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type ArticleStore interface {
	Insert(ctx context.Context, article *domain.Article) (int64, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	GetByURL(ctx context.Context, url string) (*domain.Article, error)
	ListEmbedded(ctx context.Context) ([]domain.Article, error)
}

type ConversationStore interface {
	AppendExchange(ctx context.Context, exchange domain.Exchange) error
}

type InteractionStore interface {
	GetOrCreate(ctx context.Context, userID, articleID int64) (*domain.UserArticle, error)
	Update(ctx context.Context, record *domain.UserArticle) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, article *domain.Article) error
	Close() error
}
