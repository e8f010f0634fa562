package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsmind/internal/config"
	"newsmind/internal/domain"
	"newsmind/internal/source/newsapi"
)

// IngestService runs the per-topic enrichment pipeline: search, dedupe,
// extract, summarize, classify, embed, persist, publish.
type IngestService struct {
	source     Source
	extractor  Extractor
	summarizer Summarizer
	classifier SentimentClassifier
	embedder   Embedder
	articles   ArticleStore
	txManager  TransactionManager
	publisher  Publisher
	logger     *slog.Logger
	config     config.IngestConfig
}

func NewIngestService(
	source Source,
	extractor Extractor,
	summarizer Summarizer,
	classifier SentimentClassifier,
	embedder Embedder,
	articles ArticleStore,
	txManager TransactionManager,
	publisher Publisher,
	logger *slog.Logger,
	cfg config.IngestConfig,
) *IngestService {
	return &IngestService{
		source:     source,
		extractor:  extractor,
		summarizer: summarizer,
		classifier: classifier,
		embedder:   embedder,
		articles:   articles,
		txManager:  txManager,
		publisher:  publisher,
		logger:     logger.With("component", "ingest"),
		config:     cfg,
	}
}

// Ingest fetches and enriches articles for one topic. Failure isolation is
// per item: a candidate that cannot be extracted, enriched, or persisted is
// counted and skipped, never aborting the batch. A source failure yields zero
// added articles and is logged, not raised.
func (s *IngestService) Ingest(ctx context.Context, topic string) *domain.IngestStats {
	startTime := time.Now()
	stats := &domain.IngestStats{Topic: topic}

	s.logger.Info("starting ingestion", "topic", topic, "source", s.source.Name())

	candidates, err := s.source.Search(ctx, topic)
	if err != nil {
		s.logger.Error("news source failed", "topic", topic, "error", err)
		return stats
	}
	stats.Fetched = len(candidates)

	for _, candidate := range candidates {
		switch s.ingestOne(ctx, topic, candidate, stats) {
		case outcomeAdded:
			stats.Added++
		case outcomeSkipped:
			stats.Skipped++
		case outcomeRejected:
			stats.Rejected++
		case outcomeError:
			stats.Errors++
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("ingestion completed",
		"topic", topic,
		"fetched", stats.Fetched,
		"added", stats.Added,
		"skipped", stats.Skipped,
		"rejected", stats.Rejected,
		"errors", stats.Errors,
		"published", stats.Published,
		"duration", stats.Duration,
	)

	return stats
}

type outcome int

const (
	outcomeAdded outcome = iota
	outcomeSkipped
	outcomeRejected
	outcomeError
)

func (s *IngestService) ingestOne(ctx context.Context, topic string, candidate newsapi.Candidate, stats *domain.IngestStats) outcome {
	if candidate.Title == "" || candidate.URL == "" {
		s.logger.Debug("rejecting candidate with missing fields", "url", candidate.URL)
		return outcomeRejected
	}

	// URL uniqueness is checked before any enrichment work is spent.
	exists, err := s.articles.ExistsByURL(ctx, candidate.URL)
	if err != nil {
		s.logger.Error("existence check failed", "url", candidate.URL, "error", err)
		return outcomeError
	}
	if exists {
		s.logger.Debug("skipping duplicate", "url", candidate.URL)
		return outcomeSkipped
	}

	text, ok := s.extractor.FullText(ctx, candidate.URL)
	if !ok {
		s.logger.Debug("skipping candidate without usable text", "url", candidate.URL)
		return outcomeRejected
	}
	if len(text) > s.config.MaxTextLen {
		text = text[:s.config.MaxTextLen]
	}

	summary := s.summarizer.Summarize(ctx, candidate.Title, text)
	sentiment := s.classifier.Classify(ctx, summary)

	combined := strings.TrimSpace(candidate.Title) + "\n\n" + strings.TrimSpace(summary)
	vector, err := s.embedder.Embed(ctx, combined)
	if err != nil {
		// The article is still stored; without an embedding it simply
		// never surfaces in retrieval.
		s.logger.Warn("embedding failed, storing without vector", "url", candidate.URL, "error", err)
		vector = domain.AbsentVector
	}

	article := &domain.Article{
		URL:         candidate.URL,
		Title:       candidate.Title,
		Author:      candidate.Author,
		Source:      candidate.Source,
		Category:    topic,
		PublishedAt: candidate.PublishedAt,
		FetchedAt:   time.Now().UTC(),
		Summary:     &summary,
		Sentiment:   &sentiment,
		Embedding:   vector,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		id, err := s.articles.Insert(txCtx, article)
		if err != nil {
			return fmt.Errorf("insert article: %w", err)
		}
		article.ID = id
		return nil
	})
	if err != nil {
		s.logger.Error("persist failed", "url", candidate.URL, "error", err)
		return outcomeError
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, article); err != nil {
			s.logger.Warn("publish failed", "url", candidate.URL, "error", err)
		} else {
			stats.Published++
		}
	}

	s.logger.Info("article ingested",
		"url", candidate.URL,
		"topic", topic,
		"sentiment", sentiment,
		"embedded", article.Embedded(),
	)

	return outcomeAdded
}
