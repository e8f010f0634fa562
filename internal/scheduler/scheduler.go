package scheduler

import (
	"context"
	"log/slog"
	"time"

	"newsmind/internal/domain"
)

// Ingester runs the ingestion pipeline for one topic.
type Ingester interface {
	Ingest(ctx context.Context, topic string) *domain.IngestStats
}

// Scheduler drives periodic ingestion across all configured topics. Topics
// run strictly sequentially within a pass; cancellation is cooperative
// between topics, never mid-item.
type Scheduler struct {
	ingester   Ingester
	topics     []string
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

func NewScheduler(ingester Ingester, topics []string, interval, runTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		ingester:   ingester,
		topics:     topics,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "topics", s.topics)

	s.runPass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPass(ctx)
		}
	}
}

func (s *Scheduler) runPass(ctx context.Context) {
	for _, topic := range s.topics {
		select {
		case <-ctx.Done():
			return
		default:
		}

		runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
		stats := s.ingester.Ingest(runCtx, topic)
		cancel()

		s.logger.Info("pass finished for topic",
			"topic", topic,
			"added", stats.Added,
			"skipped", stats.Skipped,
		)
	}
}
