package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsmind/internal/domain"
)

// InteractionService maintains the cumulative interaction record of each
// (user, article) pair. Find-or-create and the subsequent mutation run inside
// one transaction so concurrent requests cannot fork duplicate rows.
type InteractionService struct {
	interactions InteractionStore
	txManager    TransactionManager
	logger       *slog.Logger
	now          func() time.Time
}

func NewInteractionService(interactions InteractionStore, txManager TransactionManager, logger *slog.Logger) *InteractionService {
	return &InteractionService{
		interactions: interactions,
		txManager:    txManager,
		logger:       logger.With("component", "interactions"),
		now:          time.Now,
	}
}

func (s *InteractionService) MarkViewed(ctx context.Context, userID, articleID int64) error {
	return s.addAction(ctx, userID, articleID, domain.ActionViewed)
}

func (s *InteractionService) MarkLiked(ctx context.Context, userID, articleID int64) error {
	return s.addAction(ctx, userID, articleID, domain.ActionLiked)
}

// MarkLinked records that the user opened the original article URL.
func (s *InteractionService) MarkLinked(ctx context.Context, userID, articleID int64) error {
	return s.addAction(ctx, userID, articleID, domain.ActionLinked)
}

func (s *InteractionService) addAction(ctx context.Context, userID, articleID int64, action domain.Action) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.interactions.GetOrCreate(txCtx, userID, articleID)
		if err != nil {
			return fmt.Errorf("get or create interaction: %w", err)
		}

		record.AddAction(action)
		record.UpdatedAt = s.now().UTC()

		return s.interactions.Update(txCtx, record)
	})
}

// Rate parses raw user input and stores the clamped rating. Non-numeric input
// is rejected before any storage call, leaving stored state untouched.
func (s *InteractionService) Rate(ctx context.Context, userID, articleID int64, raw string) (int, error) {
	rating, err := domain.ParseRating(raw)
	if err != nil {
		return 0, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.interactions.GetOrCreate(txCtx, userID, articleID)
		if err != nil {
			return fmt.Errorf("get or create interaction: %w", err)
		}

		record.Rating = &rating
		record.UpdatedAt = s.now().UTC()

		return s.interactions.Update(txCtx, record)
	})
	if err != nil {
		return 0, err
	}

	return rating, nil
}

func (s *InteractionService) SetNotes(ctx context.Context, userID, articleID int64, notes string) error {
	return s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.interactions.GetOrCreate(txCtx, userID, articleID)
		if err != nil {
			return fmt.Errorf("get or create interaction: %w", err)
		}

		record.Notes = &notes
		record.UpdatedAt = s.now().UTC()

		return s.interactions.Update(txCtx, record)
	})
}
