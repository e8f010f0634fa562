package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newsmind/internal/domain"
)

// Client maps text to a raw embedding vector. Implementations are expected to
// be constructed once at startup and safe for concurrent use.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service wraps an embedding client with the sentinel semantics the rest of
// the system relies on.
type Service struct {
	client Client
	logger *slog.Logger
}

func NewService(client Client, logger *slog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With("component", "embedding"),
	}
}

// Embed returns the embedding for text. Blank input returns the absent
// sentinel without touching the model. A client failure also yields the
// sentinel, together with the error so the caller can decide whether the
// article is still worth persisting.
func (s *Service) Embed(ctx context.Context, text string) (domain.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return domain.AbsentVector, nil
	}

	values, err := s.client.Embed(ctx, text)
	if err != nil {
		return domain.AbsentVector, fmt.Errorf("embed text: %w", err)
	}
	if len(values) == 0 {
		return domain.AbsentVector, fmt.Errorf("embedding model returned no values")
	}

	return domain.Vector(values), nil
}
