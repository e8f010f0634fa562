package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"newsmind/internal/domain"
)

type InteractionStore struct {
	db *sqlx.DB
}

func NewInteractionStore(db *sqlx.DB) *InteractionStore {
	return &InteractionStore{db: db}
}

// GetOrCreate returns the interaction record for a (user, article) pair,
// creating an empty one if none exists. The UNIQUE (user_id, article_id)
// constraint plus insert-on-conflict-do-nothing keeps concurrent callers
// from forking duplicate rows; callers run this inside a transaction.
func (s *InteractionStore) GetOrCreate(ctx context.Context, userID, articleID int64) (*domain.UserArticle, error) {
	exec := GetExecutor(ctx, s.db)

	_, err := exec.ExecContext(ctx, `
		INSERT INTO user_articles (user_id, article_id, actions, updated_at)
		VALUES ($1, $2, '{}', NOW())
		ON CONFLICT (user_id, article_id) DO NOTHING`,
		userID, articleID)
	if err != nil {
		return nil, err
	}

	var row interactionRow
	err = sqlx.GetContext(ctx, exec, &row, `
		SELECT id, user_id, article_id, actions, rating, notes, updated_at
		FROM user_articles
		WHERE user_id = $1 AND article_id = $2`,
		userID, articleID)
	if err != nil {
		return nil, err
	}

	record := row.toDomain()
	return &record, nil
}

func (s *InteractionStore) Update(ctx context.Context, record *domain.UserArticle) error {
	actions := make(pq.StringArray, 0, len(record.Actions))
	for _, action := range record.Actions {
		actions = append(actions, string(action))
	}

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE user_articles
		SET actions = $1, rating = $2, notes = $3, updated_at = $4
		WHERE id = $5`,
		actions,
		record.Rating,
		record.Notes,
		record.UpdatedAt,
		record.ID,
	)
	return err
}

type interactionRow struct {
	ID        int64          `db:"id"`
	UserID    int64          `db:"user_id"`
	ArticleID int64          `db:"article_id"`
	Actions   pq.StringArray `db:"actions"`
	Rating    *int           `db:"rating"`
	Notes     *string        `db:"notes"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r interactionRow) toDomain() domain.UserArticle {
	actions := make([]domain.Action, 0, len(r.Actions))
	for _, action := range r.Actions {
		actions = append(actions, domain.Action(action))
	}
	return domain.UserArticle{
		ID:        r.ID,
		UserID:    r.UserID,
		ArticleID: r.ArticleID,
		Actions:   actions,
		Rating:    r.Rating,
		Notes:     r.Notes,
		UpdatedAt: r.UpdatedAt,
	}
}
