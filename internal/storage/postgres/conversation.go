package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"newsmind/internal/domain"
)

type ConversationStore struct {
	db *sqlx.DB
}

func NewConversationStore(db *sqlx.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// AppendExchange writes the user turn and the bot turn in one transaction,
// both carrying the exchange's shared timestamp. A question never appears in
// the log without its answer.
func (s *ConversationStore) AppendExchange(ctx context.Context, exchange domain.Exchange) error {
	exec := GetExecutor(ctx, s.db)
	if GetTxFromContext(ctx) == nil {
		tx, err := s.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin exchange transaction: %w", err)
		}
		if err := appendTurns(ctx, tx, exchange); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	}
	return appendTurns(ctx, exec, exchange)
}

func appendTurns(ctx context.Context, exec sqlx.ExtContext, exchange domain.Exchange) error {
	query := `
		INSERT INTO conversation_turns (user_id, article_id, role, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	for _, turn := range exchange.Turns() {
		if _, err := exec.ExecContext(ctx, query,
			turn.UserID,
			turn.ArticleID,
			string(turn.Role),
			turn.Message,
			turn.Timestamp,
		); err != nil {
			return fmt.Errorf("insert %s turn: %w", turn.Role, err)
		}
	}
	return nil
}

// History returns a user's turns, oldest first.
func (s *ConversationStore) History(ctx context.Context, userID int64, limit int) ([]domain.ConversationTurn, error) {
	var rows []turnRow
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, `
		SELECT id, user_id, article_id, role, message, created_at
		FROM conversation_turns
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}

	turns := make([]domain.ConversationTurn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, row.toDomain())
	}
	return turns, nil
}

type turnRow struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ArticleID *int64    `db:"article_id"`
	Role      string    `db:"role"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

func (r turnRow) toDomain() domain.ConversationTurn {
	return domain.ConversationTurn{
		ID:        r.ID,
		UserID:    r.UserID,
		ArticleID: r.ArticleID,
		Role:      domain.Role(r.Role),
		Message:   r.Message,
		Timestamp: r.CreatedAt,
	}
}
