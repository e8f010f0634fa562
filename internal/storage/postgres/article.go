package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"newsmind/internal/domain"
)

type ArticleStore struct {
	db *sqlx.DB
}

func NewArticleStore(db *sqlx.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// Insert persists a fully enriched article. The unique constraint on url
// makes a duplicate insert fail, which the pipeline treats as a per-item
// error. The embedding column is NULL when the vector is absent.
func (s *ArticleStore) Insert(ctx context.Context, article *domain.Article) (int64, error) {
	query := `
		INSERT INTO articles (
			url, title, author, source, category,
			published_at, fetched_at, summary, sentiment, embedding
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING id`

	embeddingText, err := article.Embedding.MarshalText()
	if err != nil {
		return 0, fmt.Errorf("marshal embedding: %w", err)
	}
	var embedding sql.NullString
	if embeddingText != "" {
		embedding = sql.NullString{String: embeddingText, Valid: true}
	}

	var sentiment *string
	if article.Sentiment != nil {
		v := string(*article.Sentiment)
		sentiment = &v
	}

	var id int64
	err = GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		article.URL,
		article.Title,
		article.Author,
		article.Source,
		article.Category,
		article.PublishedAt,
		article.FetchedAt,
		article.Summary,
		sentiment,
		embedding,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (s *ArticleStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &exists,
		"SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)", url)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *ArticleStore) GetByURL(ctx context.Context, url string) (*domain.Article, error) {
	row := articleRow{}
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, `
		SELECT id, url, title, author, source, category,
		       published_at, fetched_at, summary, sentiment, embedding
		FROM articles
		WHERE url = $1`, url)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	article := row.toDomain()
	return &article, nil
}

// ListEmbedded returns every article with a non-null embedding, ordered by
// id. The stable order matters: retrieval tie-breaking depends on it.
func (s *ArticleStore) ListEmbedded(ctx context.Context) ([]domain.Article, error) {
	var rows []articleRow
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, `
		SELECT id, url, title, author, source, category,
		       published_at, fetched_at, summary, sentiment, embedding
		FROM articles
		WHERE embedding IS NOT NULL
		ORDER BY id`)
	if err != nil {
		return nil, err
	}

	articles := make([]domain.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, row.toDomain())
	}
	return articles, nil
}

type articleRow struct {
	ID          int64          `db:"id"`
	URL         string         `db:"url"`
	Title       string         `db:"title"`
	Author      string         `db:"author"`
	Source      string         `db:"source"`
	Category    string         `db:"category"`
	PublishedAt string         `db:"published_at"`
	FetchedAt   sql.NullTime   `db:"fetched_at"`
	Summary     sql.NullString `db:"summary"`
	Sentiment   sql.NullString `db:"sentiment"`
	Embedding   sql.NullString `db:"embedding"`
}

func (r articleRow) toDomain() domain.Article {
	article := domain.Article{
		ID:          r.ID,
		URL:         r.URL,
		Title:       r.Title,
		Author:      r.Author,
		Source:      r.Source,
		Category:    r.Category,
		PublishedAt: r.PublishedAt,
	}
	if r.FetchedAt.Valid {
		article.FetchedAt = r.FetchedAt.Time
	}
	if r.Summary.Valid {
		article.Summary = &r.Summary.String
	}
	if r.Sentiment.Valid {
		sentiment := domain.ParseSentiment(r.Sentiment.String)
		article.Sentiment = &sentiment
	}
	if r.Embedding.Valid {
		article.Embedding = domain.UnmarshalVector(r.Embedding.String)
	}
	return article
}
