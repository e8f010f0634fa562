package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"newsmind/internal/domain"
	"newsmind/internal/embedding"
	"newsmind/internal/llm"
)

const groundingSystemPrompt = "You are NewsMind, a helpful personal news assistant. " +
	"You must base your answers ONLY on the article summaries provided to you. " +
	"If the answer is not in the summaries, you must say you don't know."

// Fixed degraded responses. Provider failures never propagate to the caller.
const (
	apologyOpenAI       = "Sorry, something went wrong with OpenAI right now."
	apologyGemini       = "Sorry, something went wrong with Gemini right now."
	noCredentialsOpenAI = "OpenAI API key is not configured."
	noCredentialsGemini = "Gemini API key is not configured."
)

// ScoredArticle is one retrieval hit with its cosine similarity.
type ScoredArticle struct {
	Article    domain.Article
	Similarity float64
}

// AnswerService retrieves relevant articles for a question and composes a
// grounded answer through the selected LLM provider.
type AnswerService struct {
	embedder      Embedder
	articles      ArticleStore
	conversations ConversationStore
	completers    map[llm.Provider]Completer
	defaultTopK   int
	logger        *slog.Logger
	now           func() time.Time
}

func NewAnswerService(
	embedder Embedder,
	articles ArticleStore,
	conversations ConversationStore,
	completers map[llm.Provider]Completer,
	defaultTopK int,
	logger *slog.Logger,
) *AnswerService {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &AnswerService{
		embedder:      embedder,
		articles:      articles,
		conversations: conversations,
		completers:    completers,
		defaultTopK:   defaultTopK,
		logger:        logger.With("component", "answer"),
		now:           time.Now,
	}
}

// Retrieve embeds the query and ranks all embedded articles by cosine
// similarity, descending. Hits with similarity <= 0 are dropped before the
// list is truncated to topK. Ties keep the store's id order, so the ranking
// is deterministic for a fixed article set.
func (s *AnswerService) Retrieve(ctx context.Context, query string, topK int) ([]ScoredArticle, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed", "error", err)
		return nil, nil
	}
	if queryVector.Absent() {
		return nil, nil
	}

	articles, err := s.articles.ListEmbedded(ctx)
	if err != nil {
		return nil, fmt.Errorf("list embedded articles: %w", err)
	}

	scored := make([]ScoredArticle, 0, len(articles))
	for _, article := range articles {
		similarity := embedding.Cosine(queryVector, article.Embedding)
		if similarity <= 0 {
			continue
		}
		scored = append(scored, ScoredArticle{Article: article, Similarity: similarity})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	return scored, nil
}

// Answer retrieves grounding articles, asks the selected provider, and logs
// the exchange as one atomic user+bot turn pair sharing a single timestamp.
// Unknown providers fall back to the default; provider failures become fixed
// apology strings.
func (s *AnswerService) Answer(ctx context.Context, userID int64, question, provider string, topK int) (string, []domain.Article, error) {
	selected := llm.ParseProvider(provider)

	scored, err := s.Retrieve(ctx, question, topK)
	if err != nil {
		return "", nil, fmt.Errorf("retrieve articles: %w", err)
	}

	userPrompt := buildUserPrompt(question, scored)

	completer, ok := s.completers[selected]
	if !ok {
		completer = s.completers[llm.DefaultProvider]
		selected = llm.DefaultProvider
	}

	answer, err := completer.Complete(ctx, groundingSystemPrompt, userPrompt)
	if err != nil {
		s.logger.Warn("provider call failed", "provider", selected, "error", err)
		answer = degradedAnswer(selected, err)
	}

	exchange := domain.Exchange{
		UserID:    userID,
		Question:  fmt.Sprintf("[%s] %s", selected, question),
		Answer:    answer,
		Timestamp: s.now().UTC(),
	}
	if err := s.conversations.AppendExchange(ctx, exchange); err != nil {
		return "", nil, fmt.Errorf("append exchange: %w", err)
	}

	cited := make([]domain.Article, 0, len(scored))
	for _, hit := range scored {
		cited = append(cited, hit.Article)
	}

	return answer, cited, nil
}

// buildUserPrompt assembles the grounding prompt. When no articles matched,
// the model is explicitly told there is no grounding data and instructed to
// say so instead of answering from general knowledge.
func buildUserPrompt(question string, scored []ScoredArticle) string {
	if len(scored) == 0 {
		return fmt.Sprintf(
			"User question:\n%s\n\n"+
				"There are currently no relevant news summaries available in the database. "+
				"Explain that you cannot answer based on the available data.",
			question,
		)
	}

	var block strings.Builder
	for i, hit := range scored {
		if i > 0 {
			block.WriteString("\n\n")
		}
		summary := ""
		if hit.Article.Summary != nil {
			summary = *hit.Article.Summary
		}
		fmt.Fprintf(&block,
			"[%d] Title: %s\nSource: %s | Category: %s | Published: %s\nSummary:\n%s",
			i+1, hit.Article.Title, hit.Article.Source, hit.Article.Category,
			hit.Article.PublishedAt, summary,
		)
	}

	return fmt.Sprintf(
		"User question:\n%s\n\n"+
			"Here are relevant news summaries:\n%s\n\n"+
			"Using ONLY the information in these summaries, answer the user's "+
			"question concisely. If the information is not covered, say that "+
			"you don't know based on the available news.",
		question, block.String(),
	)
}

func degradedAnswer(provider llm.Provider, err error) string {
	missingCreds := errors.Is(err, llm.ErrNoCredentials)
	switch provider {
	case llm.ProviderGemini:
		if missingCreds {
			return noCredentialsGemini
		}
		return apologyGemini
	default:
		if missingCreds {
			return noCredentialsOpenAI
		}
		return apologyOpenAI
	}
}
