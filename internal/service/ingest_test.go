package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"newsmind/internal/config"
	"newsmind/internal/domain"
	"newsmind/internal/service/mocks"
	"newsmind/internal/source/newsapi"
)

type IngestServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source     *mocks.MockSource
	extractor  *mocks.MockExtractor
	summarizer *mocks.MockSummarizer
	classifier *mocks.MockSentimentClassifier
	embedder   *mocks.MockEmbedder
	articles   *mocks.MockArticleStore
	txManager  *mocks.MockTransactionManager
	publisher  *mocks.MockPublisher

	service *IngestService
	cfg     config.IngestConfig
	logger  *slog.Logger
}

func (s *IngestServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.extractor = mocks.NewMockExtractor(s.ctrl)
	s.summarizer = mocks.NewMockSummarizer(s.ctrl)
	s.classifier = mocks.NewMockSentimentClassifier(s.ctrl)
	s.embedder = mocks.NewMockEmbedder(s.ctrl)
	s.articles = mocks.NewMockArticleStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)

	s.cfg = config.IngestConfig{
		Topics:     []string{"technology"},
		Interval:   30 * time.Minute,
		MinTextLen: 200,
		MaxTextLen: 5000,
	}

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.source.EXPECT().Name().Return("newsapi").AnyTimes()

	s.service = NewIngestService(
		s.source,
		s.extractor,
		s.summarizer,
		s.classifier,
		s.embedder,
		s.articles,
		s.txManager,
		s.publisher,
		s.logger,
		s.cfg,
	)
}

func (s *IngestServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestIngestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngestServiceTestSuite))
}

func (s *IngestServiceTestSuite) expectTransaction(ctx context.Context) {
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
}

func (s *IngestServiceTestSuite) TestIngest_NewArticle() {
	ctx := context.Background()

	candidates := []newsapi.Candidate{
		{
			Title:       "Go 1.25 released",
			Author:      "Jane Doe",
			URL:         "https://example.com/go-1-25",
			Source:      "Example News",
			PublishedAt: "2026-08-25T10:00:00Z",
		},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)
	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/go-1-25").Return(false, nil)
	s.extractor.EXPECT().FullText(ctx, "https://example.com/go-1-25").Return("full article body", true)
	s.summarizer.EXPECT().Summarize(ctx, "Go 1.25 released", "full article body").Return("- point one\n- point two\n- point three")
	s.classifier.EXPECT().Classify(ctx, "- point one\n- point two\n- point three").Return(domain.SentimentPositive)
	s.embedder.EXPECT().Embed(ctx, "Go 1.25 released\n\n- point one\n- point two\n- point three").
		Return(domain.Vector{0.1, 0.2, 0.3}, nil)

	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, article *domain.Article) (int64, error) {
			s.Equal("https://example.com/go-1-25", article.URL)
			s.Equal("technology", article.Category)
			s.Equal("2026-08-25T10:00:00Z", article.PublishedAt)
			s.Require().NotNil(article.Sentiment)
			s.Equal(domain.SentimentPositive, *article.Sentiment)
			s.True(article.Embedded())
			return 42, nil
		},
	)

	s.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, article *domain.Article) error {
			s.Equal(int64(42), article.ID)
			return nil
		},
	)

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(1, stats.Fetched)
	s.Equal(1, stats.Added)
	s.Equal(0, stats.Skipped)
	s.Equal(0, stats.Rejected)
	s.Equal(0, stats.Errors)
	s.Equal(1, stats.Published)
}

func (s *IngestServiceTestSuite) TestIngest_DuplicateSkippedBeforeEnrichment() {
	ctx := context.Background()

	candidates := []newsapi.Candidate{
		{Title: "Seen before", URL: "https://example.com/dup"},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)
	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/dup").Return(true, nil)
	// No extractor, summarizer, classifier, or embedder expectations:
	// duplicates must not cost any enrichment work.

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(1, stats.Fetched)
	s.Equal(0, stats.Added)
	s.Equal(1, stats.Skipped)
}

func (s *IngestServiceTestSuite) TestIngest_MissingFieldsRejected() {
	ctx := context.Background()

	candidates := []newsapi.Candidate{
		{Title: "", URL: "https://example.com/no-title"},
		{Title: "No URL", URL: ""},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(2, stats.Fetched)
	s.Equal(2, stats.Rejected)
	s.Equal(0, stats.Added)
}

func (s *IngestServiceTestSuite) TestIngest_UnusableTextRejected() {
	ctx := context.Background()

	candidates := []newsapi.Candidate{
		{Title: "Paywalled", URL: "https://example.com/paywall"},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)
	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/paywall").Return(false, nil)
	s.extractor.EXPECT().FullText(ctx, "https://example.com/paywall").Return("", false)

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(1, stats.Rejected)
	s.Equal(0, stats.Added)
}

func (s *IngestServiceTestSuite) TestIngest_EmbedFailureStoresWithoutVector() {
	ctx := context.Background()

	candidates := []newsapi.Candidate{
		{Title: "Flaky provider", URL: "https://example.com/flaky"},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)
	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/flaky").Return(false, nil)
	s.extractor.EXPECT().FullText(ctx, "https://example.com/flaky").Return("body", true)
	s.summarizer.EXPECT().Summarize(ctx, "Flaky provider", "body").Return("- summary")
	s.classifier.EXPECT().Classify(ctx, "- summary").Return(domain.SentimentNeutral)
	s.embedder.EXPECT().Embed(ctx, gomock.Any()).Return(domain.AbsentVector, errors.New("quota exceeded"))

	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, article *domain.Article) (int64, error) {
			s.False(article.Embedded())
			return 7, nil
		},
	)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(1, stats.Added)
	s.Equal(0, stats.Errors)
}

func (s *IngestServiceTestSuite) TestIngest_InsertFailureDoesNotAbortBatch() {
	ctx := context.Background()

	candidates := []newsapi.Candidate{
		{Title: "First", URL: "https://example.com/first"},
		{Title: "Second", URL: "https://example.com/second"},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)

	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/first").Return(false, nil)
	s.extractor.EXPECT().FullText(ctx, "https://example.com/first").Return("body one", true)
	s.summarizer.EXPECT().Summarize(ctx, "First", "body one").Return("- one")
	s.classifier.EXPECT().Classify(ctx, "- one").Return(domain.SentimentNeutral)
	s.embedder.EXPECT().Embed(ctx, gomock.Any()).Return(domain.Vector{0.5}, nil)
	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(int64(0), errors.New("connection reset"))

	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/second").Return(false, nil)
	s.extractor.EXPECT().FullText(ctx, "https://example.com/second").Return("body two", true)
	s.summarizer.EXPECT().Summarize(ctx, "Second", "body two").Return("- two")
	s.classifier.EXPECT().Classify(ctx, "- two").Return(domain.SentimentNegative)
	s.embedder.EXPECT().Embed(ctx, gomock.Any()).Return(domain.Vector{0.9}, nil)
	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(int64(2), nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(2, stats.Fetched)
	s.Equal(1, stats.Added)
	s.Equal(1, stats.Errors)
	s.Equal(1, stats.Published)
}

func (s *IngestServiceTestSuite) TestIngest_SourceFailureYieldsZeroStats() {
	ctx := context.Background()

	s.source.EXPECT().Search(ctx, "technology").Return(nil, errors.New("429 too many requests"))

	stats := s.service.Ingest(ctx, "technology")

	s.Equal("technology", stats.Topic)
	s.Equal(0, stats.Fetched)
	s.Equal(0, stats.Added)
	s.Equal(0, stats.Errors)
}

func (s *IngestServiceTestSuite) TestIngest_PublishFailureCountedButNotFatal() {
	ctx := context.Background()

	candidates := []newsapi.Candidate{
		{Title: "Broker down", URL: "https://example.com/broker"},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)
	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/broker").Return(false, nil)
	s.extractor.EXPECT().FullText(ctx, "https://example.com/broker").Return("body", true)
	s.summarizer.EXPECT().Summarize(ctx, "Broker down", "body").Return("- summary")
	s.classifier.EXPECT().Classify(ctx, "- summary").Return(domain.SentimentNeutral)
	s.embedder.EXPECT().Embed(ctx, gomock.Any()).Return(domain.Vector{0.4}, nil)
	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(int64(9), nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(errors.New("channel closed"))

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(1, stats.Added)
	s.Equal(0, stats.Published)
}

func (s *IngestServiceTestSuite) TestIngest_LongTextTruncatedBeforeSummarizing() {
	ctx := context.Background()

	longBody := make([]byte, 6000)
	for i := range longBody {
		longBody[i] = 'a'
	}

	candidates := []newsapi.Candidate{
		{Title: "Long read", URL: "https://example.com/long"},
	}

	s.source.EXPECT().Search(ctx, "technology").Return(candidates, nil)
	s.articles.EXPECT().ExistsByURL(ctx, "https://example.com/long").Return(false, nil)
	s.extractor.EXPECT().FullText(ctx, "https://example.com/long").Return(string(longBody), true)
	s.summarizer.EXPECT().Summarize(ctx, "Long read", gomock.Any()).DoAndReturn(
		func(_ context.Context, _, text string) string {
			s.Len(text, s.cfg.MaxTextLen)
			return "- summary"
		},
	)
	s.classifier.EXPECT().Classify(ctx, "- summary").Return(domain.SentimentNeutral)
	s.embedder.EXPECT().Embed(ctx, gomock.Any()).Return(domain.Vector{0.2}, nil)
	s.expectTransaction(ctx)
	s.articles.EXPECT().Insert(ctx, gomock.Any()).Return(int64(3), nil)
	s.publisher.EXPECT().Publish(ctx, gomock.Any()).Return(nil)

	stats := s.service.Ingest(ctx, "technology")

	s.Equal(1, stats.Added)
}
