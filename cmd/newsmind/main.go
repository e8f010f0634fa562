package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/generative-ai-go/genai"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"google.golang.org/api/option"

	"newsmind/internal/config"
	"newsmind/internal/embedding"
	"newsmind/internal/enrich"
	"newsmind/internal/extract"
	"newsmind/internal/llm"
	"newsmind/internal/publisher"
	"newsmind/internal/scheduler"
	"newsmind/internal/service"
	"newsmind/internal/source/newsapi"
	"newsmind/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	ask := flag.String("ask", "", "ask a question once and exit")
	provider := flag.String("provider", "", "llm provider for -ask (openai or gemini)")
	userID := flag.Int64("user", 1, "user id for -ask")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The genai client is the shared model handle: built once here, read-only
	// afterwards. Embeddings are core infrastructure, so the key is required.
	if cfg.LLM.Gemini.APIKey == "" {
		logger.Error("gemini api key is required for embeddings")
		os.Exit(1)
	}
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.LLM.Gemini.APIKey))
	if err != nil {
		logger.Error("failed to create genai client", "error", err)
		os.Exit(1)
	}
	defer genaiClient.Close()

	embedder := embedding.NewService(
		embedding.NewGeminiClient(genaiClient, cfg.Embedding.Model),
		logger,
	)

	openaiCompleter := llm.NewOpenAIClient(llm.OpenAIConfig{
		Endpoint: cfg.LLM.OpenAI.Endpoint,
		Model:    cfg.LLM.OpenAI.Model,
		APIKey:   cfg.LLM.OpenAI.APIKey,
	})
	geminiCompleter := llm.NewGeminiClient(genaiClient, cfg.LLM.Gemini.Model)

	// Initialize stores
	articleStore := postgres.NewArticleStore(db)
	conversationStore := postgres.NewConversationStore(db)
	interactionStore := postgres.NewInteractionStore(db)
	txManager := postgres.NewTransactionManager(db)

	answerService := service.NewAnswerService(
		embedder,
		articleStore,
		conversationStore,
		map[llm.Provider]service.Completer{
			llm.ProviderOpenAI: openaiCompleter,
			llm.ProviderGemini: geminiCompleter,
		},
		cfg.Retrieval.TopK,
		logger,
	)

	interactionService := service.NewInteractionService(interactionStore, txManager, logger)

	if *ask != "" {
		answer, cited, err := answerService.Answer(ctx, *userID, *ask, *provider, cfg.Retrieval.TopK)
		if err != nil {
			logger.Error("answer failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(answer)
		for i, article := range cited {
			fmt.Printf("[%d] %s (%s)\n", i+1, article.Title, article.URL)
			if err := interactionService.MarkViewed(ctx, *userID, article.ID); err != nil {
				logger.Warn("failed to record view", "article", article.URL, "error", err)
			}
		}
		return
	}

	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	source := newsapi.New(newsapi.Config{
		BaseURL:        cfg.NewsAPI.BaseURL,
		APIKey:         cfg.NewsAPI.APIKey,
		Language:       cfg.NewsAPI.Language,
		PageSize:       cfg.NewsAPI.PageSize,
		Timeout:        cfg.NewsAPI.Timeout,
		MaxAttempts:    cfg.NewsAPI.Retry.MaxAttempts,
		InitialBackoff: cfg.NewsAPI.Retry.InitialBackoff,
		MaxBackoff:     cfg.NewsAPI.Retry.MaxBackoff,
	}, logger)

	extractor := extract.New(extract.Config{
		Timeout:    cfg.NewsAPI.Timeout,
		MinTextLen: cfg.Ingest.MinTextLen,
	}, logger)

	summarizer := enrich.NewSummarizer(openaiCompleter, cfg.Ingest.MaxTextLen, logger)
	classifier := enrich.NewClassifier(openaiCompleter, logger)

	ingestService := service.NewIngestService(
		source,
		extractor,
		summarizer,
		classifier,
		embedder,
		articleStore,
		txManager,
		rabbitMQ,
		logger,
		cfg.Ingest,
	)

	sched := scheduler.NewScheduler(
		ingestService,
		cfg.Ingest.Topics,
		cfg.Ingest.Interval,
		cfg.Ingest.FetchWindow,
		logger,
	)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting newsmind ingester",
		"source", source.Name(),
		"interval", cfg.Ingest.Interval,
		"topics", cfg.Ingest.Topics,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
