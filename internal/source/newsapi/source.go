package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const SourceName = "NewsAPI"

// Candidate is one search hit before extraction and enrichment.
type Candidate struct {
	Title       string
	Author      string
	URL         string
	Source      string
	PublishedAt string
}

// Config holds NewsAPI source configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	Language       string
	PageSize       int
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client queries the NewsAPI "everything" endpoint.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	language       string
	pageSize       int
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a new NewsAPI client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		language:       cfg.Language,
		pageSize:       cfg.PageSize,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", SourceName),
	}
}

// Name returns the human-readable source name.
func (c *Client) Name() string {
	return SourceName
}

// Search fetches recent articles for a topic, newest first. Every transport
// failure is retried with exponential backoff up to MaxAttempts; a non-"ok"
// API status is returned as an error for the caller to absorb.
func (c *Client) Search(ctx context.Context, topic string) ([]Candidate, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi key is not configured")
	}

	query := url.Values{}
	query.Set("q", topic)
	query.Set("language", c.language)
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	query.Set("apiKey", c.apiKey)
	requestURL := c.baseURL + "?" + query.Encode()

	resp, err := c.fetch(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %q: %s", resp.Status, resp.Message)
	}

	c.logger.Debug("fetched candidates", "topic", topic, "count", len(resp.Articles))

	return c.transform(resp.Articles), nil
}

func (c *Client) fetch(ctx context.Context, url string) (*APIResponse, error) {
	var resp *APIResponse
	var err error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err = c.doRequest(ctx, url)
		if err == nil {
			return resp, nil
		}

		if attempt == c.maxAttempts {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", c.maxAttempts, err)
}

func (c *Client) doRequest(ctx context.Context, url string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "NewsMind/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &apiResp, nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}

func (c *Client) transform(items []APIArticle) []Candidate {
	candidates := make([]Candidate, 0, len(items))

	for _, item := range items {
		author := "Unknown"
		if item.Author != nil && *item.Author != "" {
			author = *item.Author
		}

		candidates = append(candidates, Candidate{
			Title:       item.Title,
			Author:      author,
			URL:         item.URL,
			Source:      item.Source.Name,
			PublishedAt: item.PublishedAt,
		})
	}

	return candidates
}
