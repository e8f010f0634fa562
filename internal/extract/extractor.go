package extract

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const defaultMinTextLen = 200

var whitespace = regexp.MustCompile(`[ \t]+`)

// Extractor fetches a page and pulls out its main readable body.
type Extractor struct {
	httpClient *http.Client
	minTextLen int
	logger     *slog.Logger
}

// Config holds extractor settings.
type Config struct {
	Timeout    time.Duration
	MinTextLen int
}

// New creates an extractor with a bounded fetch timeout.
func New(cfg Config, logger *slog.Logger) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MinTextLen == 0 {
		cfg.MinTextLen = defaultMinTextLen
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		minTextLen: cfg.MinTextLen,
		logger:     logger.With("component", "extractor"),
	}
}

// FullText returns the readable article text at pageURL. The second return
// value is false when the page cannot be fetched, cannot be parsed, or the
// extracted text is too short to support a meaningful summary. Failures are
// logged and absorbed here; one bad page must never abort a batch.
func (e *Extractor) FullText(ctx context.Context, pageURL string) (string, bool) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		e.logger.Debug("invalid url", "url", pageURL, "error", err)
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		e.logger.Debug("build request failed", "url", pageURL, "error", err)
		return "", false
	}
	req.Header.Set("User-Agent", "NewsMind/1.0")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		e.logger.Debug("fetch failed", "url", pageURL, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.logger.Debug("unexpected status", "url", pageURL, "status", resp.StatusCode)
		return "", false
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		e.logger.Debug("readability failed", "url", pageURL, "error", err)
		return "", false
	}

	text := normalizeText(article.TextContent)
	if len(text) < e.minTextLen {
		e.logger.Debug("text too short", "url", pageURL, "length", len(text))
		return "", false
	}

	return text, true
}

func normalizeText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(whitespace.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
