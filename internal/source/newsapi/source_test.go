package newsapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(baseURL string) *Client {
	return New(Config{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Language:       "en",
		PageSize:       20,
		Timeout:        2 * time.Second,
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	}, testLogger())
}

const sampleResponse = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"source": {"id": "example", "name": "Example News"},
			"author": "Jane Doe",
			"title": "Go 1.25 released",
			"url": "https://example.com/go-1-25",
			"publishedAt": "2026-08-25T10:00:00Z"
		},
		{
			"source": {"id": null, "name": "Wire Service"},
			"author": null,
			"title": "Chip shortage easing",
			"url": "https://example.com/chips",
			"publishedAt": "2026-08-25T09:00:00Z"
		}
	]
}`

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("maps response fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			assert.Equal(t, "technology", query.Get("q"))
			assert.Equal(t, "en", query.Get("language"))
			assert.Equal(t, "publishedAt", query.Get("sortBy"))
			assert.Equal(t, "20", query.Get("pageSize"))
			assert.Equal(t, "test-key", query.Get("apiKey"))
			fmt.Fprint(w, sampleResponse)
		}))
		defer server.Close()

		candidates, err := newTestClient(server.URL).Search(ctx, "technology")

		require.NoError(t, err)
		require.Len(t, candidates, 2)

		assert.Equal(t, Candidate{
			Title:       "Go 1.25 released",
			Author:      "Jane Doe",
			URL:         "https://example.com/go-1-25",
			Source:      "Example News",
			PublishedAt: "2026-08-25T10:00:00Z",
		}, candidates[0])

		// Missing author defaults rather than staying empty.
		assert.Equal(t, "Unknown", candidates[1].Author)
		assert.Equal(t, "Wire Service", candidates[1].Source)
	})

	t.Run("api error status is returned", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"status": "error", "message": "apiKeyInvalid"}`)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Search(ctx, "technology")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "apiKeyInvalid")
	})

	t.Run("transport failures are retried", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			if calls < 3 {
				http.Error(w, "bad gateway", http.StatusBadGateway)
				return
			}
			fmt.Fprint(w, sampleResponse)
		}))
		defer server.Close()

		candidates, err := newTestClient(server.URL).Search(ctx, "technology")

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Len(t, candidates, 2)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls++
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Search(ctx, "technology")

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "after 3 attempts")
	})

	t.Run("missing api key fails before any request", func(t *testing.T) {
		client := New(Config{BaseURL: "http://127.0.0.1:1", MaxAttempts: 1}, testLogger())

		_, err := client.Search(ctx, "technology")

		assert.Error(t, err)
	})
}

func TestCalculateBackoff(t *testing.T) {
	client := New(Config{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     300 * time.Millisecond,
	}, testLogger())

	assert.Equal(t, 100*time.Millisecond, client.calculateBackoff(1))
	assert.Equal(t, 200*time.Millisecond, client.calculateBackoff(2))
	assert.Equal(t, 300*time.Millisecond, client.calculateBackoff(3))
	assert.Equal(t, 300*time.Millisecond, client.calculateBackoff(5))
}
