package llm

import (
	"context"
	"errors"
	"strings"
)

// Provider names one of the supported LLM backends.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"

	// DefaultProvider is used when the requested provider is unknown
	// or unspecified.
	DefaultProvider = ProviderOpenAI
)

// ParseProvider resolves a raw provider name, falling back to the default for
// anything it does not recognize.
func ParseProvider(raw string) Provider {
	switch Provider(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderGemini:
		return ProviderGemini
	case ProviderOpenAI:
		return ProviderOpenAI
	default:
		return DefaultProvider
	}
}

// ErrNoCredentials is returned by an adapter whose API key is missing. The
// adapter reports it before attempting any network call.
var ErrNoCredentials = errors.New("llm: api key is not configured")

// Completer is one provider binding: it accepts a system instruction and a
// user prompt and returns generated text or a failure. Callers are expected
// to absorb failures into their own degraded responses.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
