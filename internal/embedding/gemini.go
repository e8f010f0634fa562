package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// GeminiClient embeds text through the Gemini embedding API. The genai client
// is the process-wide model handle: it is created once by the application
// startup sequence and only read afterwards.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(client *genai.Client, model string) *GeminiClient {
	return &GeminiClient{client: client, model: model}
}

func (g *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	em := g.client.EmbeddingModel(g.model)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embedding.Values, nil
}
