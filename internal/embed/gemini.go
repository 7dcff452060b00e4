// Package embed wraps the external embedding provider behind a small
// batch interface.
package embed

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultModel = "gemini-embedding-001"

// GeminiEmbedder produces embeddings through the Gemini API.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	debug  bool
}

// NewGeminiEmbedder creates an embedder using the given API key. An empty
// key falls back to Application Default Credentials, mirroring the gemini
// CLI behavior. An empty model selects the default embedding model.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string, debug bool) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &GeminiEmbedder{client: client, model: model, debug: debug}, nil
}

// Embed returns one vector per input text, in input order. The provider
// accepts the whole batch in a single call.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	if e.debug {
		fmt.Printf("[embed] embedding %d text(s) with %s\n", len(texts), e.model)
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding provider returned %d vectors for %d inputs", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, 0, len(resp.Embeddings))
	for _, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("embedding provider returned an empty vector")
		}
		vectors = append(vectors, emb.Values)
	}
	return vectors, nil
}
