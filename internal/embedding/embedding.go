package embedding

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"scheme-rag/internal/config"
)

// Embedder is the part of langchaingo's embedder the index needs.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// new ollama embedder
func NewOllamaEmbedder(llmConfig *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        llmConfig.BaseURL,
		"embedding_model": llmConfig.Model,
	}).Msg("Loaded embedding config")

	llm, err := ollama.New(
		ollama.WithServerURL(llmConfig.BaseURL),
		ollama.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing ollama: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("error creating embedder: %w", err)
	}
	return embedder, nil
}

// EmbeddingFunc adapts an Embedder to the function chromem-go calls for both
// documents and queries, so both sides always use the same model.
func EmbeddingFunc(embedder Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec, err := embedder.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("embedder returned an empty vector")
		}
		return vec, nil
	}
}

// NewOllamaEmbeddingFunc builds the default embedding function.
func NewOllamaEmbeddingFunc(llmConfig *config.LLMConfig) (chromem.EmbeddingFunc, error) {
	embedder, err := NewOllamaEmbedder(llmConfig)
	if err != nil {
		return nil, err
	}
	return EmbeddingFunc(embedder), nil
}
