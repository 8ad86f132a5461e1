package rag

import (
	"context"

	"scheme-rag/internal/chromemdb"
	"scheme-rag/internal/models"
)

// IndexProvider is implemented by indexer.Indexer.
type IndexProvider interface {
	GetIndex(ctx context.Context) (*chromemdb.VectorDBManager, error)
}

// Asker is implemented by llmservice.Client.
type Asker interface {
	Ask(ctx context.Context, prompt string) (models.Answer, error)
}

type RAG struct {
	indexes IndexProvider
	chat    Asker
	topK    int
}

func NewRAG(indexes IndexProvider, chat Asker, topK int) *RAG {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &RAG{indexes: indexes, chat: chat, topK: topK}
}

// GetSchemeRecommendation answers query from the indexed scheme documents.
func (r *RAG) GetSchemeRecommendation(ctx context.Context, query string) (string, error) {
	index, err := r.indexes.GetIndex(ctx)
	if err != nil {
		return "", err
	}
	chunks, err := Retrieve(ctx, index, query, r.topK)
	if err != nil {
		return "", err
	}
	answer, err := r.chat.Ask(ctx, BuildPrompt(chunks, query))
	if err != nil {
		return "", err
	}
	return answer.Text, nil
}

// Query runs the same pipeline as GetSchemeRecommendation and also reports
// where the context came from.
func (r *RAG) Query(ctx context.Context, query string) (*models.PromptResponse, error) {
	index, err := r.indexes.GetIndex(ctx)
	if err != nil {
		return nil, err
	}
	results, err := search(ctx, index, query, r.topK)
	if err != nil {
		return nil, err
	}

	answer, err := r.chat.Ask(ctx, BuildPrompt(contents(results), query))
	if err != nil {
		return nil, err
	}

	return &models.PromptResponse{
		Query:    query,
		Sources:  sourceRefs(results),
		Content:  answer.Text,
		Fallback: answer.IsFallback(),
	}, nil
}
