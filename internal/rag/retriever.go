package rag

import (
	"context"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"scheme-rag/internal/models"
	"scheme-rag/internal/parser"
)

const DefaultTopK = 4

// Searcher is implemented by chromemdb.VectorDBManager.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]chromem.Result, error)
}

// Retrieve returns the text of the k chunks most similar to query, most
// similar first. Fewer are returned when the index holds fewer than k.
func Retrieve(ctx context.Context, idx Searcher, query string, k int) ([]string, error) {
	results, err := search(ctx, idx, query, k)
	if err != nil {
		return nil, err
	}
	return contents(results), nil
}

func search(ctx context.Context, idx Searcher, query string, k int) ([]chromem.Result, error) {
	results, err := idx.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("query", query).Int("chunks", len(results)).Msg("Retrieved context")
	return results, nil
}

func contents(results []chromem.Result) []string {
	chunks := make([]string, 0, len(results))
	for _, r := range results {
		chunks = append(chunks, r.Content)
	}
	return chunks
}

func sourceRefs(results []chromem.Result) []models.SourceRef {
	sources := make([]models.SourceRef, 0, len(results))
	for _, r := range results {
		page, _ := strconv.Atoi(r.Metadata[parser.MetaPage])
		sources = append(sources, models.SourceRef{
			Filename:   r.Metadata[parser.MetaSource],
			PageNumber: page,
			Similarity: r.Similarity,
		})
	}
	return sources
}
