package parser

import (
	"fmt"
	"strings"

	"scheme-rag/internal/models"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// SplitDocuments splits page documents into overlapping chunks, preferring
// paragraph, line and word boundaries. Chunk numbering restarts on every page.
func SplitDocuments(docs []schema.Document, chunkSize, chunkOverlap int) ([]models.Chunk, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = min(defaultChunkOverlap, chunkSize/2)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	split, err := textsplitter.SplitDocuments(splitter, docs)
	if err != nil {
		return nil, &models.IndexBuildError{Stage: "split", Err: err}
	}

	chunks := make([]models.Chunk, 0, len(split))
	perPage := make(map[string]int)
	for _, doc := range split {
		if strings.TrimSpace(doc.PageContent) == "" {
			continue
		}
		source, _ := doc.Metadata[MetaSource].(string)
		page, _ := doc.Metadata[MetaPage].(int)

		key := fmt.Sprintf("%s-p%d", source, page)
		perPage[key]++
		chunks = append(chunks, models.Chunk{
			ID:         fmt.Sprintf("%s-c%d", key, perPage[key]),
			Content:    doc.PageContent,
			Source:     source,
			PageNumber: page,
			ChunkID:    perPage[key],
		})
	}
	return chunks, nil
}

// CreateMetadata returns the metadata stored next to a chunk in the vector index.
func CreateMetadata(chunk models.Chunk) map[string]string {
	return map[string]string{
		MetaSource: chunk.Source,
		MetaPage:   fmt.Sprintf("%d", chunk.PageNumber),
		"chunk_id": fmt.Sprintf("%d", chunk.ChunkID),
	}
}
