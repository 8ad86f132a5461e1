package chromemdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"scheme-rag/internal/models"
	"scheme-rag/internal/parser"
)

const (
	compress = false
)

// VectorDBManager encapsulates the chromem-go database operations
type VectorDBManager struct {
	db         *chromem.DB
	collection *chromem.Collection
	dbPath     string
}

// NewVectorDBManager opens the persistent database at dbPath, or an in-memory
// one when inMemory is set.
func NewVectorDBManager(dbPath string, inMemory bool) (*VectorDBManager, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	return &VectorDBManager{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// ResetCollection drops whatever a previous run persisted under
// collectionName and starts an empty one.
func (m *VectorDBManager) ResetCollection(collectionName string, embed chromem.EmbeddingFunc) (*chromem.Collection, error) {
	if err := m.db.DeleteCollection(collectionName); err != nil {
		return nil, fmt.Errorf("failed to drop collection: %w", err)
	}
	c, err := m.db.CreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	m.collection = c
	return c, nil
}

// CreateDocs embeds and stores chunks. Empty chunks are skipped.
func (m *VectorDBManager) CreateDocs(ctx context.Context, chunks []models.Chunk) error {
	if m.collection == nil {
		return fmt.Errorf("collection is required")
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.Content == "" {
			continue
		}
		docs = append(docs, chromem.Document{
			ID:       chunk.ID,
			Content:  chunk.Content,
			Metadata: parser.CreateMetadata(chunk),
		})
	}
	if len(docs) == 0 {
		return nil
	}

	log.Info().Msgf("Adding %d documents to vector database", len(docs))
	if err := m.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (m *VectorDBManager) Count() int {
	if m.collection == nil {
		return 0
	}
	return m.collection.Count()
}

// Search embeds query with the collection's embedding function and returns
// up to k results, most similar first. k is clamped to the collection size
// since chromem-go rejects larger values.
func (m *VectorDBManager) Search(ctx context.Context, query string, k int) ([]chromem.Result, error) {
	if m.collection == nil {
		return nil, fmt.Errorf("collection is required")
	}
	k = min(k, m.collection.Count())
	if k <= 0 {
		return nil, nil
	}

	results, err := m.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}
	return results, nil
}
