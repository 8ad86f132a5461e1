// Package indexer builds the vector index over the PDF collection once per
// process and hands the same handle to every caller afterwards.
package indexer

import (
	"context"
	"io/fs"
	"os"
	"sync"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"scheme-rag/internal/chromemdb"
	"scheme-rag/internal/config"
	"scheme-rag/internal/embedding"
	"scheme-rag/internal/helper"
	"scheme-rag/internal/models"
	"scheme-rag/internal/parser"
)

type Option func(*Indexer)

// WithSource replaces the docs directory with fsys.
func WithSource(fsys fs.FS) Option {
	return func(i *Indexer) { i.source = fsys }
}

func WithEmbeddingFunc(embed chromem.EmbeddingFunc) Option {
	return func(i *Indexer) { i.embed = embed }
}

func WithExtractor(extractor parser.PageExtractor) Option {
	return func(i *Indexer) { i.extractor = extractor }
}

// WithInMemory keeps the index in memory only. Nothing is written to disk.
func WithInMemory() Option {
	return func(i *Indexer) { i.inMemory = true }
}

// Indexer owns the lazily built index. The zero value is not usable; use New.
type Indexer struct {
	cfg       *config.RAGConfig
	embedCfg  *config.LLMConfig
	source    fs.FS
	embed     chromem.EmbeddingFunc
	extractor parser.PageExtractor
	inMemory  bool

	mu    sync.Mutex
	index *chromemdb.VectorDBManager
}

func New(cfg *config.Config, opts ...Option) *Indexer {
	i := &Indexer{
		cfg:       &cfg.RAG,
		embedCfg:  &cfg.EmbedLLM,
		extractor: parser.PDFExtractor{},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.source == nil {
		i.source = os.DirFS(i.cfg.DocsPath)
	}
	return i
}

// GetIndex returns the index, building it on first use. A failed build is not
// remembered, so the next call starts over.
func (i *Indexer) GetIndex(ctx context.Context) (*chromemdb.VectorDBManager, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.index != nil {
		return i.index, nil
	}

	index, err := i.build(ctx)
	if err != nil {
		return nil, err
	}
	i.index = index
	return index, nil
}

func (i *Indexer) build(ctx context.Context) (*chromemdb.VectorDBManager, error) {
	log.Info().Str("docs", i.cfg.DocsPath).Str("store", i.cfg.VectorStorePath).Msg("Building vector index")

	if !i.inMemory {
		if err := helper.CreateFolder(i.cfg.VectorStorePath); err != nil {
			return nil, &models.IndexBuildError{Stage: "store", Path: i.cfg.VectorStorePath, Err: err}
		}
	}

	docs, err := parser.LoadDocuments(i.source, i.extractor)
	if err != nil {
		return nil, err
	}

	overlap := -1 // splitter default
	if i.cfg.ChunkOverlap != nil {
		overlap = *i.cfg.ChunkOverlap
	}
	chunks, err := parser.SplitDocuments(docs, i.cfg.ChunkSize, overlap)
	if err != nil {
		return nil, err
	}
	log.Info().Int("pages", len(docs)).Int("chunks", len(chunks)).Msg("Split documents")

	embed := i.embed
	if embed == nil {
		embed, err = embedding.NewOllamaEmbeddingFunc(i.embedCfg)
		if err != nil {
			return nil, &models.IndexBuildError{Stage: "embed", Err: err}
		}
	}

	db, err := chromemdb.NewVectorDBManager(i.cfg.VectorStorePath, i.inMemory)
	if err != nil {
		return nil, &models.IndexBuildError{Stage: "store", Path: i.cfg.VectorStorePath, Err: err}
	}
	if _, err := db.ResetCollection(i.cfg.CollectionName, embed); err != nil {
		return nil, &models.IndexBuildError{Stage: "store", Path: i.cfg.VectorStorePath, Err: err}
	}
	if err := db.CreateDocs(ctx, chunks); err != nil {
		return nil, &models.IndexBuildError{Stage: "embed", Err: err}
	}

	log.Info().Int("documents", db.Count()).Msg("Vector index ready")
	return db, nil
}
