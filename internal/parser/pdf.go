package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"scheme-rag/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/schema"
)

const (
	MetaSource = "source"
	MetaPage   = "page"
)

// PageExtractor turns the raw bytes of a document into one text per page.
type PageExtractor interface {
	ExtractPages(name string, data []byte) ([]string, error)
}

// PDFExtractor extracts plain text with github.com/ledongthuc/pdf.
type PDFExtractor struct{}

func (PDFExtractor) ExtractPages(name string, data []byte) (pages []string, err error) {
	// ledongthuc/pdf panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf %s: %v", name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}
	return pages, nil
}

// IsPDF reports whether name has a .pdf extension, ignoring case.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// LoadDocuments lists the top level of fsys and returns one document per
// non-blank page of every PDF found, in directory order. A missing directory
// yields no documents.
func LoadDocuments(fsys fs.FS, extractor PageExtractor) ([]schema.Document, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Msg("Source directory does not exist, indexing zero documents")
			return nil, nil
		}
		return nil, &models.IndexBuildError{Stage: "list", Err: err}
	}

	var docs []schema.Document
	for _, entry := range entries {
		if entry.IsDir() || !IsPDF(entry.Name()) {
			continue
		}
		name := entry.Name()

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, &models.IndexBuildError{Stage: "read", Path: name, Err: err}
		}

		pages, err := extractor.ExtractPages(name, data)
		if err != nil {
			return nil, &models.IndexBuildError{Stage: "extract", Path: name, Err: err}
		}

		kept := 0
		for i, text := range pages {
			if strings.TrimSpace(text) == "" {
				continue
			}
			docs = append(docs, schema.Document{
				PageContent: text,
				Metadata: map[string]any{
					MetaSource: path.Base(name),
					MetaPage:   i + 1,
				},
			})
			kept++
		}
		log.Debug().Str("file", name).Int("pages", len(pages)).Int("kept", kept).Msg("Extracted pdf")
	}
	return docs, nil
}
