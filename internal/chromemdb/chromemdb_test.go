package chromemdb

import (
	"context"
	"os"
	"strings"
	"testing"

	"scheme-rag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbed scores a text on three topics. The constant keeps vectors
// away from zero so chromem-go can normalize them.
func keywordEmbed(_ context.Context, text string) ([]float32, error) {
	text = strings.ToLower(text)
	return []float32{
		0.01 + float32(strings.Count(text, "farmer")),
		0.01 + float32(strings.Count(text, "student")),
		0.01 + float32(strings.Count(text, "women")),
	}, nil
}

func newManager(t *testing.T) *VectorDBManager {
	t.Helper()
	m, err := NewVectorDBManager("", true)
	require.NoError(t, err)
	_, err = m.ResetCollection("test", keywordEmbed)
	require.NoError(t, err)
	return m
}

func TestSearchClampsToCollectionSize(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)
	require.NoError(t, m.CreateDocs(ctx, []models.Chunk{
		{ID: "a", Content: "PM-KISAN income support for every farmer family", Source: "a.pdf", PageNumber: 1, ChunkID: 1},
		{ID: "b", Content: "Post matric scholarship for student applicants", Source: "b.pdf", PageNumber: 4, ChunkID: 1},
	}))
	require.Equal(t, 2, m.Count())

	results, err := m.Search(ctx, "scheme for a farmer", 4)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
	assert.Equal(t, "a.pdf", results[0].Metadata["source"])
	assert.Equal(t, "4", results[1].Metadata["page"])
}

func TestSearchEmptyCollection(t *testing.T) {
	m := newManager(t)

	results, err := m.Search(context.Background(), "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCreateDocsSkipsEmptyContent(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.CreateDocs(context.Background(), []models.Chunk{{ID: "x"}}))
	assert.Equal(t, 0, m.Count())
}

func TestPersistentResetCollection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	chunks := []models.Chunk{
		{ID: "w", Content: "Mahila Samman savings certificate for women", Source: "w.pdf", PageNumber: 1, ChunkID: 1},
	}

	m, err := NewVectorDBManager(dir, false)
	require.NoError(t, err)
	_, err = m.ResetCollection("schemes", keywordEmbed)
	require.NoError(t, err)
	require.NoError(t, m.CreateDocs(ctx, chunks))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	reopened, err := NewVectorDBManager(dir, false)
	require.NoError(t, err)
	_, err = reopened.ResetCollection("schemes", keywordEmbed)
	require.NoError(t, err)
	assert.Equal(t, 0, reopened.Count())

	require.NoError(t, reopened.CreateDocs(ctx, chunks))
	assert.Equal(t, 1, reopened.Count())
}
