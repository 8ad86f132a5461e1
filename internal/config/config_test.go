package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(APIKeyEnv, "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Watson.APIKey)
	assert.Equal(t, DefaultIdentityURL, cfg.Watson.IdentityURL)
	assert.Equal(t, DefaultChatURL, cfg.Watson.ChatURL)
	assert.Equal(t, DefaultModelID, cfg.Watson.ModelID)
	assert.Equal(t, DefaultProjectID, cfg.Watson.ProjectID)
	assert.Equal(t, 2000, cfg.Generation.MaxTokens)
	require.NotNil(t, cfg.Generation.TopP)
	assert.Equal(t, 1.0, *cfg.Generation.TopP)
	assert.Zero(t, cfg.Generation.Temperature)
	assert.Equal(t, "docs", cfg.RAG.DocsPath)
	assert.Equal(t, "vector_store", cfg.RAG.VectorStorePath)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	require.NotNil(t, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 200, *cfg.RAG.ChunkOverlap)
	assert.Equal(t, 4, cfg.RAG.TopK)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
watson:
  api_key: from-file
  model_id: some/model
generation:
  top_p: 0
rag:
  docs_path: ./pdfs
  chunk_size: 500
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv(APIKeyEnv, "")
	t.Setenv(ModelIDEnv, "env/model")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Watson.APIKey)
	assert.Equal(t, "env/model", cfg.Watson.ModelID)
	require.NotNil(t, cfg.Generation.TopP)
	assert.Equal(t, 0.0, *cfg.Generation.TopP)
	assert.Equal(t, "./pdfs", cfg.RAG.DocsPath)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	require.NotNil(t, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 200, *cfg.RAG.ChunkOverlap)
}

func TestLoadConfigKeepsZeroChunkOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rag:\n  chunk_overlap: 0\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 0, *cfg.RAG.ChunkOverlap)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("watson: ["), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
