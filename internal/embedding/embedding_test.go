package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vec   []float32
	err   error
	calls []string
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	s.calls = append(s.calls, text)
	return s.vec, s.err
}

func TestEmbeddingFunc(t *testing.T) {
	stub := &stubEmbedder{vec: []float32{0.1, 0.2}}
	fn := EmbeddingFunc(stub)

	vec, err := fn(context.Background(), "scholarship for girls")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, vec)
	assert.Equal(t, []string{"scholarship for girls"}, stub.calls)
}

func TestEmbeddingFuncErrors(t *testing.T) {
	_, err := EmbeddingFunc(&stubEmbedder{err: errors.New("ollama down")})(context.Background(), "q")
	assert.EqualError(t, err, "ollama down")

	_, err = EmbeddingFunc(&stubEmbedder{})(context.Background(), "q")
	assert.Error(t, err)
}
