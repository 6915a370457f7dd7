package embedding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habiliai/caremem/embedding"
)

func TestNewOpenAIEmbedder(t *testing.T) {
	embedder := embedding.NewOpenAIEmbedder("test-key")
	require.NotNil(t, embedder)
	assert.Equal(t, 1536, embedder.Dimensions())

	var _ embedding.Embedder = embedder
}

func TestNewNomicEmbedder(t *testing.T) {
	embedder := embedding.NewNomicEmbedder("test-key")
	require.NotNil(t, embedder)
	assert.Equal(t, 768, embedder.Dimensions())

	var _ embedding.Embedder = embedder
}
