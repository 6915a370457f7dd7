package embedding

import (
	"context"

	goopenai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"

	caremerrors "github.com/habiliai/caremem/errors"
)

const openaiDimensions = 1536

// OpenAIEmbedder embeds text with OpenAI's text-embedding-3-small model.
type OpenAIEmbedder struct {
	client *goopenai.Client
}

var (
	_ Embedder = (*OpenAIEmbedder)(nil)
)

func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	client := goopenai.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &OpenAIEmbedder{client: client}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, _ TaskType, texts ...string) ([][]float32, error) {
	params := goopenai.EmbeddingNewParams{
		Input:          goopenai.F[goopenai.EmbeddingNewParamsInputUnion](goopenai.EmbeddingNewParamsInputArrayOfStrings(texts)),
		Model:          goopenai.F(goopenai.EmbeddingModelTextEmbedding3Small),
		EncodingFormat: goopenai.F(goopenai.EmbeddingNewParamsEncodingFormatFloat),
	}

	resp, err := e.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, errors.Wrapf(caremerrors.ErrService, "openai embedding failed: %v", err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embedding := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			embedding[j] = float32(v)
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}

func (e *OpenAIEmbedder) Dimensions() int {
	return openaiDimensions
}
