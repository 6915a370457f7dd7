package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	caremerrors "github.com/habiliai/caremem/errors"
)

const (
	NomicTextEndpoint = "https://api-atlas.nomic.ai/v1/embedding/text"
	NomicTextModel    = "nomic-embed-text-v1.5"

	nomicDimensions = 768
)

// NomicEmbedder embeds text through the Nomic Atlas API.
type NomicEmbedder struct {
	client *http.Client
	apiKey string
}

var (
	_ Embedder = (*NomicEmbedder)(nil)
)

func NewNomicEmbedder(apiKey string) *NomicEmbedder {
	return &NomicEmbedder{client: http.DefaultClient, apiKey: apiKey}
}

func (e *NomicEmbedder) Embed(ctx context.Context, taskType TaskType, texts ...string) ([][]float32, error) {
	var requestBody bytes.Buffer
	if err := json.NewEncoder(&requestBody).Encode(struct {
		TaskType string   `json:"task_type"`
		Model    string   `json:"model"`
		Texts    []string `json:"texts"`
	}{
		TaskType: taskType.String(),
		Model:    NomicTextModel,
		Texts:    texts,
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, NomicTextEndpoint, &requestBody)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(caremerrors.ErrService, "failed to send embedding request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(caremerrors.ErrService, "failed to embed text: HTTP %d", resp.StatusCode)
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, errors.Wrapf(caremerrors.ErrService, "failed to decode embedding response: %v", err)
	}

	return response.Embeddings, nil
}

func (e *NomicEmbedder) Dimensions() int {
	return nomicDimensions
}
