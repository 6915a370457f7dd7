package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/habiliai/caremem/errors"
)

const anthropicDefaultMaxTokens = 1024

// AnthropicClient talks to the Anthropic messages API.
type AnthropicClient struct {
	client anthropic.Client
}

var (
	_ Client = (*AnthropicClient)(nil)
)

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{client: client}
}

func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	system := req.System
	if req.JSONOutput {
		// Anthropic has no JSON response mode; the instruction rides on the
		// system prompt instead.
		if system != "" {
			system += "\n\n"
		}
		system += "Respond with a single JSON object and no other text."
	}
	if system != "" {
		params.System = append(params.System, anthropic.TextBlockParam{
			Text: system,
		})
	}
	if req.Temperature != 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.Wrapf(errors.ErrService, "anthropic completion failed: %v", err)
	}

	var text string
	for _, content := range resp.Content {
		switch block := content.AsAny().(type) {
		case anthropic.TextBlock:
			text += block.Text
		}
	}
	if text == "" {
		return "", errors.Wrapf(errors.ErrService, "anthropic returned no text content")
	}

	return text, nil
}
