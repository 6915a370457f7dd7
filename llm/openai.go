package llm

import (
	"context"

	goopenai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/habiliai/caremem/errors"
)

// OpenAIClient talks to the OpenAI chat completions API.
type OpenAIClient struct {
	client *goopenai.Client
}

var (
	_ Client = (*OpenAIClient)(nil)
)

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := goopenai.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &OpenAIClient{client: client}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	var messages []goopenai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, goopenai.SystemMessage(req.System))
	}
	messages = append(messages, goopenai.UserMessage(req.Prompt))

	params := goopenai.ChatCompletionNewParams{
		Model:    goopenai.String(req.Model),
		Messages: goopenai.F(messages),
	}
	if req.Temperature != 0 {
		params.Temperature = goopenai.Float(req.Temperature)
	}
	if req.MaxTokens != 0 {
		params.MaxTokens = goopenai.Int(int64(req.MaxTokens))
	}
	if req.JSONOutput {
		params.ResponseFormat = goopenai.F[goopenai.ChatCompletionNewParamsResponseFormatUnion](
			goopenai.ChatCompletionNewParamsResponseFormat{
				Type: goopenai.F(goopenai.ChatCompletionNewParamsResponseFormatTypeJSONObject),
			},
		)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrapf(errors.ErrService, "openai completion failed: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Wrapf(errors.ErrService, "openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
