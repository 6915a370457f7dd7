package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/habiliai/caremem/errors"
)

type (
	// Request is a single-turn prompt to an opaque chat collaborator.
	Request struct {
		Model       string
		System      string
		Prompt      string
		Temperature float64
		MaxTokens   int

		// JSONOutput forces the collaborator into JSON mode so the response
		// can be decoded into a structured value.
		JSONOutput bool
	}

	// Client is the text-in/text-out boundary to the language model. The
	// memory pipeline never talks to a provider SDK directly; it only sees
	// this interface, so tests can substitute fixed-response fakes.
	Client interface {
		Complete(ctx context.Context, req Request) (string, error)
	}
)

// CompleteJSON runs req in JSON mode and decodes the response into out.
// An undecodable response surfaces as a service error, never as a zero value.
func CompleteJSON(ctx context.Context, client Client, req Request, out any) error {
	req.JSONOutput = true

	text, err := client.Complete(ctx, req)
	if err != nil {
		return err
	}

	text = trimCodeFence(text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return errors.Wrapf(errors.ErrService, "uninterpretable structured response: %v", err)
	}

	return nil
}

// trimCodeFence strips a markdown fence some models wrap JSON output in.
func trimCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
