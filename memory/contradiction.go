package memory

import (
	"context"
	"strings"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/llm"
)

// Contradicts asks the collaborator whether two memory sentences state
// opposite facts about the same thing. Useful before persisting a candidate
// memory that may conflict with an already recalled one.
func (s *service) Contradicts(ctx context.Context, first, second string) (bool, error) {
	prompt, err := renderPrompt(contradictionTmpl, contradictionTemplateData{
		First:  first,
		Second: second,
	})
	if err != nil {
		return false, err
	}

	text, err := s.client.Complete(ctx, llm.Request{
		Model:  s.config.DecisionModel,
		Prompt: prompt,
	})
	if err != nil {
		return false, err
	}

	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "YES":
		return true, nil
	case "NO":
		return false, nil
	}

	return false, errors.Wrapf(errors.ErrService, "uninterpretable contradiction answer %q", text)
}
