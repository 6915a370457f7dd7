package memory

import (
	"context"
	"strings"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/llm"
)

// ShouldRemember asks the decision collaborator whether the utterance carries
// information worth storing. The response must be an unambiguous YES or NO;
// anything else is a service failure, never a default "no".
func (s *service) ShouldRemember(ctx context.Context, utterance string) (bool, error) {
	prompt, err := renderPrompt(decisionTmpl, decisionTemplateData{
		Utterance: utterance,
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
		s.logger.Debug("memory decision", "utterance", utterance, "remember", true)
		return true, nil
	case "NO":
		s.logger.Debug("memory decision", "utterance", utterance, "remember", false)
		return false, nil
	}

	return false, errors.Wrapf(errors.ErrService, "uninterpretable memory decision %q", text)
}
