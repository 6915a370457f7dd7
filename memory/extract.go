package memory

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/habiliai/caremem/llm"
)

// Extract summarizes an utterance into a BaseMemory via the structured
// extraction collaborator. The result is either fully valid or an error;
// partially-valid memories never escape.
//
// Extraction does not re-check ShouldRemember: decision and extraction are
// separate, composable steps.
func (s *service) Extract(ctx context.Context, utterance string) (*BaseMemory, error) {
	schema, err := llm.SchemaFor(&BaseMemory{})
	if err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(extractionTmpl, extractionTemplateData{
		Utterance:  utterance,
		Categories: Categories(),
		Priority: lo.Map(s.priority, func(c Category, _ int) string {
			return string(c)
		}),
		Schema: schema,
	})
	if err != nil {
		return nil, err
	}

	var base BaseMemory
	if err := llm.CompleteJSON(ctx, s.client, llm.Request{
		Model:  s.config.ExtractionModel,
		Prompt: prompt,
	}, &base); err != nil {
		return nil, err
	}

	base.Category = s.resolveCategory(base.Category)

	if err := base.Validate(); err != nil {
		return nil, err
	}

	s.logger.Debug("extracted memory",
		"level", base.Level,
		"category", base.Category,
		"type", base.Type,
	)

	return &base, nil
}

// resolveCategory collapses a multi-valued category answer to the single
// highest-priority candidate. Collaborators occasionally emit "BIO_INFO,
// PREFERENCES" for an utterance spanning both; the fixed priority order makes
// the outcome deterministic. A genuinely unknown value passes through
// untouched so validation can reject it.
func (s *service) resolveCategory(raw Category) Category {
	parts := strings.FieldsFunc(string(raw), func(r rune) bool {
		return r == ',' || r == '|' || r == '/'
	})
	if len(parts) <= 1 {
		return raw
	}

	candidates := lo.Map(parts, func(p string, _ int) Category {
		return Category(strings.TrimSpace(p))
	})
	for _, preferred := range s.priority {
		if lo.Contains(candidates, preferred) {
			return preferred
		}
	}

	return raw
}
