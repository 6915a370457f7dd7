package memory

import (
	"text/template"

	"github.com/samber/lo"
)

const groundingTemplate = `{{- if .LongTerm }}
Previously, you have learned the following facts about the user:
<ltm_context>
{{- range .LongTerm }}
- {{ . }}
{{- end }}
</ltm_context>
{{- end }}
{{- if .ShortTerm }}
In the current conversation, the user has shared:
<stm_context>
{{- range .ShortTerm }}
- {{ . }}
{{- end }}
</stm_context>
{{- end }}`

type groundingTemplateData struct {
	LongTerm  []string
	ShortTerm []string
}

var groundingTmpl = template.Must(template.New("grounding").Funcs(funcMap()).Parse(groundingTemplate))

// GroundingContext renders recalled memories into a prompt block an answer
// generator can prepend to its system prompt. Both slices may be empty; an
// empty context is the empty string.
func GroundingContext(longTerm, shortTerm []*Record) (string, error) {
	if len(longTerm) == 0 && len(shortTerm) == 0 {
		return "", nil
	}

	sentence := func(r *Record, _ int) string { return r.Sentence() }
	return renderPrompt(groundingTmpl, groundingTemplateData{
		LongTerm:  lo.Map(longTerm, sentence),
		ShortTerm: lo.Map(shortTerm, sentence),
	})
}
