package memory

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

const decisionPromptTemplate = `You are tasked with determining whether to activate a memory storage system for this conversation. Evaluate the user's input carefully and decide whether it contains information worth storing for future reference.

## Decision Criteria

Respond with "YES" if ANY of the following conditions are met:
- Contains personal information (names, preferences, circumstances, goals)
- Describes a specific situation or context unique to the user
- Mentions ongoing caregiving tasks or routines that require continuity across sessions
- Includes specific facts about the user or their care recipient they might want to reference later
- References previous conversations or establishes context that would benefit from persistence
- Outlines problems or challenges specific to the user's circumstances

Respond with "NO" if ALL of the following conditions are met:
- Contains only general questions about common knowledge topics
- Requests factual information without personal context
- Presents hypothetical scenarios without connection to the user's personal situation
- Contains no identifying information or preferences
- Could be asked by anyone without changing the expected response

Examples:
User's input: I am a caregiver for my dad who has Alzheimer's disease. I am feeling very tired and stressed. What should I do?
Output: YES

User's input: What is the common cause of Alzheimer's disease?
Output: NO

DO NOT include any text outside the string "YES" or "NO" in your response.

User's input:
{{ .Utterance }}`

const extractionPromptTemplate = `You are listening to a caregiver's utterance to understand their current situation and the facts of their life.

First, review whether the utterance contains information that is factual and expresses their life situation - something that is not going to change for a while. If it does, create a single memory item following these rules.

Valid categories for memory items are:
{{- range .Categories }}
- {{ . }}
{{- end }}

Category meanings:
- ADRD_INFO: information about Alzheimer's disease and related dementias relevant to this user, including the care recipient's condition and key indicators
- CARE_GIVING: the caregiving experience, including caregiving challenges, routines and strategies
- BIO_INFO: the user's own biography, including name, age, gender and occupation
- SOCIAL_CONNECTIONS: the user's friends, family, daily activities and routine
- TOPICS_OF_INTEREST: the user's hobbies and subjects they care about
- PREFERENCES: the user's preferred answer tone, language and similar preferences
- OTHER: anything that fits no category above

When more than one category plausibly applies, pick the single best match using this priority order (earlier wins):
{{ join ", " .Priority }}

Level is "LTM" for durable facts and "STM" for information only relevant to the current conversation.

Respond with a single JSON object matching this schema, and no other text:
{{ .Schema }}

Examples:
User's utterance: My dad seems to be forgetting things more often these days. What should I do?
Output: {"content":"user's dad is suffering from cognitive decline that appears more frequently","level":"LTM","category":"ADRD_INFO","type":"care recipient condition","topics":["alzheimer's disease","dementia","caregiving"]}

User's utterance: I am a caregiver for my dad who has Alzheimer's disease. I am feeling very tired and stressed. What should I do?
Output: {"content":"user is a caregiver for their dad who has Alzheimer's disease and is feeling tired and stressed","level":"LTM","category":"CARE_GIVING","type":"emotional state","topics":["caregiving","stress","burnout"]}

Be extremely concise - content should be one clear sentence. Here is the user's utterance:
{{ .Utterance }}`

const episodicPromptTemplate = `You are analyzing a caregiver-support conversation to create a memory that will guide future interactions. Extract the key elements that would be most helpful when a similar conversation comes up again.

Rules:
1. For any field where you don't have enough information, use "N/A"
2. Be extremely concise - each string should be one clear, actionable sentence
3. Topics should be specific enough to match similar situations but general enough to be reusable

Respond with a single JSON object matching this schema, and no other text:
{{ .Schema }}

Here is the prior conversation:

{{ .Conversation }}`

const contradictionPromptTemplate = `You are a helpful assistant that checks if two sentences are contradictory. Contradictory means the fact in one sentence is the opposite of the fact in the other: they make different statements about the same thing.

Here are the two sentences:
sentence1: {{ .First }}
sentence2: {{ .Second }}

If the two sentences are contradictory, return "YES". Otherwise, return "NO". Do not include any text outside the string "YES" or "NO" in your response.`

type (
	decisionTemplateData struct {
		Utterance string
	}

	extractionTemplateData struct {
		Utterance  string
		Categories []Category
		Priority   []string
		Schema     string
	}

	episodicTemplateData struct {
		Conversation string
		Schema       string
	}

	contradictionTemplateData struct {
		First  string
		Second string
	}
)

var (
	decisionTmpl      = template.Must(template.New("decision").Funcs(funcMap()).Parse(decisionPromptTemplate))
	extractionTmpl    = template.Must(template.New("extraction").Funcs(funcMap()).Parse(extractionPromptTemplate))
	episodicTmpl      = template.Must(template.New("episodic").Funcs(funcMap()).Parse(episodicPromptTemplate))
	contradictionTmpl = template.Must(template.New("contradiction").Funcs(funcMap()).Parse(contradictionPromptTemplate))
)

func funcMap() template.FuncMap {
	return sprig.FuncMap()
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s prompt", tmpl.Name())
	}
	return strings.TrimSpace(buf.String()), nil
}
