package caremem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habiliai/caremem"
	"github.com/habiliai/caremem/embedding"
	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/llm"
	"github.com/habiliai/caremem/memory"
)

type scriptedClient struct {
	responses []string
}

func (c *scriptedClient) Complete(_ context.Context, _ llm.Request) (string, error) {
	if len(c.responses) == 0 {
		return "", errors.Wrapf(errors.ErrService, "no scripted response left")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

type fakeEmbedder struct {
	vectors map[string][]float32
}

func (e *fakeEmbedder) Embed(_ context.Context, _ embedding.TaskType, texts ...string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		if v, ok := e.vectors[text]; ok {
			out = append(out, v)
		} else {
			out = append(out, []float32{0, 0, 1})
		}
	}
	return out, nil
}

func (e *fakeEmbedder) Dimensions() int {
	return 3
}

func newTestMemory(t *testing.T, responses ...string) *caremem.CareMemory {
	t.Helper()

	embedder := &fakeEmbedder{
		vectors: map[string][]float32{
			"user's dad lives at home with the user":                     {1, 0, 0},
			"user's dad moved to a memory care facility":                 {1, 0, 0},
			"where does the user's dad live":                             {1, 0, 0},
			"user is feeling overwhelmed today":                          {0, 1, 0},
			"user is a caregiver for their dad with Alzheimer's disease": {0.6, 0.8, 0},
		},
	}

	m, err := caremem.NewCareMemory(t.Context(),
		caremem.WithLLMClient(&scriptedClient{responses: responses}),
		caremem.WithEmbedder(embedder),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	return m
}

func TestProcess_LongTermRoundTrip(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t,
		"YES",
		`{"content":"user's dad lives at home with the user","level":"LTM","category":"SOCIAL_CONNECTIONS","type":"living arrangement"}`,
	)

	record, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "My dad lives with me at home.")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, memory.LevelLongTerm, record.Level)

	results, err := m.Recall(ctx, "user-1", "where does the user's dad live")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, record.ID, results[0].Record.ID)
	assert.Equal(t, "user's dad lives at home with the user", results[0].Record.Content)
	assert.GreaterOrEqual(t, results[0].Score, float32(0.6))
}

func TestProcess_NotWorthRemembering(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t, "NO")

	record, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "What is the common cause of Alzheimer's disease?")
	require.NoError(t, err)
	assert.Nil(t, record)

	results, err := m.Recall(ctx, "user-1", "where does the user's dad live")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcess_ShortTermStaysInSession(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t,
		"YES",
		`{"content":"user is feeling overwhelmed today","level":"STM","category":"CARE_GIVING","type":"emotional state"}`,
	)

	record, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "I'm feeling really overwhelmed today.")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, memory.LevelShortTerm, record.Level)

	// STM lives in the session bank, never in the vector collection.
	sessionRecords, err := m.SessionMemories(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, sessionRecords, 1)
	assert.Equal(t, record.ID, sessionRecords[0].ID)

	results, err := m.Recall(ctx, "user-1", "user is feeling overwhelmed today")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcess_ShortTermRequiresConversation(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t,
		"YES",
		`{"content":"user is feeling overwhelmed today","level":"STM","category":"CARE_GIVING","type":"emotional state"}`,
	)

	_, err := m.Process(ctx, "user-1", "", memory.SourceConversation, "I'm feeling really overwhelmed today.")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestProcess_CrossUserIsolation(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t,
		"YES",
		`{"content":"user's dad lives at home with the user","level":"LTM","category":"SOCIAL_CONNECTIONS","type":"living arrangement"}`,
	)

	_, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "My dad lives with me at home.")
	require.NoError(t, err)

	results, err := m.Recall(ctx, "user-2", "where does the user's dad live")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcess_SupersedesContradictedMemory(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t,
		// First utterance: decision, extraction.
		"YES",
		`{"content":"user's dad lives at home with the user","level":"LTM","category":"SOCIAL_CONNECTIONS","type":"living arrangement"}`,
		// Second utterance: decision, extraction, contradiction check.
		"YES",
		`{"content":"user's dad moved to a memory care facility","level":"LTM","category":"SOCIAL_CONNECTIONS","type":"living arrangement"}`,
		"YES",
	)

	old, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "My dad lives with me at home.")
	require.NoError(t, err)

	updated, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "We moved my dad into a memory care facility last week.")
	require.NoError(t, err)

	results, err := m.Recall(ctx, "user-1", "where does the user's dad live")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, updated.ID, results[0].Record.ID)
	assert.NotEqual(t, old.ID, results[0].Record.ID)
}

func TestGrounding(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t,
		"YES",
		`{"content":"user's dad lives at home with the user","level":"LTM","category":"SOCIAL_CONNECTIONS","type":"living arrangement"}`,
		"YES",
		`{"content":"user is feeling overwhelmed today","level":"STM","category":"CARE_GIVING","type":"emotional state"}`,
	)

	_, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "My dad lives with me at home.")
	require.NoError(t, err)
	_, err = m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "I'm feeling really overwhelmed today.")
	require.NoError(t, err)

	grounding, err := m.Grounding(ctx, "user-1", "conv-1", "where does the user's dad live")
	require.NoError(t, err)
	assert.Contains(t, grounding, "<ltm_context>")
	assert.Contains(t, grounding, "living arrangement")
	assert.Contains(t, grounding, "<stm_context>")
	assert.Contains(t, grounding, "emotional state")

	// A user with no memories gets an empty context.
	grounding, err = m.Grounding(ctx, "user-9", "", "where does the user's dad live")
	require.NoError(t, err)
	assert.Empty(t, grounding)
}

func TestReflect(t *testing.T) {
	ctx := t.Context()
	m := newTestMemory(t,
		"YES",
		`{"content":"user is feeling overwhelmed today","level":"STM","category":"CARE_GIVING","type":"emotional state"}`,
		`{"topics":["caregiving","burnout"],"conversation_summary":"user discussed caregiver burnout","what_worked":"suggesting respite care","what_to_avoid":"generic reassurance"}`,
	)

	_, err := m.Process(ctx, "user-1", "conv-1", memory.SourceConversation, "I'm feeling really overwhelmed today.")
	require.NoError(t, err)

	episodic, err := m.Reflect(ctx, "user-1", "conv-1", []memory.Turn{
		{Role: "user", Content: "I'm exhausted from caring for my dad."},
		{Role: "assistant", Content: "Have you considered respite care?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", episodic.UserID)
	assert.Equal(t, "conv-1", episodic.ConversationID)
	assert.NotEmpty(t, episodic.ID)
	assert.Contains(t, episodic.Topics, "burnout")

	// Reflection closes out the conversation's short-term bank.
	records, err := m.SessionMemories(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewCareMemory_RequiresCollaborators(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("NOMIC_API_KEY", "")

	_, err := caremem.NewCareMemory(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}
