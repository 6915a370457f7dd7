package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/llm"
)

type (
	// BaseEpisodicMemory reflects on a whole conversation rather than a
	// single utterance: what it was about, what helped, what to avoid next
	// time.
	BaseEpisodicMemory struct {
		Topics              []string `json:"topics" jsonschema:"required,description=Up to 3 field-specific topics most representative of this conversation" mapstructure:"topics"`
		ConversationSummary string   `json:"conversation_summary" jsonschema:"required,description=One sentence describing what the conversation was about and accomplished" mapstructure:"conversation_summary"`
		WhatWorked          string   `json:"what_worked" jsonschema:"required,description=Most effective approach or strategy used in this conversation" mapstructure:"what_worked"`
		WhatToAvoid         string   `json:"what_to_avoid" jsonschema:"required,description=Most important pitfall or ineffective approach to avoid" mapstructure:"what_to_avoid"`
	}

	// EpisodicMemory is a BaseEpisodicMemory attributed to a user and the
	// conversation it came from.
	EpisodicMemory struct {
		BaseEpisodicMemory `mapstructure:",squash"`

		ID             string    `json:"id" mapstructure:"id"`
		UserID         string    `json:"user_id" mapstructure:"user_id"`
		ConversationID string    `json:"conversation_id" mapstructure:"conversation_id"`
		CreatedAt      time.Time `json:"created_at" mapstructure:"-"`
	}
)

// ExtractEpisodic summarizes a finished conversation into an episodic
// reflection through the structured extraction collaborator.
func (s *service) ExtractEpisodic(ctx context.Context, conversation []Turn) (*BaseEpisodicMemory, error) {
	if len(conversation) == 0 {
		return nil, errors.Wrapf(errors.ErrValidation, "conversation must not be empty")
	}

	schema, err := llm.SchemaFor(&BaseEpisodicMemory{})
	if err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(episodicTmpl, episodicTemplateData{
		Conversation: FormatConversation(conversation),
		Schema:       schema,
	})
	if err != nil {
		return nil, err
	}

	var base BaseEpisodicMemory
	if err := llm.CompleteJSON(ctx, s.client, llm.Request{
		Model:  s.config.ExtractionModel,
		Prompt: prompt,
	}, &base); err != nil {
		return nil, err
	}

	if base.ConversationSummary == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "episodic memory summary must not be empty")
	}

	return &base, nil
}

// NewEpisodicMemory attributes base to a user and conversation.
func NewEpisodicMemory(userID, conversationID string, base BaseEpisodicMemory) *EpisodicMemory {
	return &EpisodicMemory{
		BaseEpisodicMemory: base,
		ID:                 uuid.NewString(),
		UserID:             userID,
		ConversationID:     conversationID,
		CreatedAt:          time.Now().UTC(),
	}
}
