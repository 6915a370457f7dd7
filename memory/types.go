package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/habiliai/caremem/errors"
)

type (
	// Level is the durability of a memory. Long-term memories survive across
	// sessions in the vector store; short-term memories stay with the
	// conversation and are never vector-indexed.
	Level string

	// Category is the care-domain classification of a memory.
	Category string

	// BaseMemory is the user-agnostic payload produced by extraction.
	// Attribution (who it belongs to, where it came from) is attached by the
	// caller, since extraction works on raw text only.
	BaseMemory struct {
		Content  string   `json:"content" jsonschema:"required,description=Extremely concise information summarized and extracted from the user's utterance" mapstructure:"content"`
		Level    Level    `json:"level" jsonschema:"required,enum=LTM,enum=STM,description=LTM for long-term memory that stays factual across sessions; STM for short-term memory scoped to the current conversation" mapstructure:"level"`
		Category Category `json:"category" jsonschema:"required,description=Care-domain category of this memory" mapstructure:"category"`
		Type     string   `json:"type" jsonschema:"required,description=2 to 4 words description of this memory nature" mapstructure:"type"`
		Topics   []string `json:"topics,omitempty" jsonschema:"description=Up to 3 short topics most representative of the content" mapstructure:"topics"`
	}

	// Record is a persisted unit of memory: a BaseMemory attributed to a user
	// and a provenance source.
	Record struct {
		BaseMemory `mapstructure:",squash"`

		ID        string    `json:"id" mapstructure:"id"`
		UserID    string    `json:"user_id" mapstructure:"user_id"`
		Source    string    `json:"source" mapstructure:"source"`
		CreatedAt time.Time `json:"created_at" mapstructure:"-"`

		// Embedding is derived from Content at insertion time and never
		// mutated afterwards.
		Embedding []float32 `json:"-" mapstructure:"-"`
	}
)

const (
	LevelLongTerm  Level = "LTM"
	LevelShortTerm Level = "STM"

	CategoryADRDInfo          Category = "ADRD_INFO"
	CategoryCareGiving        Category = "CARE_GIVING"
	CategoryBioInfo           Category = "BIO_INFO"
	CategorySocialConnections Category = "SOCIAL_CONNECTIONS"
	CategoryTopicsOfInterest  Category = "TOPICS_OF_INTEREST"
	CategoryPreferences       Category = "PREFERENCES"
	CategoryOther             Category = "OTHER"

	SourceQuery        = "QUERY"
	SourceConversation = "CONVERSATION"
)

// DefaultCategoryPriority breaks ties when an utterance spans several
// categories: disease information outranks caregiving context, which outranks
// biography, and so on down to the catch-all.
var DefaultCategoryPriority = []Category{
	CategoryADRDInfo,
	CategoryCareGiving,
	CategoryBioInfo,
	CategorySocialConnections,
	CategoryTopicsOfInterest,
	CategoryPreferences,
	CategoryOther,
}

func Categories() []Category {
	return []Category{
		CategoryADRDInfo,
		CategoryCareGiving,
		CategoryBioInfo,
		CategorySocialConnections,
		CategoryTopicsOfInterest,
		CategoryPreferences,
		CategoryOther,
	}
}

func (l Level) Validate() error {
	switch l {
	case LevelLongTerm, LevelShortTerm:
		return nil
	}
	return errors.Wrapf(errors.ErrValidation, "invalid memory level %q", string(l))
}

func (c Category) Validate() error {
	if lo.Contains(Categories(), c) {
		return nil
	}
	return errors.Wrapf(errors.ErrValidation, "unrecognized memory category %q", string(c))
}

// Validate checks every invariant a memory must satisfy before attribution.
// A BaseMemory that fails here is never embedded or stored.
func (m *BaseMemory) Validate() error {
	if err := m.Level.Validate(); err != nil {
		return err
	}
	if err := m.Category.Validate(); err != nil {
		return err
	}
	if m.Content == "" {
		return errors.Wrapf(errors.ErrValidation, "memory content must not be empty")
	}
	if m.Type == "" {
		return errors.Wrapf(errors.ErrValidation, "memory type must not be empty")
	}
	return nil
}

func (r *Record) Validate() error {
	if err := r.BaseMemory.Validate(); err != nil {
		return err
	}
	if r.UserID == "" {
		return errors.Wrapf(errors.ErrValidation, "memory user_id must not be empty")
	}
	if r.Source == "" {
		return errors.Wrapf(errors.ErrValidation, "memory source must not be empty")
	}
	return nil
}

// NewRecord attributes base to a user and provenance source, producing a
// record ready for persistence.
func NewRecord(userID, source string, base BaseMemory) *Record {
	return &Record{
		BaseMemory: base,
		ID:         uuid.NewString(),
		UserID:     userID,
		Source:     source,
		CreatedAt:  time.Now().UTC(),
	}
}

// Sentence renders the record as a grounding sentence for prompt injection.
func (r *Record) Sentence() string {
	if r.Category != CategoryOther {
		return fmt.Sprintf("[CATEGORY: %s] The user's %s is %s", r.Category, r.Type, r.Content)
	}
	return fmt.Sprintf("The user's %s is %s", r.Type, r.Content)
}

// Metadata flattens the record's attributes for storage next to the vector.
// Content travels as the document payload, not as metadata.
func (r *Record) Metadata() map[string]any {
	return map[string]any{
		"id":         r.ID,
		"user_id":    r.UserID,
		"level":      string(r.Level),
		"category":   string(r.Category),
		"type":       r.Type,
		"topics":     r.Topics,
		"source":     r.Source,
		"created_at": r.CreatedAt.Format(time.RFC3339),
	}
}

// RecordFromMetadata rebuilds a record from a stored document and its
// metadata map.
func RecordFromMetadata(content string, metadata map[string]any) (*Record, error) {
	var record Record
	if err := mapstructure.Decode(metadata, &record); err != nil {
		return nil, errors.Wrapf(errors.ErrStorage, "failed to decode memory metadata: %v", err)
	}
	record.Content = content

	if createdAt, ok := metadata["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			record.CreatedAt = t
		}
	}

	return &record, nil
}
