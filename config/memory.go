package config

type MemoryConfig struct {
	// DecisionModel is the model used to decide whether an utterance is worth
	// remembering at all.
	DecisionModel string `yaml:"decisionModel"`

	// ExtractionModel is the model used to summarize an utterance into a
	// structured memory record.
	ExtractionModel string `yaml:"extractionModel"`

	// CollectionName is the vector collection long-term memories are stored in.
	CollectionName string `yaml:"collectionName"`

	// ScoreThreshold is the minimum similarity score [0.0-1.0] a stored memory
	// must reach to be recalled. 0 recalls every memory of the user.
	ScoreThreshold float32 `yaml:"scoreThreshold"`

	// RecallTopK caps how many candidates the vector search returns before
	// the recall filter is applied.
	RecallTopK int `yaml:"recallTopK"`

	// CategoryPriority breaks ties when an utterance plausibly spans more than
	// one category. Earlier entries win. Defaults to the care-domain order.
	CategoryPriority []string `yaml:"categoryPriority,omitempty"`
}

func NewMemoryConfig() *MemoryConfig {
	return &MemoryConfig{
		DecisionModel:   "gpt-4o-mini",
		ExtractionModel: "gpt-4o-mini",
		CollectionName:  "ltm_memory",
		ScoreThreshold:  0.6,
		RecallTopK:      10,
	}
}
