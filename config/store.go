package config

type StoreConfig struct {
	// SqliteEnabled controls whether the SQLite vector backend is used.
	// When false, collections live in process memory only.
	SqliteEnabled bool `yaml:"sqliteEnabled,omitempty"`

	// SqlitePath specifies the file path for the SQLite database.
	// ":memory:" keeps everything in-process.
	SqlitePath string `yaml:"sqlitePath,omitempty"`

	// Dimension is the embedding dimension the vector tables are created
	// with. It must match the embedder bound to the collection; the metric
	// (cosine) is fixed per collection so thresholds stay comparable
	// between writes and reads.
	Dimension int `yaml:"dimension,omitempty"`
}

func NewStoreConfig() *StoreConfig {
	return &StoreConfig{
		SqliteEnabled: false,
		SqlitePath:    ":memory:",
		Dimension:     768,
	}
}
