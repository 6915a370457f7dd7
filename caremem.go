package caremem

import (
	"context"
	"log/slog"

	"github.com/habiliai/caremem/config"
	"github.com/habiliai/caremem/embedding"
	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/internal/mylog"
	"github.com/habiliai/caremem/llm"
	"github.com/habiliai/caremem/memory"
	"github.com/habiliai/caremem/session"
	"github.com/habiliai/caremem/store"
)

type (
	// CareMemory is the conversational memory layer: it decides what to
	// remember, extracts structured memories from utterances, persists
	// long-term ones in a vector collection and recalls them per user.
	CareMemory struct {
		logger        *slog.Logger
		llmClient     llm.Client
		embedder      embedding.Embedder
		backend       store.Backend
		collection    *store.Collection
		sessions      session.Store
		memoryService memory.Service

		modelConfig  *config.ModelConfig
		memoryConfig *config.MemoryConfig
		storeConfig  *config.StoreConfig
		logConfig    *config.LogConfig
	}
	Option func(*CareMemory)
)

func NewCareMemory(ctx context.Context, optionFuncs ...Option) (*CareMemory, error) {
	m := &CareMemory{
		modelConfig:  config.NewModelConfig(),
		memoryConfig: config.NewMemoryConfig(),
		storeConfig:  config.NewStoreConfig(),
		logConfig:    config.NewLogConfig(),
	}
	for _, f := range optionFuncs {
		f(m)
	}

	if m.logger == nil {
		m.logger = mylog.NewLogger(m.logConfig.LogLevel, m.logConfig.LogHandler)
	}

	if m.llmClient == nil {
		switch {
		case m.modelConfig.OpenAIAPIKey != "":
			m.llmClient = llm.NewOpenAIClient(m.modelConfig.OpenAIAPIKey)
		case m.modelConfig.AnthropicAPIKey != "":
			m.llmClient = llm.NewAnthropicClient(m.modelConfig.AnthropicAPIKey)
		default:
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "no llm client configured and no api key available")
		}
	}

	if m.embedder == nil {
		switch {
		case m.modelConfig.NomicAPIKey != "":
			m.embedder = embedding.NewNomicEmbedder(m.modelConfig.NomicAPIKey)
		case m.modelConfig.OpenAIAPIKey != "":
			m.embedder = embedding.NewOpenAIEmbedder(m.modelConfig.OpenAIAPIKey)
		default:
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "no embedder configured and no api key available")
		}
	}

	// Vector tables are created at the embedder's dimension; a mismatched
	// dimension in config would make every insert fail.
	m.storeConfig.Dimension = m.embedder.Dimensions()

	if m.backend == nil {
		if m.storeConfig.SqliteEnabled {
			backend, err := store.NewSqliteBackend(m.storeConfig.SqlitePath, m.storeConfig.Dimension)
			if err != nil {
				return nil, err
			}
			m.backend = backend
		} else {
			m.backend = store.NewInMemoryBackend()
		}
	}

	if m.sessions == nil {
		m.sessions = session.NewInMemoryStore()
	}

	if m.memoryService == nil {
		service, err := memory.NewService(m.llmClient, m.memoryConfig, m.logger)
		if err != nil {
			return nil, err
		}
		m.memoryService = service
	}

	collection, err := store.Open(ctx, m.backend, m.embedder, m.memoryConfig.CollectionName, m.logger)
	if err != nil {
		return nil, err
	}
	m.collection = collection

	return m, nil
}

func (m *CareMemory) MemoryService() memory.Service {
	return m.memoryService
}

func (m *CareMemory) Collection() *store.Collection {
	return m.collection
}

func (m *CareMemory) Close() error {
	return m.backend.Close()
}

// Process runs the full pipeline for one utterance: decide, extract,
// attribute, persist. A long-term memory goes to the vector collection; a
// short-term one stays in the conversation's session bank. A nil record with
// a nil error means the utterance was not worth remembering.
func (m *CareMemory) Process(ctx context.Context, userID, conversationID, source, utterance string) (*memory.Record, error) {
	if userID == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "user id must not be empty")
	}

	remember, err := m.memoryService.ShouldRemember(ctx, utterance)
	if err != nil {
		return nil, err
	}
	if !remember {
		m.logger.Debug("utterance not worth remembering", "user_id", userID)
		return nil, nil
	}

	base, err := m.memoryService.Extract(ctx, utterance)
	if err != nil {
		return nil, err
	}

	record := memory.NewRecord(userID, source, *base)

	switch record.Level {
	case memory.LevelLongTerm:
		if err := m.supersedeContradicted(ctx, record); err != nil {
			return nil, err
		}
		if _, err := m.collection.Add(ctx, record); err != nil {
			return nil, err
		}
	case memory.LevelShortTerm:
		if conversationID == "" {
			return nil, errors.Wrapf(errors.ErrValidation, "conversation id is required for short-term memories")
		}
		if err := m.sessions.Append(ctx, conversationID, record); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// supersedeContradicted removes stored memories the new record contradicts,
// so a fact that changed does not keep resurfacing in both versions.
func (m *CareMemory) supersedeContradicted(ctx context.Context, record *memory.Record) error {
	existing, err := store.Recall(ctx, m.collection, record.Content, record.UserID, store.RecallOptions{
		Threshold: m.memoryConfig.ScoreThreshold,
		TopK:      m.memoryConfig.RecallTopK,
	})
	if err != nil {
		return err
	}

	for _, candidate := range existing {
		contradicts, err := m.memoryService.Contradicts(ctx, candidate.Record.Sentence(), record.Sentence())
		if err != nil {
			return err
		}
		if !contradicts {
			continue
		}
		m.logger.Info("superseding contradicted memory",
			"user_id", record.UserID,
			"old_id", candidate.Record.ID,
			"new_id", record.ID,
		)
		if err := m.collection.Delete(ctx, candidate.Record.ID); err != nil {
			return err
		}
	}

	return nil
}

// Recall returns the user's stored long-term memories relevant to the query,
// ordered by descending similarity and cut at the configured threshold.
func (m *CareMemory) Recall(ctx context.Context, userID, query string) ([]store.SearchResult, error) {
	return store.Recall(ctx, m.collection, query, userID, store.RecallOptions{
		Threshold: m.memoryConfig.ScoreThreshold,
		TopK:      m.memoryConfig.RecallTopK,
	})
}

// SessionMemories lists the short-term memories of one conversation.
func (m *CareMemory) SessionMemories(ctx context.Context, conversationID string) ([]*memory.Record, error) {
	return m.sessions.List(ctx, conversationID)
}

// Grounding assembles a prompt-ready context block from the user's relevant
// long-term memories and the conversation's short-term ones.
func (m *CareMemory) Grounding(ctx context.Context, userID, conversationID, query string) (string, error) {
	recalled, err := m.Recall(ctx, userID, query)
	if err != nil {
		return "", err
	}

	longTerm := make([]*memory.Record, 0, len(recalled))
	for _, result := range recalled {
		longTerm = append(longTerm, result.Record)
	}

	var shortTerm []*memory.Record
	if conversationID != "" {
		shortTerm, err = m.sessions.List(ctx, conversationID)
		if err != nil {
			return "", err
		}
	}

	return memory.GroundingContext(longTerm, shortTerm)
}

// Reflect closes out a conversation: it extracts an episodic reflection and
// clears the conversation's short-term bank.
func (m *CareMemory) Reflect(ctx context.Context, userID, conversationID string, conversation []memory.Turn) (*memory.EpisodicMemory, error) {
	base, err := m.memoryService.ExtractEpisodic(ctx, conversation)
	if err != nil {
		return nil, err
	}

	episodic := memory.NewEpisodicMemory(userID, conversationID, *base)

	if err := m.sessions.Clear(ctx, conversationID); err != nil {
		return nil, err
	}

	return episodic, nil
}

func WithOpenAIAPIKey(apiKey string) Option {
	return func(m *CareMemory) {
		m.modelConfig.OpenAIAPIKey = apiKey
	}
}

func WithAnthropicAPIKey(apiKey string) Option {
	return func(m *CareMemory) {
		m.modelConfig.AnthropicAPIKey = apiKey
	}
}

func WithNomicAPIKey(apiKey string) Option {
	return func(m *CareMemory) {
		m.modelConfig.NomicAPIKey = apiKey
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *CareMemory) {
		m.logger = logger
	}
}

func WithLogConfig(logConfig *config.LogConfig) Option {
	return func(m *CareMemory) {
		m.logConfig = logConfig
	}
}

func WithMemoryConfig(memoryConfig *config.MemoryConfig) Option {
	return func(m *CareMemory) {
		m.memoryConfig = memoryConfig
	}
}

func WithStoreConfig(storeConfig *config.StoreConfig) Option {
	return func(m *CareMemory) {
		m.storeConfig = storeConfig
	}
}

func WithProfile(profile *config.Profile) Option {
	return func(m *CareMemory) {
		m.modelConfig = &profile.Model
		m.memoryConfig = &profile.Memory
		m.storeConfig = &profile.Store
		m.logConfig = &profile.Log
	}
}

func WithLLMClient(client llm.Client) Option {
	return func(m *CareMemory) {
		m.llmClient = client
	}
}

func WithEmbedder(embedder embedding.Embedder) Option {
	return func(m *CareMemory) {
		m.embedder = embedder
	}
}

func WithBackend(backend store.Backend) Option {
	return func(m *CareMemory) {
		m.backend = backend
	}
}

func WithSessionStore(sessions session.Store) Option {
	return func(m *CareMemory) {
		m.sessions = sessions
	}
}

func WithMemoryService(service memory.Service) Option {
	return func(m *CareMemory) {
		m.memoryService = service
	}
}
