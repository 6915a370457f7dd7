package store

import (
	"context"
	"log/slog"

	"github.com/habiliai/caremem/embedding"
	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/memory"
)

type (
	// Filter narrows a vector search to a subset of records. A zero Filter
	// matches everything.
	Filter struct {
		UserID string
	}

	// Hit is a raw backend match: the stored document plus its flattened
	// metadata and a similarity score in [0, 1].
	Hit struct {
		ID       string
		Content  string
		Metadata map[string]any
		Score    float32
	}

	// Backend is the low-level vector storage a Collection runs on. Backends
	// deal in opaque documents and metadata; they never see memory semantics.
	Backend interface {
		// EnsureCollection creates the named collection if it does not exist.
		// Calling it again with the same name is a no-op.
		EnsureCollection(ctx context.Context, name string, dimension int) error

		// Insert stores a document and its embedding under the collection.
		Insert(ctx context.Context, collection, id, content string, vector []float32, metadata map[string]any) error

		// Query returns up to limit hits ordered by descending score.
		Query(ctx context.Context, collection string, vector []float32, limit int, filter Filter) ([]Hit, error)

		// Delete removes a document. Deleting an unknown id is a no-op.
		Delete(ctx context.Context, collection, id string) error

		Close() error
	}

	// SearchResult is a recalled memory with its similarity score.
	SearchResult struct {
		Record *memory.Record
		Score  float32
	}

	// Collection binds a backend collection to the embedder that produced its
	// vectors. All documents in one collection share a single embedding space.
	Collection struct {
		name     string
		backend  Backend
		embedder embedding.Embedder
		logger   *slog.Logger
	}
)

// Open returns a Collection handle, creating the underlying collection on
// first use. Opening the same name twice yields handles over the same data.
func Open(ctx context.Context, backend Backend, embedder embedding.Embedder, name string, logger *slog.Logger) (*Collection, error) {
	if backend == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "store backend is required")
	}
	if embedder == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "embedder is required")
	}
	if name == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "collection name must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := backend.EnsureCollection(ctx, name, embedder.Dimensions()); err != nil {
		return nil, err
	}

	return &Collection{
		name:     name,
		backend:  backend,
		embedder: embedder,
		logger:   logger,
	}, nil
}

func (c *Collection) Name() string {
	return c.name
}

// Add embeds the record's content and persists it, returning the record id.
// The record must already be valid; Add never stores a partial memory.
func (c *Collection) Add(ctx context.Context, record *memory.Record) (string, error) {
	if record == nil {
		return "", errors.Wrapf(errors.ErrValidation, "record must not be nil")
	}
	if err := record.Validate(); err != nil {
		return "", err
	}
	if record.ID == "" {
		return "", errors.Wrapf(errors.ErrValidation, "record id must not be empty")
	}

	vectors, err := c.embedder.Embed(ctx, embedding.TaskTypeDocument, record.Content)
	if err != nil {
		return "", err
	}
	if len(vectors) == 0 {
		return "", errors.Wrapf(errors.ErrService, "embedder returned no vector for memory content")
	}
	record.Embedding = vectors[0]

	if err := c.backend.Insert(ctx, c.name, record.ID, record.Content, record.Embedding, record.Metadata()); err != nil {
		return "", err
	}

	c.logger.Debug("memory stored",
		"collection", c.name,
		"id", record.ID,
		"user_id", record.UserID,
		"category", record.Category,
	)

	return record.ID, nil
}

// Search embeds the query text and returns matching memories ordered by
// descending similarity. An empty result is not an error.
func (c *Collection) Search(ctx context.Context, query string, limit int, filter Filter) ([]SearchResult, error) {
	if query == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "query must not be empty")
	}
	if limit <= 0 {
		limit = 10
	}

	vectors, err := c.embedder.Embed(ctx, embedding.TaskTypeQuery, query)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.Wrapf(errors.ErrService, "embedder returned no vector for query")
	}

	hits, err := c.backend.Query(ctx, c.name, vectors[0], limit, filter)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		record, err := memory.RecordFromMetadata(hit.Content, hit.Metadata)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{
			Record: record,
			Score:  hit.Score,
		})
	}

	return results, nil
}

// Delete removes a stored memory by id.
func (c *Collection) Delete(ctx context.Context, id string) error {
	return c.backend.Delete(ctx, c.name, id)
}
