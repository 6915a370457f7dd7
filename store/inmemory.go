package store

import (
	"context"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/habiliai/caremem/errors"
)

type (
	inMemoryDoc struct {
		id       string
		content  string
		vector   []float32
		metadata map[string]any
	}

	inMemoryCollection struct {
		dimension int
		docs      map[string]*inMemoryDoc
	}

	// InMemoryBackend keeps every collection in process memory. It is the
	// default backend and the one the tests run against.
	InMemoryBackend struct {
		mu          sync.RWMutex
		collections map[string]*inMemoryCollection
	}
)

var (
	_ Backend = (*InMemoryBackend)(nil)
)

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		collections: make(map[string]*inMemoryCollection),
	}
}

func (b *InMemoryBackend) EnsureCollection(_ context.Context, name string, dimension int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if existing, ok := b.collections[name]; ok {
		if existing.dimension != dimension {
			return errors.Wrapf(errors.ErrStorage,
				"collection %q already exists with dimension %d, requested %d",
				name, existing.dimension, dimension)
		}
		return nil
	}

	b.collections[name] = &inMemoryCollection{
		dimension: dimension,
		docs:      make(map[string]*inMemoryDoc),
	}
	return nil
}

func (b *InMemoryBackend) Insert(_ context.Context, collection, id, content string, vector []float32, metadata map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	coll, ok := b.collections[collection]
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "collection %q not found", collection)
	}
	if len(vector) != coll.dimension {
		return errors.Wrapf(errors.ErrStorage,
			"embedding dimension %d does not match collection dimension %d",
			len(vector), coll.dimension)
	}

	coll.docs[id] = &inMemoryDoc{
		id:       id,
		content:  content,
		vector:   vector,
		metadata: metadata,
	}
	return nil
}

func (b *InMemoryBackend) Query(_ context.Context, collection string, vector []float32, limit int, filter Filter) ([]Hit, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	coll, ok := b.collections[collection]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "collection %q not found", collection)
	}
	if len(vector) != coll.dimension {
		return nil, errors.Wrapf(errors.ErrStorage,
			"query embedding dimension %d does not match collection dimension %d",
			len(vector), coll.dimension)
	}

	candidates := make([]*inMemoryDoc, 0, len(coll.docs))
	for _, doc := range coll.docs {
		if filter.UserID != "" {
			if userID, _ := doc.metadata["user_id"].(string); userID != filter.UserID {
				continue
			}
		}
		candidates = append(candidates, doc)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	dim := coll.dimension
	queryVec := make([]float64, dim)
	for i, v := range vector {
		queryVec[i] = float64(v)
	}

	docData := make([]float64, len(candidates)*dim)
	for i, doc := range candidates {
		for j, v := range doc.vector {
			docData[i*dim+j] = float64(v)
		}
	}

	// Inner product of normalized embeddings lands in [-1, 1]; shift it into
	// [0, 1] so scores compare against thresholds uniformly across backends.
	queryVector := mat.NewVecDense(dim, queryVec)
	docMatrix := mat.NewDense(len(candidates), dim, docData)

	var scores mat.VecDense
	scores.MulVec(docMatrix, queryVector)

	hits := make([]Hit, 0, len(candidates))
	for i, doc := range candidates {
		hits = append(hits, Hit{
			ID:       doc.id,
			Content:  doc.content,
			Metadata: doc.metadata,
			Score:    float32((scores.AtVec(i) + 1.0) * 0.5),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (b *InMemoryBackend) Delete(_ context.Context, collection, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if coll, ok := b.collections[collection]; ok {
		delete(coll.docs, id)
	}
	return nil
}

func (b *InMemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.collections = make(map[string]*inMemoryCollection)
	return nil
}
