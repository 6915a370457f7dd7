package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/memory"
	"github.com/habiliai/caremem/store"
)

func newSqliteBackend(t *testing.T) *store.SqliteBackend {
	t.Helper()

	backend, err := store.NewSqliteBackend(filepath.Join(t.TempDir(), "caremem_test.db"), 3)
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	return backend
}

func TestSqliteBackend_RoundTrip(t *testing.T) {
	ctx := t.Context()
	collection, err := store.Open(ctx, newSqliteBackend(t), newFakeEmbedder(), "ltm_memory", nil)
	require.NoError(t, err)

	exact := newRecord("user-1", "user's dad has Alzheimer's disease", memory.CategoryADRDInfo)
	far := newRecord("user-1", "user enjoys gardening", memory.CategoryTopicsOfInterest)

	for _, record := range []*memory.Record{exact, far} {
		id, err := collection.Add(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, record.ID, id)
	}

	results, err := collection.Search(ctx, "user's dad", 10, store.Filter{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Exact match comes first with full similarity; the unrelated record
	// trails it.
	assert.Equal(t, exact.ID, results[0].Record.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-4)
	assert.Greater(t, results[0].Score, results[1].Score)

	// Records survive the metadata round trip through the JSON column.
	assert.Equal(t, memory.CategoryADRDInfo, results[0].Record.Category)
	assert.Equal(t, "user-1", results[0].Record.UserID)
	assert.Equal(t, "user's dad has Alzheimer's disease", results[0].Record.Content)
	assert.Equal(t, memory.SourceConversation, results[0].Record.Source)
}

func TestSqliteBackend_UserFilterAndRecall(t *testing.T) {
	ctx := t.Context()
	collection, err := store.Open(ctx, newSqliteBackend(t), newFakeEmbedder(), "ltm_memory", nil)
	require.NoError(t, err)

	mine := newRecord("user-1", "user's dad has Alzheimer's disease", memory.CategoryADRDInfo)
	other := newRecord("user-2", "user's dad forgets names sometimes", memory.CategoryADRDInfo)

	_, err = collection.Add(ctx, mine)
	require.NoError(t, err)
	_, err = collection.Add(ctx, other)
	require.NoError(t, err)

	results, err := store.Recall(ctx, collection, "user's dad", "user-1", store.RecallOptions{Threshold: 0.6})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, mine.ID, results[0].Record.ID)

	results, err = store.Recall(ctx, collection, "user's dad", "user-3", store.RecallOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSqliteBackend_Delete(t *testing.T) {
	ctx := t.Context()
	collection, err := store.Open(ctx, newSqliteBackend(t), newFakeEmbedder(), "ltm_memory", nil)
	require.NoError(t, err)

	record := newRecord("user-1", "user's dad", memory.CategoryBioInfo)
	_, err = collection.Add(ctx, record)
	require.NoError(t, err)

	require.NoError(t, collection.Delete(ctx, record.ID))

	results, err := collection.Search(ctx, "user's dad", 10, store.Filter{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSqliteBackend_DimensionMismatch(t *testing.T) {
	ctx := t.Context()
	backend := newSqliteBackend(t)

	err := backend.EnsureCollection(ctx, "ltm_memory", 768)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStorage)

	err = backend.Insert(ctx, "ltm_memory", "id-1", "content", []float32{1, 0}, nil)
	assert.ErrorIs(t, err, errors.ErrStorage)
}
