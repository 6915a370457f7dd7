package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/memory"
	"github.com/habiliai/caremem/session"
)

func newSqliteStore(t *testing.T) *session.SqliteStore {
	t.Helper()

	store, err := session.NewSqliteStore(filepath.Join(t.TempDir(), "session_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSqliteStore_AppendAndList(t *testing.T) {
	ctx := t.Context()
	store := newSqliteStore(t)

	first := newSTM("user-1", "feeling overwhelmed today")
	second := newSTM("user-1", "dad had a rough night")

	require.NoError(t, store.Append(ctx, "conv-1", first))
	require.NoError(t, store.Append(ctx, "conv-1", second))
	require.NoError(t, store.Append(ctx, "conv-2", newSTM("user-2", "unrelated")))

	records, err := store.List(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, first.Content, records[0].Content)
	assert.Equal(t, memory.LevelShortTerm, records[0].Level)
	assert.Equal(t, second.ID, records[1].ID)
}

func TestSqliteStore_RejectsLongTerm(t *testing.T) {
	ctx := t.Context()
	store := newSqliteStore(t)

	record := newSTM("user-1", "user's dad has Alzheimer's disease")
	record.Level = memory.LevelLongTerm

	err := store.Append(ctx, "conv-1", record)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestSqliteStore_Clear(t *testing.T) {
	ctx := t.Context()
	store := newSqliteStore(t)

	require.NoError(t, store.Append(ctx, "conv-1", newSTM("user-1", "feeling overwhelmed")))
	require.NoError(t, store.Clear(ctx, "conv-1"))

	records, err := store.List(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}
