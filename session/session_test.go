package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/memory"
	"github.com/habiliai/caremem/session"
)

func newSTM(userID, content string) *memory.Record {
	return memory.NewRecord(userID, memory.SourceConversation, memory.BaseMemory{
		Content:  content,
		Level:    memory.LevelShortTerm,
		Category: memory.CategoryCareGiving,
		Type:     "current situation",
	})
}

func TestInMemoryStore_AppendAndList(t *testing.T) {
	ctx := t.Context()
	store := session.NewInMemoryStore()

	first := newSTM("user-1", "feeling overwhelmed today")
	second := newSTM("user-1", "dad had a rough night")

	require.NoError(t, store.Append(ctx, "conv-1", first))
	require.NoError(t, store.Append(ctx, "conv-1", second))
	require.NoError(t, store.Append(ctx, "conv-2", newSTM("user-2", "unrelated")))

	records, err := store.List(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)

	records, err = store.List(ctx, "conv-unknown")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestInMemoryStore_RejectsLongTerm(t *testing.T) {
	ctx := t.Context()
	store := session.NewInMemoryStore()

	record := newSTM("user-1", "user's dad has Alzheimer's disease")
	record.Level = memory.LevelLongTerm

	err := store.Append(ctx, "conv-1", record)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrValidation)

	assert.ErrorIs(t, store.Append(ctx, "", newSTM("user-1", "x")), errors.ErrValidation)
	assert.ErrorIs(t, store.Append(ctx, "conv-1", nil), errors.ErrValidation)
}

func TestInMemoryStore_Clear(t *testing.T) {
	ctx := t.Context()
	store := session.NewInMemoryStore()

	require.NoError(t, store.Append(ctx, "conv-1", newSTM("user-1", "feeling overwhelmed")))
	require.NoError(t, store.Clear(ctx, "conv-1"))

	records, err := store.List(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}
