// Package session holds short-term memories. STM records live with a single
// conversation and are never embedded or vector-indexed; they disappear when
// the conversation does.
package session

import (
	"context"
	"sync"

	"github.com/habiliai/caremem/errors"
	"github.com/habiliai/caremem/memory"
)

type (
	// Store keeps short-term memories keyed by conversation.
	Store interface {
		// Append adds a short-term memory to the conversation's bank.
		Append(ctx context.Context, conversationID string, record *memory.Record) error

		// List returns the conversation's short-term memories in insertion
		// order.
		List(ctx context.Context, conversationID string) ([]*memory.Record, error)

		// Clear drops every short-term memory of the conversation.
		Clear(ctx context.Context, conversationID string) error
	}

	// InMemoryStore is the default Store, scoped to the process lifetime.
	InMemoryStore struct {
		mu    sync.RWMutex
		banks map[string][]*memory.Record
	}
)

var (
	_ Store = (*InMemoryStore)(nil)
)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		banks: make(map[string][]*memory.Record),
	}
}

func (s *InMemoryStore) Append(_ context.Context, conversationID string, record *memory.Record) error {
	if conversationID == "" {
		return errors.Wrapf(errors.ErrValidation, "conversation id must not be empty")
	}
	if record == nil {
		return errors.Wrapf(errors.ErrValidation, "record must not be nil")
	}
	if record.Level != memory.LevelShortTerm {
		return errors.Wrapf(errors.ErrValidation, "session store only accepts STM records, got %q", string(record.Level))
	}
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.banks[conversationID] = append(s.banks[conversationID], record)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, conversationID string) ([]*memory.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bank := s.banks[conversationID]
	out := make([]*memory.Record, len(bank))
	copy(out, bank)
	return out, nil
}

func (s *InMemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.banks, conversationID)
	return nil
}
