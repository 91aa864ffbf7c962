package store

import (
	"context"
	"slices"
	"sync"

	"github.com/boardkit/boardkit/pkg/board"
)

// MemoryStore is an in-memory board store for development and testing.
// Boards are deep-copied on the way in and out, so callers can keep
// mutating their own values without aliasing stored state.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string]*board.Board
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string]*board.Board)}
}

// Get retrieves a board by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*board.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boards[id]
	if !ok {
		return nil, notFound(id)
	}
	return copyBoard(b), nil
}

// Put stores a board under the given ID.
func (s *MemoryStore) Put(ctx context.Context, id string, b *board.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.boards[id] = copyBoard(b)
	return nil
}

// Delete removes a board.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[id]; !ok {
		return notFound(id)
	}
	delete(s.boards, id)
	return nil
}

// List returns the IDs of all stored boards, sorted for determinism.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.boards))
	for id := range s.boards {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func copyBoard(b *board.Board) *board.Board {
	if b == nil {
		return nil
	}
	out := &board.Board{Layers: make([]board.Layer, len(b.Layers))}
	copy(out.Layers, b.Layers)
	for i, l := range out.Layers {
		if l.Frame != nil {
			f := *l.Frame
			f.Children = slices.Clone(l.Frame.Children)
			out.Layers[i].Frame = &f
		}
		if l.Arrow != nil {
			a := *l.Arrow
			out.Layers[i].Arrow = &a
		}
		out.Layers[i].Points = slices.Clone(l.Points)
	}
	return out
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
