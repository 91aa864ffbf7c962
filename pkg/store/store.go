// Package store persists boards.
//
// Two backends exist: an in-memory store for development and tests, and a
// MongoDB store for the API server. Both implement the same interface, so
// the server wires whichever the configuration asks for.
package store

import (
	"context"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/errors"
)

// Store is the interface for board persistence backends.
type Store interface {
	// Get retrieves a board by ID. Returns ErrCodeBoardNotFound when the
	// board does not exist.
	Get(ctx context.Context, id string) (*board.Board, error)

	// Put stores a board under the given ID, replacing any existing one.
	Put(ctx context.Context, id string, b *board.Board) error

	// Delete removes a board. Returns ErrCodeBoardNotFound when the board
	// does not exist.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored boards.
	List(ctx context.Context) ([]string, error)

	// Close releases any resources held by the backend.
	Close(ctx context.Context) error
}

// notFound builds the standard missing-board error.
func notFound(id string) error {
	return errors.New(errors.ErrCodeBoardNotFound, "board %q does not exist", id)
}
