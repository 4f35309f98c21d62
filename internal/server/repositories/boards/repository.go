// Package boards stores persisted board documents. It exposes the two
// primitives the merge engine depends on: load a document by id and upsert
// it wholesale. Row-level last-write-wins between concurrent writers is
// accepted; deltas are small and merged before the write.
package boards

import (
	"context"

	"github.com/dmitrijs2005/drawboard/internal/board"
)

type Repository interface {
	// Get returns the stored document or common.ErrNotFound.
	Get(ctx context.Context, boardID string) (*board.Document, error)

	// Upsert stores the document, creating the board row on first save.
	Upsert(ctx context.Context, boardID string, doc *board.Document) error
}
