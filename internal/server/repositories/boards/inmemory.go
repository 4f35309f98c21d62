package boards

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/common"
)

// InMemoryRepository is a map-backed Repository used in tests and when no
// DSN is configured.
type InMemoryRepository struct {
	mu   sync.RWMutex
	docs map[string]*board.Document
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{docs: make(map[string]*board.Document)}
}

func (r *InMemoryRepository) Get(ctx context.Context, boardID string) (*board.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[boardID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return doc.Clone(), nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, boardID string, doc *board.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[boardID] = doc.Clone()
	return nil
}
