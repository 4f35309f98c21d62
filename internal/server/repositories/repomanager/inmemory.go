package repomanager

import (
	"context"

	"github.com/dmitrijs2005/drawboard/internal/server/repositories/boards"
)

// InMemoryRepositoryManager backs the server with map-based repositories.
// Used by tests and by deployments that run without a database.
type InMemoryRepositoryManager struct {
	boards boards.Repository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{boards: boards.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Boards() boards.Repository {
	return m.boards
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}
