// Package repomanager wires concrete repositories to a storage backend and
// runs schema migrations.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/drawboard/internal/server/repositories/boards"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Boards() boards.Repository
	Close() error
}
