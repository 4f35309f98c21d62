package boards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/common"
	"github.com/dmitrijs2005/drawboard/internal/dbx"
)

// PostgresRepository stores board documents as JSONB rows.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, boardID string) (*board.Document, error) {
	query := `SELECT data FROM boards WHERE id = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, boardID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	// Malformed rows decode to an empty document rather than failing the load.
	return board.DecodeDocument(data), nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, boardID string, doc *board.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	query := `INSERT INTO boards (id, data, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, boardID, data); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}
