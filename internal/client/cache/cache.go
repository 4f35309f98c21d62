// Package cache keeps local copies of boards in a SQLite file, so a
// board can be reopened or exported while offline.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/client/migrations"
	"github.com/dmitrijs2005/drawboard/internal/common"
	"github.com/dmitrijs2005/drawboard/internal/dbx"
)

// Cache is a SQLite-backed board store. Queries go through a DBTX so the
// cache works inside a transaction as well as over a plain connection.
type Cache struct {
	db  dbx.DBTX
	raw *sql.DB
}

// New returns a cache bound to an already-migrated DBTX.
func New(db dbx.DBTX) *Cache {
	return &Cache{db: db}
}

// Open opens (or creates) the cache at dsn and applies pending
// migrations.
func Open(ctx context.Context, dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache: %w", err)
	}
	return &Cache{db: db, raw: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database when the cache owns it.
func (c *Cache) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// Save upserts a board snapshot under its id.
func (c *Cache) Save(ctx context.Context, boardID string, doc *board.Document) error {
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encoding board %s: %w", boardID, err)
	}
	query := `INSERT INTO boards (id, data, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`
	if _, err := c.db.ExecContext(ctx, query, boardID, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving board %s: %w", boardID, err)
	}
	return nil
}

// Load returns the cached snapshot of a board.
func (c *Cache) Load(ctx context.Context, boardID string) (*board.Document, error) {
	var data []byte
	row := c.db.QueryRowContext(ctx, `SELECT data FROM boards WHERE id = ?`, boardID)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("loading board %s: %w", boardID, err)
	}
	return board.DecodeDocument(data), nil
}

// Delete drops a cached board, reporting whether it was present.
func (c *Cache) Delete(ctx context.Context, boardID string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, boardID)
	if err != nil {
		return false, fmt.Errorf("deleting board %s: %w", boardID, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return ra > 0, nil
}

// List returns the ids of every cached board, most recently saved first.
func (c *Cache) List(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id FROM boards ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
