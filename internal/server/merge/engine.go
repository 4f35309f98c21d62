// Package merge applies structural deltas to a board's persisted document.
// It is the only writer of board rows during a live session; transient
// deltas never reach it.
package merge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/common"
	"github.com/dmitrijs2005/drawboard/internal/logging"
	"github.com/dmitrijs2005/drawboard/internal/server/repositories/boards"
)

// tombstoneLimit bounds the per-board set of remembered removals.
const tombstoneLimit = 512

// tombstones remembers recently removed object ids so a stale modify that
// arrives after a remove cannot resurrect the object through the
// append-on-no-match fallback.
type tombstones struct {
	set   map[string]struct{}
	order []string
}

func newTombstones() *tombstones {
	return &tombstones{set: make(map[string]struct{})}
}

func (t *tombstones) add(id string) {
	if _, ok := t.set[id]; ok {
		return
	}
	t.set[id] = struct{}{}
	t.order = append(t.order, id)
	if len(t.order) > tombstoneLimit {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.set, oldest)
	}
}

func (t *tombstones) remove(id string) {
	delete(t.set, id)
}

func (t *tombstones) contains(id string) bool {
	_, ok := t.set[id]
	return ok
}

// Engine merges deltas into persisted documents. Apply loads the current
// document, mutates it, and upserts it back; concurrent writers race under
// row-level last-write-wins, which is acceptable because add/remove are
// order-independent and modify is idempotent under repeated merges.
type Engine struct {
	repo   boards.Repository
	logger logging.Logger

	mu    sync.Mutex
	tombs map[string]*tombstones
}

func NewEngine(repo boards.Repository, logger logging.Logger) *Engine {
	return &Engine{
		repo:   repo,
		logger: logger.With("module", "merge"),
		tombs:  make(map[string]*tombstones),
	}
}

func (e *Engine) boardTombstones(boardID string) *tombstones {
	t, ok := e.tombs[boardID]
	if !ok {
		t = newTombstones()
		e.tombs[boardID] = t
	}
	return t
}

// Apply merges one persistent delta into the board document and stores the
// result. Transient and unknown actions are rejected; filtering them out is
// the broadcaster's job, so reaching here with one is a programming error
// worth surfacing.
func (e *Engine) Apply(ctx context.Context, boardID string, d board.Delta) error {
	if !d.Action.Known() {
		return fmt.Errorf("%w: %q", common.ErrUnknownAction, d.Action)
	}
	if !d.Action.Persistent() {
		return fmt.Errorf("%w: %q", common.ErrTransientDelta, d.Action)
	}

	doc, err := e.repo.Get(ctx, boardID)
	if err != nil {
		// Absent rows start from an empty document; the board row is
		// created implicitly on the first successful save.
		doc = board.NewDocument()
	}

	e.mu.Lock()
	tombs := e.boardTombstones(boardID)

	switch d.Action {
	case board.ActionAdd:
		if doc.IndexOf(d.Object.ID()) < 0 {
			doc.Objects = append(doc.Objects, d.Object.Clone())
		}
		tombs.remove(d.Object.ID())

	case board.ActionModify:
		id := d.Object.ID()
		if idx := doc.IndexOf(id); idx >= 0 {
			doc.Objects[idx].Merge(d.Object)
		} else if tombs.contains(id) {
			// A remove already won; dropping the stale modify keeps the
			// object dead instead of resurrecting it as a partial shape.
			e.mu.Unlock()
			e.logger.Debug(ctx, "dropping modify for removed object", "board", boardID, "object", id)
			return nil
		} else {
			// Out-of-order delivery: the add has not landed yet. Keep the
			// partial so the board converges once the add arrives.
			doc.Objects = append(doc.Objects, d.Object.Clone())
		}

	case board.ActionRemove:
		if idx := doc.IndexOf(d.ObjectID); idx >= 0 {
			doc.Objects = append(doc.Objects[:idx], doc.Objects[idx+1:]...)
		}
		tombs.add(d.ObjectID)

	case board.ActionRefresh:
		// Wholesale replacement, used by undo/redo re-sync and explicit
		// clears. The new document is authoritative, so prior removals no
		// longer matter.
		prev := doc
		if d.Document != nil {
			doc = d.Document.Clone()
		} else {
			doc = board.NewDocument()
		}
		// Clients routinely emit objects-only snapshots; share settings
		// outlive those. Only a refresh that carries its own metadata may
		// change them.
		if doc.Meta == (board.Meta{}) && doc.OwnerID == "" {
			doc.Meta = prev.Meta
			doc.OwnerID = prev.OwnerID
		}
		e.tombs[boardID] = newTombstones()
	}
	e.mu.Unlock()

	return e.upsert(ctx, boardID, doc)
}

// upsert writes the document with a short exponential backoff; a transiently
// unavailable store should not lose a small delta.
func (e *Engine) upsert(ctx context.Context, boardID string, doc *board.Document) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := e.repo.Upsert(ctx, boardID, doc); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persisting board %s: %w", boardID, err)
	}
	return nil
}
