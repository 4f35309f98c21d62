package merge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/common"
	"github.com/dmitrijs2005/drawboard/internal/logging"
	"github.com/dmitrijs2005/drawboard/internal/server/repositories/boards"
)

func newTestEngine(t *testing.T) (*Engine, boards.Repository) {
	t.Helper()
	repo := boards.NewInMemoryRepository()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewEngine(repo, logger), repo
}

func mustGet(t *testing.T, repo boards.Repository, boardID string) *board.Document {
	t.Helper()
	doc, err := repo.Get(context.Background(), boardID)
	require.NoError(t, err)
	return doc
}

func TestApply_AddIsIdempotent(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	d := board.Add(board.Object{"id": "a", "kind": "rect"})
	require.NoError(t, e.Apply(ctx, "b1", d))
	require.NoError(t, e.Apply(ctx, "b1", d))

	doc := mustGet(t, repo, "b1")
	assert.Len(t, doc.Objects, 1)
}

func TestApply_ModifyMergesFields(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Apply(ctx, "b1", board.Add(board.Object{"id": "a", "left": 1.0, "fill": "#fff"})))
	require.NoError(t, e.Apply(ctx, "b1", board.Modify(board.Object{"id": "a", "left": 5.0})))

	doc := mustGet(t, repo, "b1")
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, 5.0, doc.Objects[0]["left"])
	assert.Equal(t, "#fff", doc.Objects[0]["fill"], "untouched fields survive the merge")
}

func TestApply_ModifyWithoutMatchAppends(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	// The add has not arrived yet; the partial is kept so the board
	// converges when it does.
	require.NoError(t, e.Apply(ctx, "b1", board.Modify(board.Object{"id": "a", "left": 5.0})))

	doc := mustGet(t, repo, "b1")
	require.Len(t, doc.Objects, 1)

	require.NoError(t, e.Apply(ctx, "b1", board.Add(board.Object{"id": "a", "left": 1.0})))
	doc = mustGet(t, repo, "b1")
	assert.Len(t, doc.Objects, 1, "late add must not duplicate the object")
}

func TestApply_StaleModifyAfterRemoveIsDropped(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Apply(ctx, "b1", board.Add(board.Object{"id": "a"})))
	require.NoError(t, e.Apply(ctx, "b1", board.Remove("a")))
	require.NoError(t, e.Apply(ctx, "b1", board.Modify(board.Object{"id": "a", "left": 5.0})))

	doc := mustGet(t, repo, "b1")
	assert.Empty(t, doc.Objects, "stale modify must not resurrect a removed object")
}

func TestApply_RemoveIsIdempotent(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Apply(ctx, "b1", board.Add(board.Object{"id": "a"})))
	require.NoError(t, e.Apply(ctx, "b1", board.Remove("a")))
	require.NoError(t, e.Apply(ctx, "b1", board.Remove("a")))
	require.NoError(t, e.Apply(ctx, "b1", board.Remove("never-existed")))

	doc := mustGet(t, repo, "b1")
	assert.Empty(t, doc.Objects)
}

func TestApply_RefreshReplacesDocument(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Apply(ctx, "b1", board.Add(board.Object{"id": "a"})))
	require.NoError(t, e.Apply(ctx, "b1", board.Remove("a")))

	next := board.NewDocument()
	next.Objects = append(next.Objects, board.Object{"id": "a"}, board.Object{"id": "b"})
	require.NoError(t, e.Apply(ctx, "b1", board.Refresh(next)))

	doc := mustGet(t, repo, "b1")
	assert.Len(t, doc.Objects, 2)

	// Refresh is authoritative: the earlier removal of "a" is forgotten.
	require.NoError(t, e.Apply(ctx, "b1", board.Modify(board.Object{"id": "a", "left": 2.0})))
	doc = mustGet(t, repo, "b1")
	assert.Equal(t, 2.0, doc.Objects[0]["left"])
}

func TestApply_RefreshKeepsShareSettings(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	seeded := board.NewDocument()
	seeded.Objects = append(seeded.Objects, board.Object{"id": "a"})
	seeded.OwnerID = "owner1"
	require.NoError(t, seeded.Meta.SetPassword("s3cret"))
	require.NoError(t, repo.Upsert(ctx, "b1", seeded))

	// An undo/redo re-sync carries objects only.
	next := board.NewDocument()
	next.Objects = append(next.Objects, board.Object{"id": "b"})
	require.NoError(t, e.Apply(ctx, "b1", board.Refresh(next)))

	doc := mustGet(t, repo, "b1")
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, "b", doc.Objects[0].ID())
	assert.Equal(t, "owner1", doc.OwnerID, "owner survives an objects-only refresh")
	assert.NotEmpty(t, doc.Meta.PasswordHash, "share password survives an objects-only refresh")
	assert.True(t, doc.Meta.CheckPassword("s3cret"))
}

func TestApply_RefreshWithMetadataReplacesIt(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	seeded := board.NewDocument()
	require.NoError(t, seeded.Meta.SetPassword("old"))
	require.NoError(t, repo.Upsert(ctx, "b1", seeded))

	next := board.NewDocument()
	require.NoError(t, next.Meta.SetPassword("new"))
	require.NoError(t, e.Apply(ctx, "b1", board.Refresh(next)))

	doc := mustGet(t, repo, "b1")
	assert.True(t, doc.Meta.CheckPassword("new"))
	assert.False(t, doc.Meta.CheckPassword("old"))
}

func TestApply_MergeCommutesWithUnrelatedObjects(t *testing.T) {
	ctx := context.Background()

	causal := []board.Delta{
		board.Add(board.Object{"id": "a", "left": 1.0}),
		board.Modify(board.Object{"id": "a", "left": 5.0}),
		board.Remove("a"),
	}
	unrelated := []board.Delta{
		board.Add(board.Object{"id": "x"}),
		board.Modify(board.Object{"id": "x", "fill": "#00f"}),
	}

	// Interleave the unrelated stream at different offsets; the end state
	// must be identical in every schedule.
	for offset := 0; offset <= len(causal); offset++ {
		e, repo := newTestEngine(t)
		for i, d := range causal {
			if i == offset {
				for _, u := range unrelated {
					require.NoError(t, e.Apply(ctx, "b1", u))
				}
			}
			require.NoError(t, e.Apply(ctx, "b1", d))
		}
		if offset == len(causal) {
			for _, u := range unrelated {
				require.NoError(t, e.Apply(ctx, "b1", u))
			}
		}

		doc := mustGet(t, repo, "b1")
		require.Len(t, doc.Objects, 1, "offset %d", offset)
		assert.Equal(t, "x", doc.Objects[0].ID())
		assert.Equal(t, "#00f", doc.Objects[0]["fill"])
	}
}

func TestApply_RejectsTransientAndUnknown(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	err := e.Apply(ctx, "b1", board.Moving(board.Object{"id": "a"}))
	assert.ErrorIs(t, err, common.ErrTransientDelta)

	err = e.Apply(ctx, "b1", board.Delta{Action: board.Action("bogus")})
	assert.ErrorIs(t, err, common.ErrUnknownAction)
}

type failingRepo struct {
	boards.Repository
	failures int
	calls    int
}

func (r *failingRepo) Upsert(ctx context.Context, boardID string, doc *board.Document) error {
	r.calls++
	if r.calls <= r.failures {
		return errors.New("store unavailable")
	}
	return r.Repository.Upsert(ctx, boardID, doc)
}

func TestApply_RetriesTransientUpsertFailure(t *testing.T) {
	inner := boards.NewInMemoryRepository()
	repo := &failingRepo{Repository: inner, failures: 2}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e := NewEngine(repo, logger)

	require.NoError(t, e.Apply(context.Background(), "b1", board.Add(board.Object{"id": "a"})))
	assert.Equal(t, 3, repo.calls)

	doc := mustGet(t, inner, "b1")
	assert.Len(t, doc.Objects, 1)
}

func TestApply_PersistentFailureReturnsError(t *testing.T) {
	repo := &failingRepo{Repository: boards.NewInMemoryRepository(), failures: 100}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e := NewEngine(repo, logger)

	err := e.Apply(context.Background(), "b1", board.Add(board.Object{"id": "a"}))
	assert.Error(t, err)
}
