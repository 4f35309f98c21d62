package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/common"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	doc := &board.Document{Objects: []board.Object{
		{"id": "a", "type": "rect", "left": 10.0, "top": 20.0},
	}}
	require.NoError(t, c.Save(ctx, "board1", doc))

	got, err := c.Load(ctx, "board1")
	require.NoError(t, err)
	require.Len(t, got.Objects, 1)
	assert.Equal(t, "a", got.Objects[0].ID())
	assert.Equal(t, 10.0, got.Objects[0]["left"])
}

func TestCache_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	require.NoError(t, c.Save(ctx, "board1", &board.Document{Objects: []board.Object{{"id": "a"}}}))
	require.NoError(t, c.Save(ctx, "board1", &board.Document{Objects: []board.Object{{"id": "b"}}}))

	got, err := c.Load(ctx, "board1")
	require.NoError(t, err)
	require.Len(t, got.Objects, 1)
	assert.Equal(t, "b", got.Objects[0].ID())
}

func TestCache_LoadMissing(t *testing.T) {
	c := openTestCache(t)

	_, err := c.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCache_DeleteAndList(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	require.NoError(t, c.Save(ctx, "b1", board.NewDocument()))
	require.NoError(t, c.Save(ctx, "b2", board.NewDocument()))

	ids, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ok, err := c.Delete(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Delete(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, ids)
}
