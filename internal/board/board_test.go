package board

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObject_Merge_PreservesUntouchedFields(t *testing.T) {
	o := Object{"id": "a", "left": 1.0, "fill": "#fff"}
	o.Merge(Object{"left": 5.0, "id": "hacked"})

	assert.Equal(t, "a", o.ID())
	assert.Equal(t, 5.0, o["left"])
	assert.Equal(t, "#fff", o["fill"])
}

func TestObject_Clone_IsIndependentAtTopLevel(t *testing.T) {
	o := Object{"id": "a", "left": 1.0}
	c := o.Clone()
	c["left"] = 9.0

	assert.Equal(t, 1.0, o["left"])
}

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		count int
	}{
		{"nil input", nil, 0},
		{"malformed", []byte("{nope"), 0},
		{"missing objects", []byte(`{}`), 0},
		{"valid", []byte(`{"objects":[{"id":"a"},{"id":"b"}]}`), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := DecodeDocument(tc.input)
			require.NotNil(t, d)
			require.NotNil(t, d.Objects)
			assert.Len(t, d.Objects, tc.count)
		})
	}
}

func TestMeta_Password(t *testing.T) {
	var m Meta
	assert.True(t, m.CheckPassword("anything"), "unprotected board accepts any password")

	require.NoError(t, m.SetPassword("s3cret"))
	assert.True(t, m.CheckPassword("s3cret"))
	assert.False(t, m.CheckPassword("wrong"))

	require.NoError(t, m.SetPassword(""))
	assert.True(t, m.CheckPassword(""), "clearing the password removes protection")
}

func TestMeta_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var m Meta
	assert.False(t, m.Expired(now))

	past := now.Add(-time.Hour)
	m.ExpiresAt = &past
	assert.True(t, m.Expired(now))

	future := now.Add(time.Hour)
	m.ExpiresAt = &future
	assert.False(t, m.Expired(now))
}

func TestParseDelta(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		d, err := ParseDelta("add", json.RawMessage(`{"id":"a","kind":"rect"}`))
		require.NoError(t, err)
		assert.Equal(t, ActionAdd, d.Action)
		assert.Equal(t, "a", d.Object.ID())
	})

	t.Run("remove object payload", func(t *testing.T) {
		d, err := ParseDelta("remove", json.RawMessage(`{"id":"a"}`))
		require.NoError(t, err)
		assert.Equal(t, "a", d.ObjectID)
	})

	t.Run("remove bare id", func(t *testing.T) {
		d, err := ParseDelta("remove", json.RawMessage(`"a"`))
		require.NoError(t, err)
		assert.Equal(t, "a", d.ObjectID)
	})

	t.Run("refresh tolerates malformed document", func(t *testing.T) {
		d, err := ParseDelta("refresh", json.RawMessage(`{broken`))
		require.NoError(t, err)
		require.NotNil(t, d.Document)
		assert.Empty(t, d.Document.Objects)
	})

	t.Run("unknown action rejected", func(t *testing.T) {
		_, err := ParseDelta("nuke", json.RawMessage(`{}`))
		require.Error(t, err)
	})
}

func TestAction_Gates(t *testing.T) {
	tests := []struct {
		action       Action
		persistent   bool
		guestAllowed bool
	}{
		{ActionAdd, true, true},
		{ActionModify, true, true},
		{ActionRemove, true, false},
		{ActionRefresh, true, false},
		{ActionMoving, false, true},
		{ActionDrawing, false, true},
		{Action("bogus"), false, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.action), func(t *testing.T) {
			assert.Equal(t, tc.persistent, tc.action.Persistent())
			assert.Equal(t, tc.guestAllowed, tc.action.GuestAllowed())
		})
	}
}

func TestDelta_EncodeData_RoundTrip(t *testing.T) {
	d := Add(Object{"id": "a", "kind": "circle", "radius": 10.0})
	raw, err := d.EncodeData()
	require.NoError(t, err)

	back, err := ParseDelta(string(d.Action), raw)
	require.NoError(t, err)
	assert.Equal(t, d.Object, back.Object)
}
