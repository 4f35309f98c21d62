package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_EnterRelease(t *testing.T) {
	g := New()
	require.True(t, g.Idle())

	release := g.Enter(ApplyingRemote)
	assert.Equal(t, ApplyingRemote, g.State())
	assert.False(t, g.Idle())

	release()
	assert.True(t, g.Idle())
}

func TestGuard_InnerEnterDoesNotClearOuter(t *testing.T) {
	g := New()
	outer := g.Enter(UndoRedoing)

	inner := g.Enter(Batching)
	assert.Equal(t, UndoRedoing, g.State())

	inner()
	assert.Equal(t, UndoRedoing, g.State())

	outer()
	assert.True(t, g.Idle())
}

func TestGuard_ReleaseRestoresAfterPanicPath(t *testing.T) {
	g := New()
	func() {
		defer g.Enter(Batching)()
		assert.Equal(t, Batching, g.State())
	}()
	assert.True(t, g.Idle())
}
