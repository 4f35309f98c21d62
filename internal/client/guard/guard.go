// Package guard tracks why the board is currently mutating, so that
// side effects fire only for genuine user edits. Remote applies, undo
// and redo replays, and gesture batches all mutate the same shape
// collection; without the guard each of those would be re-recorded as a
// fresh edit and re-broadcast.
package guard

// State names the active mutation mode.
type State int

const (
	// Idle means mutations come from direct user input and should be
	// recorded and emitted.
	Idle State = iota
	// ApplyingRemote means mutations replay a delta from another user.
	ApplyingRemote
	// Batching means mutations belong to an in-progress gesture that
	// records as one command when it ends.
	Batching
	// UndoRedoing means mutations replay the command stack.
	UndoRedoing
)

func (s State) String() string {
	switch s {
	case ApplyingRemote:
		return "applying-remote"
	case Batching:
		return "batching"
	case UndoRedoing:
		return "undo-redoing"
	default:
		return "idle"
	}
}

// Guard is a non-nesting mode flag. It is not safe for concurrent use;
// the owning session serializes access.
type Guard struct {
	state State
}

func New() *Guard { return &Guard{} }

// State returns the active mode.
func (g *Guard) State() State { return g.state }

// Idle reports whether mutations should currently be treated as user edits.
func (g *Guard) Idle() bool { return g.state == Idle }

// Enter switches to the given mode and returns a release func restoring
// Idle. Entering while already non-idle keeps the existing mode and
// returns a no-op release, so an inner scope cannot clear an outer one.
func (g *Guard) Enter(s State) (release func()) {
	if g.state != Idle {
		return func() {}
	}
	g.state = s
	return func() { g.state = Idle }
}
