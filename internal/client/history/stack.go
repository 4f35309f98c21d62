package history

import (
	"context"

	"github.com/dmitrijs2005/drawboard/internal/client/store"
	"github.com/dmitrijs2005/drawboard/internal/common"
	"github.com/dmitrijs2005/drawboard/internal/logging"
)

// Emitter receives the delta describing what an applied undo or redo did
// to the collection, so the session can forward it to the room. In-place
// changes travel as a modify of the one shape; membership changes travel
// as a full snapshot, which is the authoritative way to reconcile after
// skipping stale commands.
type Emitter interface {
	EmitModify(s store.Shape)
	EmitRefresh(st *store.Store)
}

// Outcome is the result of an Undo or Redo call.
type Outcome int

const (
	// Applied means a command was replayed against the collection.
	Applied Outcome = iota
	// Empty means the stack was exhausted without an applicable command.
	Empty
)

// Result reports what an Undo or Redo did. Skipped counts the stale
// commands discarded before one applied or the stack ran out.
type Result struct {
	Outcome Outcome
	Skipped int
	Command string
}

// Stack is the bounded command history. It is not safe for concurrent
// use; the owning session serializes access.
type Stack struct {
	undo  []Command
	redo  []Command
	depth int
	log   logging.Logger
}

// Option configures the stack.
type Option func(*Stack)

// WithDepth overrides the maximum history depth.
func WithDepth(n int) Option {
	return func(s *Stack) { s.depth = n }
}

// NewStack returns a stack seeded with an Init marker at the bottom.
func NewStack(log logging.Logger, opts ...Option) *Stack {
	s := &Stack{
		undo:  []Command{Init{}},
		depth: common.MaxHistoryDepth,
		log:   log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Len returns the number of undoable commands, excluding the Init marker.
func (s *Stack) Len() int { return len(s.undo) - 1 }

// RedoLen returns the number of redoable commands.
func (s *Stack) RedoLen() int { return len(s.redo) }

// Record pushes a fresh user edit. Any redo branch is discarded, and the
// oldest edit above the Init marker is dropped once the depth limit is
// reached.
func (s *Stack) Record(c Command) {
	if _, ok := c.(Init); ok {
		return
	}
	s.redo = nil
	s.undo = append(s.undo, c)
	if len(s.undo)-1 > s.depth {
		s.undo = append(s.undo[:1], s.undo[2:]...)
	}
}

// Reset drops all history and reseeds the Init marker, used when a new
// board is loaded.
func (s *Stack) Reset() {
	s.undo = []Command{Init{}}
	s.redo = nil
}

// Undo pops commands until one applies to the collection, discarding
// stale ones. The applied command moves to the redo branch.
func (s *Stack) Undo(st *store.Store, em Emitter) Result {
	skipped := 0
	for len(s.undo) > 1 {
		c := s.undo[len(s.undo)-1]
		s.undo = s.undo[:len(s.undo)-1]
		if !c.Undo(st) {
			skipped++
			s.log.Debug(context.Background(), "skipping stale command on undo", "command", c.Name())
			continue
		}
		s.redo = append(s.redo, c)
		s.emit(c, st, em)
		return Result{Outcome: Applied, Skipped: skipped, Command: c.Name()}
	}
	return Result{Outcome: Empty, Skipped: skipped}
}

// Redo replays commands undone earlier, discarding stale ones.
func (s *Stack) Redo(st *store.Store, em Emitter) Result {
	skipped := 0
	for len(s.redo) > 0 {
		c := s.redo[len(s.redo)-1]
		s.redo = s.redo[:len(s.redo)-1]
		if !c.Redo(st) {
			skipped++
			s.log.Debug(context.Background(), "skipping stale command on redo", "command", c.Name())
			continue
		}
		s.undo = append(s.undo, c)
		s.emit(c, st, em)
		return Result{Outcome: Applied, Skipped: skipped, Command: c.Name()}
	}
	return Result{Outcome: Empty, Skipped: skipped}
}

func (s *Stack) emit(c Command, st *store.Store, em Emitter) {
	if em == nil {
		return
	}
	if id := c.Modified(); id != "" {
		if sh, ok := st.Get(id); ok {
			em.EmitModify(sh)
			return
		}
	}
	em.EmitRefresh(st)
}
