// Package history implements the bounded undo/redo stack. Commands
// store enough prior state to invert themselves, and each one checks the
// live shape collection before replaying: a concurrent editor may have
// removed or replaced the shapes a command refers to, in which case the
// command is stale and is skipped rather than resurrecting content.
package history

import "github.com/dmitrijs2005/drawboard/internal/client/store"

// Command is one recorded edit. Undo and Redo report false when the
// command no longer applies to the current collection.
type Command interface {
	// Name identifies the command kind for logging.
	Name() string
	Undo(st *store.Store) bool
	Redo(st *store.Store) bool
	// Modified returns the shape id whose state changed in place, or ""
	// when the command changes collection membership instead.
	Modified() string
}

// Init marks the bottom of the stack. It is recorded once when the board
// loads and is never undone, so undo past the first edit reports empty
// instead of wiping the initial content.
type Init struct{}

func (Init) Name() string           { return "init" }
func (Init) Undo(*store.Store) bool { return false }
func (Init) Redo(*store.Store) bool { return false }
func (Init) Modified() string       { return "" }

// Add records a newly drawn shape.
type Add struct {
	Shape store.Shape
}

func (Add) Name() string     { return "add" }
func (Add) Modified() string { return "" }

func (c Add) Undo(st *store.Store) bool {
	return st.Remove(c.Shape.ID)
}

func (c Add) Redo(st *store.Store) bool {
	if st.Has(c.Shape.ID) {
		return false
	}
	st.Add(c.Shape.Clone())
	return true
}

// Remove records a single deleted shape.
type Remove struct {
	Shape store.Shape
}

func (Remove) Name() string     { return "remove" }
func (Remove) Modified() string { return "" }

func (c Remove) Undo(st *store.Store) bool {
	if st.Has(c.Shape.ID) {
		return false
	}
	st.Add(c.Shape.Clone())
	return true
}

func (c Remove) Redo(st *store.Store) bool {
	return st.Remove(c.Shape.ID)
}

// Modify records an in-place attribute change, move or restyle.
type Modify struct {
	Before store.Shape
	After  store.Shape
}

func (Modify) Name() string       { return "modify" }
func (c Modify) Modified() string { return c.Before.ID }

func (c Modify) Undo(st *store.Store) bool {
	if !st.Has(c.Before.ID) {
		return false
	}
	st.Replace(c.Before.Clone())
	return true
}

func (c Modify) Redo(st *store.Store) bool {
	if !st.Has(c.After.ID) {
		return false
	}
	st.Replace(c.After.Clone())
	return true
}

// BatchRemove records one eraser gesture: every shape the gesture
// removed, inverted as a unit. Replay is member-wise, so partial
// staleness still restores or removes whatever members remain valid.
type BatchRemove struct {
	Shapes []store.Shape
}

func (BatchRemove) Name() string     { return "batch-remove" }
func (BatchRemove) Modified() string { return "" }

func (c BatchRemove) Undo(st *store.Store) bool {
	applied := false
	for _, s := range c.Shapes {
		if !st.Has(s.ID) {
			st.Add(s.Clone())
			applied = true
		}
	}
	return applied
}

func (c BatchRemove) Redo(st *store.Store) bool {
	applied := false
	for _, s := range c.Shapes {
		if st.Remove(s.ID) {
			applied = true
		}
	}
	return applied
}

// Clear records wiping the whole board.
type Clear struct {
	Before []store.Shape
}

func (Clear) Name() string     { return "clear" }
func (Clear) Modified() string { return "" }

func (c Clear) Undo(st *store.Store) bool {
	if len(c.Before) == 0 {
		return false
	}
	applied := false
	for _, s := range c.Before {
		if !st.Has(s.ID) {
			st.Add(s.Clone())
			applied = true
		}
	}
	return applied
}

func (c Clear) Redo(st *store.Store) bool {
	if st.Len() == 0 {
		return false
	}
	st.Clear()
	return true
}
