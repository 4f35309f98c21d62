package eraser

import "github.com/dmitrijs2005/drawboard/internal/client/store"

// Gesture accumulates one press-drag-release of the eraser. Each Move
// reports the shapes newly touched by that stroke segment, and End
// returns everything the gesture collected, in the order first touched,
// so the whole gesture can be committed as a single batch.
type Gesture struct {
	engine *Engine
	seen   map[string]struct{}
	order  []store.Shape
	last   store.Point
	moved  bool
}

// Begin starts a gesture at p. The index is rebuilt so the gesture sees
// the collection as of the stroke start and a fresh max radius.
func (e *Engine) Begin(p store.Point) *Gesture {
	e.Rebuild()
	return &Gesture{
		engine: e,
		seen:   make(map[string]struct{}),
		last:   p,
	}
}

// Move extends the stroke to p and returns shapes hit for the first time.
func (g *Gesture) Move(p store.Point) []store.Shape {
	a := g.last
	g.last = p
	g.moved = true

	var fresh []store.Shape
	for _, s := range g.engine.HitTest(a, p) {
		if _, ok := g.seen[s.ID]; ok {
			continue
		}
		g.seen[s.ID] = struct{}{}
		g.order = append(g.order, s)
		fresh = append(fresh, s)
	}
	return fresh
}

// End finishes the gesture and returns every shape it touched. A tap
// without movement still tests the press point.
func (g *Gesture) End() []store.Shape {
	if !g.moved {
		return g.Move(g.last)
	}
	return g.order
}
