package eraser

import (
	"math"

	"github.com/dmitrijs2005/drawboard/internal/client/store"
)

// DefaultRadius is the eraser brush radius.
const DefaultRadius = 6.0

// Engine answers which shapes an eraser stroke segment touches. It
// keeps its own center index and must be told about collection changes
// via Insert, Forget, and Rebuild.
type Engine struct {
	st     *store.Store
	idx    *Index
	ink    InkTester
	radius float64
}

// Option configures the engine.
type Option func(*Engine)

// WithInkTester overrides the vector ink test, e.g. with a
// renderer-backed pixel sampler.
func WithInkTester(t InkTester) Option {
	return func(e *Engine) { e.ink = t }
}

// WithRadius overrides the brush radius.
func WithRadius(r float64) Option {
	return func(e *Engine) { e.radius = r }
}

func NewEngine(st *store.Store, opts ...Option) *Engine {
	e := &Engine{
		st:     st,
		idx:    NewIndex(),
		ink:    VectorInkTester{},
		radius: DefaultRadius,
	}
	for _, o := range opts {
		o(e)
	}
	e.Rebuild()
	return e
}

// Rebuild reindexes every shape in the collection.
func (e *Engine) Rebuild() {
	e.idx.Rebuild(e.st.List())
}

// Insert indexes a shape that was added or moved.
func (e *Engine) Insert(s store.Shape) { e.idx.Insert(s) }

// Forget drops a shape from the index.
func (e *Engine) Forget(id string) { e.idx.Remove(id) }

// HitTest returns the shapes touched by the eraser segment from a to b,
// in z-order. A shape is hit when the segment reaches its bounds and
// sampling along the segment finds actual ink within the brush radius.
func (e *Engine) HitTest(a, b store.Point) []store.Shape {
	window := store.Rect{
		MinX: math.Min(a.X, b.X), MinY: math.Min(a.Y, b.Y),
		MaxX: math.Max(a.X, b.X), MaxY: math.Max(a.Y, b.Y),
	}
	window = window.Expand(e.radius)

	hit := make(map[string]struct{})
	for _, id := range e.idx.Query(window) {
		s, ok := e.st.Get(id)
		if !ok {
			e.idx.Remove(id)
			continue
		}
		if !e.coarseHit(a, b, s) {
			continue
		}
		if e.sampleInk(a, b, s) {
			hit[id] = struct{}{}
		}
	}

	var out []store.Shape
	for _, s := range e.st.List() {
		if _, ok := hit[s.ID]; ok {
			out = append(out, s)
		}
	}
	return out
}

// coarseHit is the cheap filter: either end of the widened segment lies
// inside the shape's bounds, or the segment crosses the shape's outline.
func (e *Engine) coarseHit(a, b store.Point, s store.Shape) bool {
	bounds := s.Bounds().Expand(e.radius)
	if bounds.Contains(a) || bounds.Contains(b) {
		return true
	}
	return segmentIntersectsPolygon(a, b, s.Outline())
}

// sampleInk confirms the hit by probing points spaced along the segment.
// The sample count scales with segment length so fast strokes do not
// tunnel through thin shapes.
func (e *Engine) sampleInk(a, b store.Point, s store.Shape) bool {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	n := int(math.Floor(length / 4))
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		p := store.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
		if e.ink.HasInkNear(s, p, e.radius) {
			return true
		}
	}
	return false
}
