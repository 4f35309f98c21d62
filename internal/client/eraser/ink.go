package eraser

import (
	"math"

	"github.com/dmitrijs2005/drawboard/internal/client/store"
)

// InkTester answers whether a shape has visible ink within radius of a
// point. The engine uses it to refine coarse hits; a renderer-backed
// implementation can sample pixels, while the default works off vector
// geometry alone.
type InkTester interface {
	HasInkNear(s store.Shape, p store.Point, radius float64) bool
}

// VectorInkTester tests ink against the shape's vector geometry: stroke
// distance for paths and outlines, interior containment only when the
// shape is filled.
type VectorInkTester struct{}

func (VectorInkTester) HasInkNear(s store.Shape, p store.Point, radius float64) bool {
	reach := radius + s.StrokeWidth/2
	switch s.Kind {
	case store.KindPath, store.KindLine:
		pts := s.Points
		if len(pts) == 1 {
			return math.Hypot(p.X-pts[0].X, p.Y-pts[0].Y) <= reach
		}
		for i := 0; i+1 < len(pts); i++ {
			if distPointSegment(p, pts[i], pts[i+1]) <= reach {
				return true
			}
		}
		return false
	case store.KindCircle:
		d := math.Hypot(p.X-s.Left, p.Y-s.Top)
		if s.Filled() {
			return d <= s.Radius+reach
		}
		return math.Abs(d-s.Radius) <= reach
	default:
		poly := s.Outline()
		if s.Filled() && pointInPolygon(p, poly) {
			return true
		}
		n := len(poly)
		for i := 0; i < n; i++ {
			if distPointSegment(p, poly[i], poly[(i+1)%n]) <= reach {
				return true
			}
		}
		return false
	}
}
