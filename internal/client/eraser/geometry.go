package eraser

import (
	"math"

	"github.com/dmitrijs2005/drawboard/internal/client/store"
)

func cross(o, a, b store.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func onSegment(p, q, r store.Point) bool {
	return q.X >= math.Min(p.X, r.X) && q.X <= math.Max(p.X, r.X) &&
		q.Y >= math.Min(p.Y, r.Y) && q.Y <= math.Max(p.Y, r.Y)
}

// segmentsIntersect reports whether segments p1p2 and p3p4 cross or touch.
func segmentsIntersect(p1, p2, p3, p4 store.Point) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p1, p4) {
		return true
	}
	if d2 == 0 && onSegment(p3, p2, p4) {
		return true
	}
	if d3 == 0 && onSegment(p1, p3, p2) {
		return true
	}
	return d4 == 0 && onSegment(p1, p4, p2)
}

// segmentIntersectsPolygon reports whether segment ab crosses any edge
// of the closed polygon poly.
func segmentIntersectsPolygon(a, b store.Point, poly []store.Point) bool {
	n := len(poly)
	if n < 2 {
		return false
	}
	for i := 0; i < n; i++ {
		if segmentsIntersect(a, b, poly[i], poly[(i+1)%n]) {
			return true
		}
	}
	return false
}

// pointInPolygon uses the even-odd ray cast.
func pointInPolygon(p store.Point, poly []store.Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := poly[i], poly[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// distPointSegment returns the distance from p to segment ab.
func distPointSegment(p, a, b store.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
