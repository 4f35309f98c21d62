// Package store holds the client's authoritative in-memory collection of
// drawable objects for the open board: an ordered sequence with id lookup.
// Rendering is someone else's job; the store only knows geometry and style.
package store

import "math"

// Kind enumerates the shape catalog.
type Kind string

const (
	KindPath     Kind = "path"
	KindLine     Kind = "line"
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindTriangle Kind = "triangle"
)

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Contains reports whether p lies inside the rectangle (inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{MinX: r.MinX - d, MinY: r.MinY - d, MaxX: r.MaxX + d, MaxY: r.MaxY + d}
}

// Shape is one drawable object. Left/Top is the shape's center, matching
// the wire format of the web client. A Shape value is treated as immutable
// once handed to the store; mutation goes through Store methods.
type Shape struct {
	ID          string
	Kind        Kind
	Points      []Point // path and line geometry, absolute coordinates
	Left        float64
	Top         float64
	Width       float64
	Height      float64
	Radius      float64
	Fill        string
	Stroke      string
	StrokeWidth float64
	Opacity     float64
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	c := s
	if s.Points != nil {
		c.Points = make([]Point, len(s.Points))
		copy(c.Points, s.Points)
	}
	return c
}

// Center returns the shape's center point.
func (s Shape) Center() Point {
	switch s.Kind {
	case KindPath, KindLine:
		b := s.Bounds()
		return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
	default:
		return Point{X: s.Left, Y: s.Top}
	}
}

// Bounds returns the axis-aligned bounding box.
func (s Shape) Bounds() Rect {
	switch s.Kind {
	case KindPath, KindLine:
		if len(s.Points) == 0 {
			return Rect{MinX: s.Left, MinY: s.Top, MaxX: s.Left, MaxY: s.Top}
		}
		b := Rect{MinX: s.Points[0].X, MinY: s.Points[0].Y, MaxX: s.Points[0].X, MaxY: s.Points[0].Y}
		for _, p := range s.Points[1:] {
			b.MinX = math.Min(b.MinX, p.X)
			b.MinY = math.Min(b.MinY, p.Y)
			b.MaxX = math.Max(b.MaxX, p.X)
			b.MaxY = math.Max(b.MaxY, p.Y)
		}
		return b.Expand(s.StrokeWidth / 2)
	case KindCircle:
		return Rect{
			MinX: s.Left - s.Radius, MinY: s.Top - s.Radius,
			MaxX: s.Left + s.Radius, MaxY: s.Top + s.Radius,
		}
	default:
		return Rect{
			MinX: s.Left - s.Width/2, MinY: s.Top - s.Height/2,
			MaxX: s.Left + s.Width/2, MaxY: s.Top + s.Height/2,
		}
	}
}

// BoundingRadius returns the radius of the circle around Center enclosing
// the whole shape.
func (s Shape) BoundingRadius() float64 {
	if s.Kind == KindCircle {
		return s.Radius + s.StrokeWidth/2
	}
	b := s.Bounds()
	c := s.Center()
	dx := math.Max(c.X-b.MinX, b.MaxX-c.X)
	dy := math.Max(c.Y-b.MinY, b.MaxY-c.Y)
	return math.Hypot(dx, dy)
}

// Outline returns the shape's outline polygon, used for stroke/outline
// intersection tests. Circles are approximated; paths fall back to their
// bounding box corners, matching the coarse corner coordinates the
// drawing surface reports.
func (s Shape) Outline() []Point {
	switch s.Kind {
	case KindRect:
		b := s.Bounds()
		return []Point{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}
	case KindTriangle:
		b := s.Bounds()
		return []Point{{(b.MinX + b.MaxX) / 2, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}
	case KindCircle:
		const segments = 16
		out := make([]Point, 0, segments)
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / segments
			out = append(out, Point{X: s.Left + s.Radius*math.Cos(a), Y: s.Top + s.Radius*math.Sin(a)})
		}
		return out
	case KindLine:
		if len(s.Points) >= 2 {
			return []Point{s.Points[0], s.Points[len(s.Points)-1]}
		}
		b := s.Bounds()
		return []Point{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}
	default:
		b := s.Bounds()
		return []Point{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}
	}
}

// Filled reports whether the shape has an interior that counts as ink.
func (s Shape) Filled() bool {
	return s.Fill != "" && s.Fill != "transparent"
}
