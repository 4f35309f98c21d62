package store

import (
	"encoding/json"

	"github.com/dmitrijs2005/drawboard/internal/board"
)

// ToObject converts the shape into the loose map form used on the wire
// and in persisted documents.
func (s Shape) ToObject() board.Object {
	o := board.Object{
		board.IDKey: s.ID,
		"type":      string(s.Kind),
		"left":      s.Left,
		"top":       s.Top,
		"opacity":   s.Opacity,
	}
	if s.Width != 0 {
		o["width"] = s.Width
	}
	if s.Height != 0 {
		o["height"] = s.Height
	}
	if s.Radius != 0 {
		o["radius"] = s.Radius
	}
	if s.Fill != "" {
		o["fill"] = s.Fill
	}
	if s.Stroke != "" {
		o["stroke"] = s.Stroke
	}
	if s.StrokeWidth != 0 {
		o["strokeWidth"] = s.StrokeWidth
	}
	if len(s.Points) > 0 {
		pts := make([]any, 0, len(s.Points))
		for _, p := range s.Points {
			pts = append(pts, map[string]any{"x": p.X, "y": p.Y})
		}
		o["points"] = pts
	}
	return o
}

// ShapeFromObject rebuilds a Shape from a wire object. Missing or
// malformed attributes fall back to zero values; documents produced by
// other client versions must still load.
func ShapeFromObject(o board.Object) Shape {
	s := Shape{
		ID:          o.ID(),
		Kind:        Kind(str(o["type"])),
		Left:        num(o["left"]),
		Top:         num(o["top"]),
		Width:       num(o["width"]),
		Height:      num(o["height"]),
		Radius:      num(o["radius"]),
		Fill:        str(o["fill"]),
		Stroke:      str(o["stroke"]),
		StrokeWidth: num(o["strokeWidth"]),
		Opacity:     num(o["opacity"]),
	}
	if raw, ok := o["points"].([]any); ok {
		s.Points = make([]Point, 0, len(raw))
		for _, rp := range raw {
			if m, ok := rp.(map[string]any); ok {
				s.Points = append(s.Points, Point{X: num(m["x"]), Y: num(m["y"])})
			}
		}
	}
	return s
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// num coerces the numeric representations json.Unmarshal may produce.
func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
