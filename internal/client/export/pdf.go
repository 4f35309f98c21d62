// Package export renders a board to a PDF file.
package export

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/dmitrijs2005/drawboard/internal/client/store"
)

// pxPerMM converts board pixels to millimeters on an A4 page.
const pxPerMM = 3.0

// ToPDF writes the shapes onto a single A4 page at path.
func ToPDF(shapes []store.Shape, path string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	for _, s := range shapes {
		drawShape(pdf, s)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func drawShape(pdf *gofpdf.Fpdf, s store.Shape) {
	sr, sg, sb := parseColor(s.Stroke, 0, 0, 0)
	pdf.SetDrawColor(sr, sg, sb)

	w := s.StrokeWidth / pxPerMM
	if w <= 0 {
		w = 0.5
	}
	pdf.SetLineWidth(w)

	style := "D"
	if s.Filled() {
		fr, fg, fb := parseColor(s.Fill, 0, 0, 0)
		pdf.SetFillColor(fr, fg, fb)
		style = "FD"
	}

	switch s.Kind {
	case store.KindPath, store.KindLine:
		for i := 0; i+1 < len(s.Points); i++ {
			a, b := s.Points[i], s.Points[i+1]
			pdf.Line(a.X/pxPerMM, a.Y/pxPerMM, b.X/pxPerMM, b.Y/pxPerMM)
		}
	case store.KindCircle:
		pdf.Circle(s.Left/pxPerMM, s.Top/pxPerMM, s.Radius/pxPerMM, style)
	case store.KindRect:
		b := s.Bounds()
		pdf.Rect(b.MinX/pxPerMM, b.MinY/pxPerMM, (b.MaxX-b.MinX)/pxPerMM, (b.MaxY-b.MinY)/pxPerMM, style)
	case store.KindTriangle:
		pts := make([]gofpdf.PointType, 0, 3)
		for _, p := range s.Outline() {
			pts = append(pts, gofpdf.PointType{X: p.X / pxPerMM, Y: p.Y / pxPerMM})
		}
		pdf.Polygon(pts, style)
	}
}

// parseColor reads a #rrggbb or #rgb value, falling back to the given
// default for anything else.
func parseColor(c string, dr, dg, db int) (int, int, int) {
	if len(c) == 0 || c[0] != '#' {
		return dr, dg, db
	}
	hex := c[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return dr, dg, db
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return dr, dg, db
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
