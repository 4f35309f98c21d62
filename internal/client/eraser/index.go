// Package eraser implements hit testing for the eraser tool. Shapes are
// indexed by center on a uniform grid; a stroke segment queries the grid
// for nearby candidates, filters them with cheap bounding tests, and
// confirms hits by sampling actual ink so a stroke through the empty
// interior of an unfilled shape does not erase it.
package eraser

import (
	"math"

	"github.com/dmitrijs2005/drawboard/internal/client/store"
)

const defaultCellSize = 64.0

type cellKey struct{ cx, cy int }

// Index is a uniform grid over shape centers. Because a shape lives in
// exactly one cell, a query must widen its window by the largest
// bounding radius seen, tracked in maxRadius. maxRadius only grows;
// rebuilding the index resets it.
type Index struct {
	cell      float64
	cells     map[cellKey][]string
	centers   map[string]store.Point
	maxRadius float64
}

func NewIndex() *Index {
	return &Index{
		cell:    defaultCellSize,
		cells:   make(map[cellKey][]string),
		centers: make(map[string]store.Point),
	}
}

func (ix *Index) key(p store.Point) cellKey {
	return cellKey{
		cx: int(math.Floor(p.X / ix.cell)),
		cy: int(math.Floor(p.Y / ix.cell)),
	}
}

// Insert adds or repositions a shape.
func (ix *Index) Insert(s store.Shape) {
	if _, ok := ix.centers[s.ID]; ok {
		ix.Remove(s.ID)
	}
	c := s.Center()
	k := ix.key(c)
	ix.cells[k] = append(ix.cells[k], s.ID)
	ix.centers[s.ID] = c
	if r := s.BoundingRadius(); r > ix.maxRadius {
		ix.maxRadius = r
	}
}

// Remove drops a shape from the index.
func (ix *Index) Remove(id string) {
	c, ok := ix.centers[id]
	if !ok {
		return
	}
	delete(ix.centers, id)
	k := ix.key(c)
	ids := ix.cells[k]
	for i, other := range ids {
		if other == id {
			ix.cells[k] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ix.cells[k]) == 0 {
		delete(ix.cells, k)
	}
}

// Rebuild reindexes the whole collection, recomputing maxRadius.
func (ix *Index) Rebuild(shapes []store.Shape) {
	ix.cells = make(map[cellKey][]string)
	ix.centers = make(map[string]store.Point)
	ix.maxRadius = 0
	for _, s := range shapes {
		ix.Insert(s)
	}
}

// Query returns ids of shapes whose geometry may intersect r. The
// window widens by maxRadius so shapes whose center lies outside r but
// whose extent reaches into it are still candidates.
func (ix *Index) Query(r store.Rect) []string {
	w := r.Expand(ix.maxRadius)
	lo := ix.key(store.Point{X: w.MinX, Y: w.MinY})
	hi := ix.key(store.Point{X: w.MaxX, Y: w.MaxY})
	var out []string
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for _, id := range ix.cells[cellKey{cx, cy}] {
				if w.Contains(ix.centers[id]) {
					out = append(out, id)
				}
			}
		}
	}
	return out
}
