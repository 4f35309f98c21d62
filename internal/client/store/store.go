package store

import "github.com/dmitrijs2005/drawboard/internal/board"

// Store keeps the board's shapes in z-order with id lookup. It is not
// safe for concurrent use; the owning session serializes access.
type Store struct {
	order []string
	byID  map[string]Shape
}

func New() *Store {
	return &Store{byID: make(map[string]Shape)}
}

// Len returns the number of shapes.
func (st *Store) Len() int { return len(st.order) }

// Has reports whether a shape with the given id exists.
func (st *Store) Has(id string) bool {
	_, ok := st.byID[id]
	return ok
}

// Get returns the shape with the given id.
func (st *Store) Get(id string) (Shape, bool) {
	s, ok := st.byID[id]
	return s, ok
}

// Add appends the shape. Adding an id already present is a no-op.
func (st *Store) Add(s Shape) {
	if s.ID == "" {
		return
	}
	if _, ok := st.byID[s.ID]; ok {
		return
	}
	st.order = append(st.order, s.ID)
	st.byID[s.ID] = s
}

// Replace swaps the shape with the same id, keeping its z-order. It is a
// no-op when the id is absent.
func (st *Store) Replace(s Shape) {
	if _, ok := st.byID[s.ID]; !ok {
		return
	}
	st.byID[s.ID] = s
}

// Remove deletes the shape with the given id, reporting whether it was
// present.
func (st *Store) Remove(id string) bool {
	if _, ok := st.byID[id]; !ok {
		return false
	}
	delete(st.byID, id)
	for i, oid := range st.order {
		if oid == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	return true
}

// List returns the shapes in z-order.
func (st *Store) List() []Shape {
	out := make([]Shape, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.byID[id])
	}
	return out
}

// Clear removes every shape.
func (st *Store) Clear() {
	st.order = nil
	st.byID = make(map[string]Shape)
}

// ReplaceAll swaps the whole collection, used when a refresh arrives.
func (st *Store) ReplaceAll(shapes []Shape) {
	st.Clear()
	for _, s := range shapes {
		st.Add(s)
	}
}

// SetOpacity updates one shape's opacity in place.
func (st *Store) SetOpacity(id string, opacity float64) {
	s, ok := st.byID[id]
	if !ok {
		return
	}
	s.Opacity = opacity
	st.byID[id] = s
}

// Snapshot encodes the collection as a document.
func (st *Store) Snapshot() *board.Document {
	doc := &board.Document{Objects: make([]board.Object, 0, len(st.order))}
	for _, id := range st.order {
		doc.Objects = append(doc.Objects, st.byID[id].ToObject())
	}
	return doc
}

// Load replaces the collection from a document.
func (st *Store) Load(doc *board.Document) {
	st.Clear()
	if doc == nil {
		return
	}
	for _, o := range doc.Objects {
		st.Add(ShapeFromObject(o))
	}
}
