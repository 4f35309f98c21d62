// Package board defines the shared data model of a drawing board: schemaless
// drawable objects, the persisted document, and the delta variants exchanged
// between participants.
//
// Objects are deliberately schemaless (a JSON object with a stable "id"):
// the server merges them field by field and never interprets geometry, which
// keeps the persistence protocol independent of the client's shape catalog.
package board

import "encoding/json"

// IDKey is the object field holding the stable, client-generated id.
const IDKey = "id"

// Object is one drawable object as it travels over the wire and rests in the
// persisted document. Field semantics belong to the client; the server only
// relies on IDKey.
type Object map[string]any

// ID returns the object's stable id, or "" when the field is missing or not
// a string.
func (o Object) ID() string {
	id, _ := o[IDKey].(string)
	return id
}

// Clone returns a copy of the object. Top-level fields are copied; nested
// values are shared, which matches the shallow last-writer-wins merge model.
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	c := make(Object, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Merge applies partial onto o field by field, overwriting existing values
// and leaving untouched fields intact. The id field is never overwritten.
func (o Object) Merge(partial Object) {
	for k, v := range partial {
		if k == IDKey {
			continue
		}
		o[k] = v
	}
}

// DecodeObject parses a JSON value into an Object.
func DecodeObject(data []byte) (Object, error) {
	var o Object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	return o, nil
}
