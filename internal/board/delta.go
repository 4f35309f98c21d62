package board

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/drawboard/internal/common"
)

// Action tags a delta variant.
type Action string

const (
	// Structural actions; these reach the persisted document.
	ActionAdd     Action = "add"
	ActionModify  Action = "modify"
	ActionRemove  Action = "remove"
	ActionRefresh Action = "refresh"

	// Transient actions; relay-only, never persisted.
	ActionMoving  Action = "moving"
	ActionDrawing Action = "drawing"
)

// Delta is one structural or transient change to a board's objects.
// Exactly one payload field is meaningful for a given action:
//
//	add/modify/moving/drawing → Object (for modify a partial object)
//	remove                    → ObjectID
//	refresh                   → Document
type Delta struct {
	Action   Action
	Object   Object
	ObjectID string
	Document *Document
}

func Add(obj Object) Delta      { return Delta{Action: ActionAdd, Object: obj} }
func Modify(part Object) Delta  { return Delta{Action: ActionModify, Object: part} }
func Remove(id string) Delta    { return Delta{Action: ActionRemove, ObjectID: id} }
func Refresh(d *Document) Delta { return Delta{Action: ActionRefresh, Document: d} }
func Moving(obj Object) Delta   { return Delta{Action: ActionMoving, Object: obj} }
func Drawing(obj Object) Delta  { return Delta{Action: ActionDrawing, Object: obj} }

// Known reports whether the action is one of the defined variants.
func (a Action) Known() bool {
	switch a {
	case ActionAdd, ActionModify, ActionRemove, ActionRefresh, ActionMoving, ActionDrawing:
		return true
	}
	return false
}

// Persistent reports whether deltas with this action reach the merge engine.
func (a Action) Persistent() bool {
	switch a {
	case ActionAdd, ActionModify, ActionRemove, ActionRefresh:
		return true
	case ActionMoving, ActionDrawing:
		return false
	}
	return false
}

// GuestAllowed reports whether a guest connection may send this action.
// Guests can create and adjust, but not destroy: remove, refresh and any
// unknown action are blocked at the broadcast gate.
func (a Action) GuestAllowed() bool {
	switch a {
	case ActionAdd, ActionDrawing, ActionModify, ActionMoving:
		return true
	}
	return false
}

// removePayload is the wire form of a remove delta.
type removePayload struct {
	ID string `json:"id"`
}

// ParseDelta decodes the wire form (action tag + raw data) into a Delta.
// Unknown actions are an error: the gates switch exhaustively and must not
// fall through silently.
func ParseDelta(action string, data json.RawMessage) (Delta, error) {
	a := Action(action)
	switch a {
	case ActionAdd, ActionModify, ActionMoving, ActionDrawing:
		obj, err := DecodeObject(data)
		if err != nil {
			return Delta{}, fmt.Errorf("decoding %s payload: %w", action, err)
		}
		return Delta{Action: a, Object: obj, ObjectID: obj.ID()}, nil
	case ActionRemove:
		// The original clients send either {"id": "..."} or a bare id string.
		var p removePayload
		if err := json.Unmarshal(data, &p); err == nil && p.ID != "" {
			return Remove(p.ID), nil
		}
		var id string
		if err := json.Unmarshal(data, &id); err == nil && id != "" {
			return Remove(id), nil
		}
		return Delta{}, fmt.Errorf("decoding remove payload: missing id")
	case ActionRefresh:
		return Refresh(DecodeDocument(data)), nil
	default:
		return Delta{}, fmt.Errorf("%w: %q", common.ErrUnknownAction, action)
	}
}

// EncodeData serializes the delta payload back into the wire "data" field.
func (d Delta) EncodeData() (json.RawMessage, error) {
	switch d.Action {
	case ActionAdd, ActionModify, ActionMoving, ActionDrawing:
		return json.Marshal(d.Object)
	case ActionRemove:
		return json.Marshal(removePayload{ID: d.ObjectID})
	case ActionRefresh:
		doc := d.Document
		if doc == nil {
			doc = NewDocument()
		}
		return json.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownAction, d.Action)
	}
}
