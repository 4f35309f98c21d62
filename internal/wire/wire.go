// Package wire defines the websocket protocol between client and server:
// event names, the JSON envelope, and per-event payloads. Events are
// room-scoped and, within one connection, delivered in order.
package wire

import (
	"encoding/json"
	"fmt"
)

// Event names. Directions are noted as c→s (client to server), s→c (server
// to the requester) and s→room (server to every other room participant).
const (
	EventJoin           = "join"            // c→s: subscribe to a room
	EventInitLocks      = "init-locks"      // s→c: lock snapshot on join
	EventRequestLock    = "request-lock"    // c→s
	EventReleaseLock    = "release-lock"    // c→s
	EventLockAcquired   = "lock-acquired"   // s→c
	EventLockDenied     = "lock-denied"     // s→c
	EventObjectLocked   = "object-locked"   // s→room
	EventObjectUnlocked = "object-unlocked" // s→room
	EventDraw           = "draw"            // c↔s↔room: all deltas
	EventSysMsg         = "sys_msg"         // s→room: informational only
)

// Envelope frames every message on the socket.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals payload into an Envelope.
func NewEnvelope(event string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding %s payload: %w", event, err)
	}
	return Envelope{Event: event, Payload: raw}, nil
}

// Join is the payload of EventJoin.
type Join struct {
	RoomID string `json:"roomId"`
}

// LockRequest is the payload of EventRequestLock and EventReleaseLock.
type LockRequest struct {
	BoardID  string `json:"boardId"`
	ObjectID string `json:"objectId"`
}

// LockResult is the payload of EventLockAcquired and EventLockDenied.
// Holder is set only on denial.
type LockResult struct {
	ObjectID string `json:"objectId"`
	Holder   string `json:"holder,omitempty"`
}

// LockState is the payload of EventObjectLocked and EventObjectUnlocked.
// UserID is set only when locked.
type LockState struct {
	ObjectID string `json:"objectId"`
	UserID   string `json:"userId,omitempty"`
}

// InitLocks is the payload of EventInitLocks: objectId → holderId.
type InitLocks map[string]string

// Draw is the payload of EventDraw in both directions. Token is an optional
// bearer token; connections without a verifiable token are treated as guests.
type Draw struct {
	RoomID string          `json:"roomId"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
	Token  string          `json:"token,omitempty"`
}
