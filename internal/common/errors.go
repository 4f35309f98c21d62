// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Wire/session errors.
	ErrNotJoined     = errors.New("not joined to a room")
	ErrSessionClosed = errors.New("session closed")

	// Board access errors (share settings on the persisted document).
	ErrBoardExpired   = errors.New("board expired")
	ErrWrongPassword  = errors.New("wrong board password")
	ErrUnknownAction  = errors.New("unknown delta action")
	ErrTransientDelta = errors.New("transient delta is not persistable")
)
