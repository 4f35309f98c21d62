// Package session runs the client side of a board connection: it owns
// the shape collection, the undo stack and the eraser index, applies
// remote deltas, and emits local edits to the room. All entry points
// serialize on one mutex, so the socket read loop and the UI can call in
// from different goroutines.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/client/eraser"
	"github.com/dmitrijs2005/drawboard/internal/client/guard"
	"github.com/dmitrijs2005/drawboard/internal/client/history"
	"github.com/dmitrijs2005/drawboard/internal/client/store"
	"github.com/dmitrijs2005/drawboard/internal/logging"
	"github.com/dmitrijs2005/drawboard/internal/wire"
)

// Conn is the subset of *websocket.Conn the session needs.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// Listener receives room events the session cannot resolve on its own.
type Listener interface {
	// LockGranted confirms this client's lock request.
	LockGranted(objectID string)
	// LockDenied reports a lock request refused; holder identifies the
	// current owner.
	LockDenied(objectID, holder string)
	// ObjectLocked reports another participant taking a lock.
	ObjectLocked(objectID, userID string)
	// ObjectUnlocked reports a lock released or expired.
	ObjectUnlocked(objectID string)
	// Notice delivers an informational room message.
	Notice(text string)
	// BoardUpdated fires after a remote delta changed the collection.
	BoardUpdated()
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) LockGranted(string)          {}
func (NopListener) LockDenied(string, string)   {}
func (NopListener) ObjectLocked(string, string) {}
func (NopListener) ObjectUnlocked(string)       {}
func (NopListener) Notice(string)               {}
func (NopListener) BoardUpdated()               {}

// Session is one client's live connection to a board room.
type Session struct {
	mu  sync.Mutex
	wmu sync.Mutex

	conn     Conn
	roomID   string
	token    string
	log      logging.Logger
	listener Listener

	st     *store.Store
	stack  *history.Stack
	engine *eraser.Engine
	guard  *guard.Guard

	locks map[string]string

	lastTransient time.Time
	now           func() time.Time
}

// Option configures a session.
type Option func(*Session)

// WithListener sets the event listener.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

// WithToken sets the bearer token attached to outgoing deltas.
func WithToken(token string) Option {
	return func(s *Session) { s.token = token }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New builds a session over an established connection.
func New(conn Conn, roomID string, log logging.Logger, opts ...Option) *Session {
	st := store.New()
	s := &Session{
		conn:     conn,
		roomID:   roomID,
		log:      log.With("room", roomID),
		listener: NopListener{},
		st:       st,
		stack:    history.NewStack(log),
		engine:   eraser.NewEngine(st),
		guard:    guard.New(),
		locks:    make(map[string]string),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Dial connects to the server and returns a session joined to roomID.
func Dial(ctx context.Context, url, roomID string, log logging.Logger, opts ...Option) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	s := New(conn, roomID, log, opts...)
	if err := s.Join(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Join subscribes the connection to the session's room.
func (s *Session) Join() error {
	return s.send(wire.EventJoin, wire.Join{RoomID: s.roomID})
}

// Close shuts the connection down.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Shapes returns the current collection in z-order.
func (s *Session) Shapes() []store.Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.List()
}

// Shape returns one shape by id.
func (s *Session) Shape(id string) (store.Shape, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Get(id)
}

// Snapshot encodes the current collection as a document.
func (s *Session) Snapshot() *board.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Snapshot()
}

// LockHolder returns the holder of an object's lock, if any.
func (s *Session) LockHolder(objectID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	holder, ok := s.locks[objectID]
	return holder, ok
}

// RequestLock asks the server for an exclusive soft lock.
func (s *Session) RequestLock(objectID string) error {
	return s.send(wire.EventRequestLock, wire.LockRequest{BoardID: s.roomID, ObjectID: objectID})
}

// ReleaseLock gives a held lock back.
func (s *Session) ReleaseLock(objectID string) error {
	return s.send(wire.EventReleaseLock, wire.LockRequest{BoardID: s.roomID, ObjectID: objectID})
}

// Run reads and dispatches messages until the connection fails or ctx is
// done. It is the only reader of the connection.
func (s *Session) Run(ctx context.Context) error {
	for {
		var env wire.Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return err
			}
		}
		s.dispatch(ctx, env)
	}
}

func (s *Session) dispatch(ctx context.Context, env wire.Envelope) {
	switch env.Event {
	case wire.EventInitLocks:
		var init wire.InitLocks
		if err := json.Unmarshal(env.Payload, &init); err != nil {
			s.log.Warn(ctx, "malformed init-locks payload", "error", err)
			return
		}
		// Merge rather than replace: a lock learned from a live
		// object-locked event must survive a snapshot that predates it.
		s.mu.Lock()
		for id, holder := range init {
			s.locks[id] = holder
		}
		s.mu.Unlock()

	case wire.EventLockAcquired:
		var res wire.LockResult
		if err := json.Unmarshal(env.Payload, &res); err != nil {
			return
		}
		s.listener.LockGranted(res.ObjectID)

	case wire.EventLockDenied:
		var res wire.LockResult
		if err := json.Unmarshal(env.Payload, &res); err != nil {
			return
		}
		s.listener.LockDenied(res.ObjectID, res.Holder)

	case wire.EventObjectLocked:
		var st wire.LockState
		if err := json.Unmarshal(env.Payload, &st); err != nil {
			return
		}
		s.mu.Lock()
		s.locks[st.ObjectID] = st.UserID
		s.mu.Unlock()
		s.listener.ObjectLocked(st.ObjectID, st.UserID)

	case wire.EventObjectUnlocked:
		var st wire.LockState
		if err := json.Unmarshal(env.Payload, &st); err != nil {
			return
		}
		s.mu.Lock()
		delete(s.locks, st.ObjectID)
		s.mu.Unlock()
		s.listener.ObjectUnlocked(st.ObjectID)

	case wire.EventDraw:
		var draw wire.Draw
		if err := json.Unmarshal(env.Payload, &draw); err != nil {
			s.log.Warn(ctx, "malformed draw payload", "error", err)
			return
		}
		delta, err := board.ParseDelta(draw.Action, draw.Data)
		if err != nil {
			s.log.Warn(ctx, "dropping unparseable delta", "action", draw.Action, "error", err)
			return
		}
		s.applyRemote(delta)
		s.listener.BoardUpdated()

	case wire.EventSysMsg:
		var text string
		if err := json.Unmarshal(env.Payload, &text); err != nil {
			return
		}
		s.listener.Notice(text)

	default:
		s.log.Debug(ctx, "ignoring unknown event", "event", env.Event)
	}
}

// applyRemote replays another participant's delta against the local
// collection. The guard suppresses recording and re-emission, so remote
// edits never land on the local undo stack or echo back to the room.
func (s *Session) applyRemote(d board.Delta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	release := s.guard.Enter(guard.ApplyingRemote)
	defer release()

	switch d.Action {
	case board.ActionAdd:
		if s.st.Has(d.ObjectID) {
			return
		}
		sh := store.ShapeFromObject(d.Object)
		s.st.Add(sh)
		s.engine.Insert(sh)

	case board.ActionModify, board.ActionMoving, board.ActionDrawing:
		existing, ok := s.st.Get(d.ObjectID)
		if !ok {
			if d.Action != board.ActionModify {
				return
			}
			// Delivery raced ahead of the add; keep the change anyway.
			sh := store.ShapeFromObject(d.Object)
			s.st.Add(sh)
			s.engine.Insert(sh)
			return
		}
		merged := existing.ToObject()
		merged.Merge(d.Object)
		sh := store.ShapeFromObject(merged)
		s.st.Replace(sh)
		s.engine.Insert(sh)

	case board.ActionRemove:
		if s.st.Remove(d.ObjectID) {
			s.engine.Forget(d.ObjectID)
		}

	case board.ActionRefresh:
		s.st.Load(d.Document)
		s.engine.Rebuild()
	}
}
