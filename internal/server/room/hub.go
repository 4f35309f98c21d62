// Package room fans events out to the live participants of a board and
// gates what each connection is allowed to do. It owns no board state of
// its own: locks live in the lock manager, documents in the merge engine.
package room

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/logging"
	"github.com/dmitrijs2005/drawboard/internal/server/auth"
	"github.com/dmitrijs2005/drawboard/internal/server/locks"
	"github.com/dmitrijs2005/drawboard/internal/server/merge"
	"github.com/dmitrijs2005/drawboard/internal/wire"
)

// Archiver receives full board snapshots for out-of-band durability.
// Implementations must be safe for concurrent use.
type Archiver interface {
	ArchiveSnapshot(ctx context.Context, boardID string, doc *board.Document) error
}

// Hub routes room-scoped events between participants, the lock manager and
// the merge engine.
type Hub struct {
	locks     *locks.Manager
	engine    *merge.Engine
	archiver  Archiver
	jwtSecret []byte
	logger    logging.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Participant]struct{}
}

// HubOption configures optional hub collaborators.
type HubOption func(*Hub)

// WithArchiver attaches a snapshot archiver; refresh deltas are mirrored to
// it best-effort.
func WithArchiver(a Archiver) HubOption {
	return func(h *Hub) { h.archiver = a }
}

func NewHub(lm *locks.Manager, engine *merge.Engine, jwtSecret []byte, logger logging.Logger, opts ...HubOption) *Hub {
	h := &Hub{
		locks:     lm,
		engine:    engine,
		jwtSecret: jwtSecret,
		logger:    logger.With("module", "room"),
		rooms:     make(map[string]map[*Participant]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Join subscribes p to a room. The joining participant receives the room's
// full lock snapshot before any live event, so there is no window where a
// lock exists that the client cannot render. The snapshot is taken and
// enqueued while the hub mutex is held: a lock granted on another
// connection either lands in the snapshot or its object-locked broadcast
// queues behind it, never ahead. deliver does not block, so holding the
// mutex here is safe. Peers get a join notice.
func (h *Hub) Join(ctx context.Context, p *Participant, roomID string) {
	h.mu.Lock()
	members := h.rooms[roomID]
	if members == nil {
		members = make(map[*Participant]struct{})
		h.rooms[roomID] = members
	}
	members[p] = struct{}{}
	p.joinRoom(roomID)
	p.deliver(wire.EventInitLocks, wire.InitLocks(h.locks.Snapshot(roomID)))
	h.mu.Unlock()

	h.broadcast(roomID, p, wire.EventSysMsg, "User "+shortID(p.ID)+" joined the room.")
	h.logger.Info(ctx, "participant joined", "room", roomID, "conn", p.ID)
}

// Leave removes p from every room it joined and releases all its locks,
// broadcasting an unlock per released object.
func (h *Hub) Leave(ctx context.Context, p *Participant) {
	h.mu.Lock()
	for roomID := range p.rooms {
		if members := h.rooms[roomID]; members != nil {
			delete(members, p)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	h.mu.Unlock()

	for _, rel := range h.locks.ReleaseAllFor(p.ID) {
		h.broadcast(rel.Room, p, wire.EventObjectUnlocked, wire.LockState{ObjectID: rel.ObjectID})
	}
	h.logger.Info(ctx, "participant left", "conn", p.ID)
}

// HandleRequestLock runs the grant/deny protocol for one object.
func (h *Hub) HandleRequestLock(ctx context.Context, p *Participant, req wire.LockRequest) {
	res := h.locks.Request(req.BoardID, req.ObjectID, p.ID)
	if !res.Granted {
		p.deliver(wire.EventLockDenied, wire.LockResult{ObjectID: req.ObjectID, Holder: res.Holder})
		return
	}
	p.deliver(wire.EventLockAcquired, wire.LockResult{ObjectID: req.ObjectID})
	h.broadcast(req.BoardID, p, wire.EventObjectLocked, wire.LockState{ObjectID: req.ObjectID, UserID: p.ID})
}

// HandleReleaseLock releases a lock held by p. Foreign releases are ignored
// inside the lock manager and produce no broadcast.
func (h *Hub) HandleReleaseLock(ctx context.Context, p *Participant, req wire.LockRequest) {
	if h.locks.Release(req.BoardID, req.ObjectID, p.ID) {
		h.broadcast(req.BoardID, p, wire.EventObjectUnlocked, wire.LockState{ObjectID: req.ObjectID})
	}
}

// HandleDraw gates, relays and persists one draw event.
//
// The sender never receives its own echo; exclusion at the relay is the
// mechanism that prevents feedback loops, so clients need no echo
// suppression of their own. Persistence runs after the relay and its
// failure is logged, never propagated: availability of the live session
// wins over persisted consistency.
func (h *Hub) HandleDraw(ctx context.Context, p *Participant, d wire.Draw) {
	if d.RoomID == "" {
		return
	}

	delta, err := board.ParseDelta(d.Action, d.Data)
	if err != nil {
		h.logger.Warn(ctx, "rejecting malformed draw", "room", d.RoomID, "conn", p.ID, "err", err)
		return
	}

	level, _ := auth.LevelFromToken(d.Token, h.jwtSecret)
	if level == auth.LevelGuest && !delta.Action.GuestAllowed() {
		// Fail closed: drop without broadcast, persistence, or a reply to
		// the violator.
		h.logger.Warn(ctx, "security: blocked unauthorized action from guest",
			"room", d.RoomID, "conn", p.ID, "action", d.Action)
		return
	}

	h.broadcast(d.RoomID, p, wire.EventDraw, wire.Draw{RoomID: d.RoomID, Action: d.Action, Data: d.Data})

	if !delta.Action.Persistent() {
		return
	}
	if err := h.engine.Apply(ctx, d.RoomID, delta); err != nil {
		h.logger.Error(ctx, "delta persistence failed", "room", d.RoomID, "action", d.Action, "err", err)
	}

	if h.archiver != nil && delta.Action == board.ActionRefresh {
		if err := h.archiver.ArchiveSnapshot(ctx, d.RoomID, delta.Document); err != nil {
			h.logger.Warn(ctx, "snapshot archive failed", "room", d.RoomID, "err", err)
		}
	}
}

// broadcast sends an event to every room member except origin.
func (h *Hub) broadcast(roomID string, origin *Participant, event string, payload any) {
	env, err := wire.NewEnvelope(event, payload)
	if err != nil {
		h.logger.Error(context.Background(), "encoding broadcast", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for member := range h.rooms[roomID] {
		if member == origin {
			continue
		}
		member.send(env)
	}
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}
