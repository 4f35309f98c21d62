// Package locks implements soft per-object mutual exclusion within a room.
// Locks expire lazily: a lock older than the TTL is treated as absent the
// next time it is evaluated, so no background timer is needed.
package locks

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/drawboard/internal/common"
)

// Lock is a TTL-bounded claim of one holder on one object.
type Lock struct {
	ObjectID   string
	HolderID   string
	AcquiredAt time.Time
}

// Result is the outcome of a lock request.
type Result struct {
	Granted bool
	// Holder identifies the current holder when the request is denied.
	Holder string
}

// Released names one lock dropped by ReleaseAllFor.
type Released struct {
	Room     string
	ObjectID string
}

// Manager owns the per-room lock tables. The zero value is not usable; use
// NewManager. All methods are safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]map[string]Lock
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects the time source, for deterministic TTL tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithTTL overrides the default lock TTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rooms: make(map[string]map[string]Lock),
		ttl:   common.DefaultLockTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) live(l Lock, now time.Time) bool {
	return now.Sub(l.AcquiredAt) < m.ttl
}

// Request grants the lock when it is free, expired, or already held by the
// requester (restamping AcquiredAt in every granted case). A live lock held
// by someone else is a denial reporting the holder; denial is an expected
// outcome, not an error.
func (m *Manager) Request(room, objectID, holderID string) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	table := m.rooms[room]
	if table == nil {
		table = make(map[string]Lock)
		m.rooms[room] = table
	}

	if cur, ok := table[objectID]; ok && cur.HolderID != holderID && m.live(cur, now) {
		return Result{Granted: false, Holder: cur.HolderID}
	}

	table[objectID] = Lock{ObjectID: objectID, HolderID: holderID, AcquiredAt: now}
	return Result{Granted: true}
}

// Release drops the lock if and only if holderID matches the recorded
// holder. Releases by any other identity are silently ignored so a stale
// client cannot clear someone else's lock. Returns whether a lock was
// actually released.
func (m *Manager) Release(room, objectID, holderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	table := m.rooms[room]
	if table == nil {
		return false
	}
	cur, ok := table[objectID]
	if !ok || cur.HolderID != holderID {
		return false
	}
	delete(table, objectID)
	return true
}

// Snapshot returns the live locks of a room as objectId → holderId. Expired
// entries are dropped from the table while building the snapshot.
func (m *Manager) Snapshot(room string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := make(map[string]string)
	for objectID, l := range m.rooms[room] {
		if !m.live(l, now) {
			delete(m.rooms[room], objectID)
			continue
		}
		out[objectID] = l.HolderID
	}
	return out
}

// ReleaseAllFor drops every lock held by holderID across all rooms, as
// happens on disconnect, and reports what was released so each drop can be
// broadcast as an unlock event.
func (m *Manager) ReleaseAllFor(holderID string) []Released {
	m.mu.Lock()
	defer m.mu.Unlock()

	var released []Released
	for room, table := range m.rooms {
		for objectID, l := range table {
			if l.HolderID != holderID {
				continue
			}
			delete(table, objectID)
			released = append(released, Released{Room: room, ObjectID: objectID})
		}
	}
	return released
}
