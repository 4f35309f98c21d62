package room

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/logging"
	"github.com/dmitrijs2005/drawboard/internal/server/auth"
	"github.com/dmitrijs2005/drawboard/internal/server/locks"
	"github.com/dmitrijs2005/drawboard/internal/server/merge"
	"github.com/dmitrijs2005/drawboard/internal/server/repositories/boards"
	"github.com/dmitrijs2005/drawboard/internal/wire"
)

var testSecret = []byte("hub-test-secret")

func newTestHub(t *testing.T) (*Hub, boards.Repository) {
	t.Helper()
	repo := boards.NewInMemoryRepository()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	engine := merge.NewEngine(repo, logger)
	lm := locks.NewManager()
	return NewHub(lm, engine, testSecret, logger), repo
}

// drain empties the participant queue and returns the received envelopes.
func drain(p *Participant) []wire.Envelope {
	var out []wire.Envelope
	for {
		select {
		case env := <-p.Out:
			out = append(out, env)
		default:
			return out
		}
	}
}

func eventsOf(envs []wire.Envelope) []string {
	var names []string
	for _, e := range envs {
		names = append(names, e.Event)
	}
	return names
}

func authedToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("u1", testSecret, time.Minute)
	require.NoError(t, err)
	return token
}

func drawPayload(t *testing.T, action string, data any, token string) wire.Draw {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return wire.Draw{RoomID: "r1", Action: action, Data: raw, Token: token}
}

func TestJoin_DeliversLockSnapshotFirst(t *testing.T) {
	h, _ := newTestHub(t)
	ctx := context.Background()

	alice := NewParticipant()
	h.Join(ctx, alice, "r1")
	h.HandleRequestLock(ctx, alice, wire.LockRequest{BoardID: "r1", ObjectID: "obj1"})
	drain(alice)

	bob := NewParticipant()
	h.Join(ctx, bob, "r1")

	envs := drain(bob)
	require.NotEmpty(t, envs)
	assert.Equal(t, wire.EventInitLocks, envs[0].Event, "lock snapshot precedes any live event")

	var snap wire.InitLocks
	require.NoError(t, json.Unmarshal(envs[0].Payload, &snap))
	assert.Equal(t, wire.InitLocks{"obj1": alice.ID}, snap)
}

func TestHandleDraw_RelayExcludesOriginator(t *testing.T) {
	h, _ := newTestHub(t)
	ctx := context.Background()

	alice, bob := NewParticipant(), NewParticipant()
	h.Join(ctx, alice, "r1")
	h.Join(ctx, bob, "r1")
	drain(alice)
	drain(bob)

	h.HandleDraw(ctx, alice, drawPayload(t, "add", board.Object{"id": "a"}, ""))

	assert.Empty(t, drain(alice), "sender must not receive its own echo")

	envs := drain(bob)
	require.Len(t, envs, 1)
	assert.Equal(t, wire.EventDraw, envs[0].Event)
}

func TestHandleDraw_PersistsStructuralOnly(t *testing.T) {
	h, repo := newTestHub(t)
	ctx := context.Background()

	alice := NewParticipant()
	h.Join(ctx, alice, "r1")

	h.HandleDraw(ctx, alice, drawPayload(t, "add", board.Object{"id": "a"}, ""))
	h.HandleDraw(ctx, alice, drawPayload(t, "moving", board.Object{"id": "a", "left": 3.0}, ""))

	doc, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, doc.Objects, 1)
	assert.Nil(t, doc.Objects[0]["left"], "transient moving delta must not be persisted")
}

func TestHandleDraw_GuestGating(t *testing.T) {
	tests := []struct {
		action  string
		relayed bool
	}{
		{"add", true},
		{"drawing", true},
		{"modify", true},
		{"moving", true},
		{"remove", false},
		{"refresh", false},
	}

	for _, tc := range tests {
		t.Run(tc.action, func(t *testing.T) {
			h, repo := newTestHub(t)
			ctx := context.Background()

			guest, peer := NewParticipant(), NewParticipant()
			h.Join(ctx, guest, "r1")
			h.Join(ctx, peer, "r1")

			// Seed one object so remove/refresh would have an effect.
			h.HandleDraw(ctx, peer, drawPayload(t, "add", board.Object{"id": "a"}, authedToken(t)))
			drain(guest)
			drain(peer)

			var payload wire.Draw
			switch tc.action {
			case "remove":
				payload = drawPayload(t, "remove", map[string]string{"id": "a"}, "")
			case "refresh":
				payload = drawPayload(t, "refresh", board.NewDocument(), "")
			default:
				payload = drawPayload(t, tc.action, board.Object{"id": "g1"}, "")
			}
			h.HandleDraw(ctx, guest, payload)

			envs := drain(peer)
			if tc.relayed {
				require.Len(t, envs, 1)
			} else {
				assert.Empty(t, envs, "blocked action must not reach peers")
				assert.Empty(t, drain(guest), "violator gets no explicit rejection")

				doc, err := repo.Get(ctx, "r1")
				require.NoError(t, err)
				require.Len(t, doc.Objects, 1, "persisted document must be unchanged")
				assert.Equal(t, "a", doc.Objects[0].ID())
			}
		})
	}
}

func TestHandleDraw_AuthenticatedRemovePersists(t *testing.T) {
	h, repo := newTestHub(t)
	ctx := context.Background()

	alice := NewParticipant()
	h.Join(ctx, alice, "r1")

	token := authedToken(t)
	h.HandleDraw(ctx, alice, drawPayload(t, "add", board.Object{"id": "a"}, token))
	h.HandleDraw(ctx, alice, drawPayload(t, "remove", map[string]string{"id": "a"}, token))

	doc, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, doc.Objects)
}

func TestLockLifecycleBroadcasts(t *testing.T) {
	h, _ := newTestHub(t)
	ctx := context.Background()

	alice, bob := NewParticipant(), NewParticipant()
	h.Join(ctx, alice, "r1")
	h.Join(ctx, bob, "r1")
	drain(alice)
	drain(bob)

	h.HandleRequestLock(ctx, alice, wire.LockRequest{BoardID: "r1", ObjectID: "obj1"})
	assert.Equal(t, []string{wire.EventLockAcquired}, eventsOf(drain(alice)))
	assert.Equal(t, []string{wire.EventObjectLocked}, eventsOf(drain(bob)))

	h.HandleRequestLock(ctx, bob, wire.LockRequest{BoardID: "r1", ObjectID: "obj1"})
	envs := drain(bob)
	require.Len(t, envs, 1)
	assert.Equal(t, wire.EventLockDenied, envs[0].Event)

	var res wire.LockResult
	require.NoError(t, json.Unmarshal(envs[0].Payload, &res))
	assert.Equal(t, alice.ID, res.Holder)

	h.HandleReleaseLock(ctx, alice, wire.LockRequest{BoardID: "r1", ObjectID: "obj1"})
	assert.Equal(t, []string{wire.EventObjectUnlocked}, eventsOf(drain(bob)))
}

func TestLeave_ReleasesLocksAndBroadcastsUnlocks(t *testing.T) {
	h, _ := newTestHub(t)
	ctx := context.Background()

	alice, bob := NewParticipant(), NewParticipant()
	h.Join(ctx, alice, "r1")
	h.Join(ctx, bob, "r1")
	h.HandleRequestLock(ctx, alice, wire.LockRequest{BoardID: "r1", ObjectID: "obj1"})
	h.HandleRequestLock(ctx, alice, wire.LockRequest{BoardID: "r1", ObjectID: "obj2"})
	drain(alice)
	drain(bob)

	h.Leave(ctx, alice)

	envs := drain(bob)
	require.Len(t, envs, 2)
	for _, env := range envs {
		assert.Equal(t, wire.EventObjectUnlocked, env.Event)
	}

	// The released objects are immediately lockable by someone else.
	h.HandleRequestLock(ctx, bob, wire.LockRequest{BoardID: "r1", ObjectID: "obj1"})
	assert.Equal(t, []string{wire.EventLockAcquired}, eventsOf(drain(bob)))
}

func TestHandleDraw_MalformedAndUnknownDropped(t *testing.T) {
	h, _ := newTestHub(t)
	ctx := context.Background()

	alice, bob := NewParticipant(), NewParticipant()
	h.Join(ctx, alice, "r1")
	h.Join(ctx, bob, "r1")
	drain(alice)
	drain(bob)

	h.HandleDraw(ctx, alice, wire.Draw{RoomID: "r1", Action: "explode", Data: json.RawMessage(`{}`), Token: authedToken(t)})
	h.HandleDraw(ctx, alice, wire.Draw{RoomID: "r1", Action: "add", Data: json.RawMessage(`{broken`)})

	assert.Empty(t, drain(bob))
}
