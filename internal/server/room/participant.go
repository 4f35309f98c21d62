package room

import (
	"github.com/rs/xid"

	"github.com/dmitrijs2005/drawboard/internal/wire"
)

// sendBuffer bounds the per-participant outbound queue. A participant that
// cannot drain it loses messages rather than stalling the room.
const sendBuffer = 256

// Participant is one live connection. Its ID doubles as the lock holder id.
type Participant struct {
	ID string

	// Out delivers envelopes to the transport write pump.
	Out chan wire.Envelope

	// rooms is guarded by the hub mutex.
	rooms map[string]struct{}

	dropped func()
}

func NewParticipant() *Participant {
	return &Participant{
		ID:    xid.New().String(),
		Out:   make(chan wire.Envelope, sendBuffer),
		rooms: make(map[string]struct{}),
	}
}

func (p *Participant) joinRoom(roomID string) {
	p.rooms[roomID] = struct{}{}
}

// send enqueues without blocking; a full queue drops the envelope.
func (p *Participant) send(env wire.Envelope) {
	select {
	case p.Out <- env:
	default:
		if p.dropped != nil {
			p.dropped()
		}
	}
}

// deliver marshals and enqueues one event for this participant only.
func (p *Participant) deliver(event string, payload any) {
	env, err := wire.NewEnvelope(event, payload)
	if err != nil {
		return
	}
	p.send(env)
}
