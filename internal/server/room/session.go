package room

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/drawboard/internal/logging"
	"github.com/dmitrijs2005/drawboard/internal/wire"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The board is joinable from any origin; access control happens at the
	// draw gate, not at the handshake.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Session pumps one websocket connection in and out of the hub.
type Session struct {
	hub    *Hub
	conn   *websocket.Conn
	p      *Participant
	logger logging.Logger
}

// ServeWS upgrades the request and runs the connection until it closes.
func ServeWS(hub *Hub, logger logging.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn(r.Context(), "websocket upgrade failed", "err", err)
		return
	}

	p := NewParticipant()
	s := &Session{
		hub:    hub,
		conn:   conn,
		p:      p,
		logger: logger.With("module", "session", "conn", p.ID),
	}
	p.dropped = func() {
		s.logger.Warn(context.Background(), "outbound queue full, dropping event")
	}

	go s.writePump()
	s.readPump()
}

// readPump decodes envelopes and dispatches them until the connection
// drops, then detaches the participant (releasing its locks).
func (s *Session) readPump() {
	ctx := context.Background()
	defer func() {
		s.hub.Leave(ctx, s.p)
		_ = s.conn.Close()
		close(s.p.Out)
	}()

	s.conn.SetReadLimit(1 << 20)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var env wire.Envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn(ctx, "read error", "err", err)
			}
			return
		}
		s.dispatch(ctx, env)
	}
}

func (s *Session) dispatch(ctx context.Context, env wire.Envelope) {
	switch env.Event {
	case wire.EventJoin:
		var p wire.Join
		// join historically carries either {"roomId": ...} or a bare string.
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.RoomID == "" {
			var roomID string
			if err := json.Unmarshal(env.Payload, &roomID); err != nil || roomID == "" {
				return
			}
			p.RoomID = roomID
		}
		s.hub.Join(ctx, s.p, p.RoomID)

	case wire.EventRequestLock:
		var req wire.LockRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return
		}
		s.hub.HandleRequestLock(ctx, s.p, req)

	case wire.EventReleaseLock:
		var req wire.LockRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return
		}
		s.hub.HandleReleaseLock(ctx, s.p, req)

	case wire.EventDraw:
		var d wire.Draw
		if err := json.Unmarshal(env.Payload, &d); err != nil {
			return
		}
		s.hub.HandleDraw(ctx, s.p, d)

	default:
		s.logger.Debug(ctx, "ignoring unknown event", "event", env.Event)
	}
}

// writePump serializes outbound envelopes and keeps the connection alive
// with pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case env, ok := <-s.p.Out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(env); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
