package session

import (
	"context"

	"github.com/dmitrijs2005/drawboard/internal/board"
	"github.com/dmitrijs2005/drawboard/internal/client/eraser"
	"github.com/dmitrijs2005/drawboard/internal/client/guard"
	"github.com/dmitrijs2005/drawboard/internal/client/history"
	"github.com/dmitrijs2005/drawboard/internal/client/store"
	"github.com/dmitrijs2005/drawboard/internal/common"
	"github.com/dmitrijs2005/drawboard/internal/wire"
)

// erasedOpacity is the ghosting applied to shapes a live eraser gesture
// has touched but not yet committed.
const erasedOpacity = 0.3

// Add records a newly drawn shape and announces it to the room.
func (s *Session) Add(sh store.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.st.Has(sh.ID) {
		return nil
	}
	s.st.Add(sh)
	s.engine.Insert(sh)
	if s.guard.Idle() {
		s.stack.Record(history.Add{Shape: sh})
	}
	return s.sendDelta(board.Add(sh.ToObject()))
}

// Modify replaces a shape's attributes and announces the change. The
// previous state lands on the undo stack.
func (s *Session) Modify(after store.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.st.Get(after.ID)
	if !ok {
		return common.ErrNotFound
	}
	s.st.Replace(after)
	s.engine.Insert(after)
	if s.guard.Idle() {
		s.stack.Record(history.Modify{Before: before, After: after})
	}
	return s.sendDelta(board.Modify(after.ToObject()))
}

// Remove deletes a shape and announces the removal.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.st.Get(id)
	if !ok {
		return common.ErrNotFound
	}
	s.st.Remove(id)
	s.engine.Forget(id)
	if s.guard.Idle() {
		s.stack.Record(history.Remove{Shape: sh})
	}
	return s.sendDelta(board.Remove(id))
}

// Clear wipes the board and announces the empty document.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.st.List()
	if len(before) == 0 {
		return nil
	}
	s.st.Clear()
	s.engine.Rebuild()
	if s.guard.Idle() {
		s.stack.Record(history.Clear{Before: before})
	}
	return s.sendDelta(board.Refresh(s.st.Snapshot()))
}

// Undo replays the most recent applicable edit in reverse and announces
// the result. Stale edits superseded by other participants are skipped.
func (s *Session) Undo() history.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	release := s.guard.Enter(guard.UndoRedoing)
	defer release()

	res := s.stack.Undo(s.st, s)
	if res.Outcome == history.Applied {
		s.engine.Rebuild()
	}
	return res
}

// Redo replays the most recently undone edit.
func (s *Session) Redo() history.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	release := s.guard.Enter(guard.UndoRedoing)
	defer release()

	res := s.stack.Redo(s.st, s)
	if res.Outcome == history.Applied {
		s.engine.Rebuild()
	}
	return res
}

// Erase is one in-progress eraser gesture.
type Erase struct {
	s       *Session
	g       *eraser.Gesture
	release func()
}

// BeginErase starts an eraser gesture at p. The gesture batches until
// End, so the whole sweep undoes as one step.
func (s *Session) BeginErase(p store.Point) *Erase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Erase{
		s:       s,
		g:       s.engine.Begin(p),
		release: s.guard.Enter(guard.Batching),
	}
}

// Move extends the stroke to p. Newly touched shapes are ghosted
// locally; nothing leaves the client until End.
func (e *Erase) Move(p store.Point) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	for _, sh := range e.g.Move(p) {
		e.s.st.SetOpacity(sh.ID, erasedOpacity)
	}
}

// End commits the gesture: touched shapes are removed, each removal is
// announced, and the batch is recorded as a single undoable command.
func (e *Erase) End() ([]store.Shape, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	erased := e.g.End()
	e.release()

	var firstErr error
	for _, sh := range erased {
		e.s.st.Remove(sh.ID)
		e.s.engine.Forget(sh.ID)
		if err := e.s.sendDelta(board.Remove(sh.ID)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(erased) > 0 && e.s.guard.Idle() {
		e.s.stack.Record(history.BatchRemove{Shapes: erased})
	}
	return erased, firstErr
}

// LoadDocument replaces the whole board with doc, drops local history,
// and announces the new content as a refresh.
func (s *Session) LoadDocument(doc *board.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.Load(doc)
	s.engine.Rebuild()
	s.stack.Reset()
	return s.sendDelta(board.Refresh(doc))
}

// Publish sends doc to the room as an authoritative refresh without
// touching the local collection, used to push metadata changes such as
// share settings.
func (s *Session) Publish(doc *board.Document) error {
	return s.sendDelta(board.Refresh(doc))
}

// EmitModify implements history.Emitter: an in-place undo or redo
// travels as a plain modify.
func (s *Session) EmitModify(sh store.Shape) {
	if err := s.sendDelta(board.Modify(sh.ToObject())); err != nil {
		s.log.Warn(context.Background(), "emitting modify failed", "object", sh.ID, "error", err)
	}
}

// EmitRefresh implements history.Emitter: membership changes after
// skipping stale commands reconcile via a full snapshot.
func (s *Session) EmitRefresh(st *store.Store) {
	if err := s.sendDelta(board.Refresh(st.Snapshot())); err != nil {
		s.log.Warn(context.Background(), "emitting refresh failed", "error", err)
	}
}

// EmitTransient streams a live position or stroke preview, rate-limited
// so drag and draw events do not flood the room.
func (s *Session) EmitTransient(action board.Action, sh store.Shape) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastTransient) < common.TransientSendInterval {
		return nil
	}
	s.lastTransient = now
	return s.sendDelta(board.Delta{Action: action, Object: sh.ToObject(), ObjectID: sh.ID})
}

func (s *Session) sendDelta(d board.Delta) error {
	data, err := d.EncodeData()
	if err != nil {
		return err
	}
	return s.send(wire.EventDraw, wire.Draw{
		RoomID: s.roomID,
		Action: string(d.Action),
		Data:   data,
		Token:  s.token,
	})
}

// send frames and writes one envelope. The write mutex keeps concurrent
// callers off the connection; the websocket allows only one writer.
func (s *Session) send(event string, payload any) error {
	env, err := wire.NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteJSON(env)
}
