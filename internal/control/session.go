package control

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pablodealeht/windowdeck/internal/metrics"
)

// Session owns the full lifecycle of one control connection: it blocks for
// the next inbound frame, dispatches it, and writes the response when one is
// produced. Frames are handled strictly one at a time, in arrival order.
type Session struct {
	id         uuid.UUID
	conn       *websocket.Conn
	dispatcher *Dispatcher
}

func NewSession(conn *websocket.Conn, dispatcher *Dispatcher) *Session {
	return &Session{
		id:         uuid.New(),
		conn:       conn,
		dispatcher: dispatcher,
	}
}

// Run processes frames until the client closes the connection or the
// transport fails. Command failures are logged and the loop continues;
// gorilla's default close handler answers the close handshake before the
// read returns.
func (s *Session) Run(ctx context.Context) {
	metrics.ActiveSessions.Inc()
	defer metrics.ActiveSessions.Dec()
	defer s.conn.Close()

	slog.Info("Control session started", "conn_id", s.id)

	for {
		msgType, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Info("Control session closed", "conn_id", s.id)
			} else {
				slog.Warn("Control session terminated", "conn_id", s.id, "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		response, err := s.dispatch(ctx, payload)
		if err != nil {
			slog.Error("Command handling failed", "conn_id", s.id, "error", err)
			continue
		}
		if response == nil {
			continue
		}

		if err := s.conn.WriteMessage(websocket.TextMessage, response); err != nil {
			slog.Warn("Failed to write response frame", "conn_id", s.id, "error", err)
			return
		}
	}
}

// dispatch contains handler panics so a single bad frame cannot take the
// session down with it.
func (s *Session) dispatch(ctx context.Context, payload []byte) (response []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command handler panicked: %v", r)
		}
	}()
	return s.dispatcher.Dispatch(ctx, payload)
}
