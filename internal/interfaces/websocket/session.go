package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingPeriod   = 54 * time.Second
	maxFrameSize = 4096
)

// session runs the bidirectional pump for one accepted connection: the
// read loop drains control frames and detects disconnects, the write
// loop drains the hub mailbox onto the transport. Both loops deregister
// on exit; deregistration is idempotent so whichever loop dies first
// wins and the other follows.
type session struct {
	ws       *websocket.Conn
	conn     *hub.Connection
	registry *hub.Registry
	logger   logger.Logger
}

func newSession(ws *websocket.Conn, conn *hub.Connection, registry *hub.Registry, log logger.Logger) *session {
	return &session{
		ws:       ws,
		conn:     conn,
		registry: registry,
		logger:   log.WithField("connection_id", conn.ID()),
	}
}

// run blocks until the session ends.
func (s *session) run() {
	go s.writePump()
	s.readPump()
}

func (s *session) readPump() {
	defer func() {
		s.registry.Deregister(s.conn.ID())
		s.ws.Close()
	}()

	s.ws.SetReadLimit(maxFrameSize)
	s.ws.SetReadDeadline(time.Now().Add(pongTimeout))
	s.ws.SetPongHandler(func(string) error {
		s.ws.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		// Inbound frames are liveness only; payloads are discarded.
		if _, _, err := s.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure,
			) {
				s.logger.Warnf("websocket read error: %v", err)
			}
			return
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.registry.Deregister(s.conn.ID())
		s.ws.Close()
	}()

	for {
		select {
		case env, ok := <-s.conn.Mailbox():
			s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Mailbox closed: deregistered, overflowed, or shutdown.
				s.ws.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				)
				return
			}
			if err := s.ws.WriteJSON(env); err != nil {
				s.logger.Warnf("websocket write error: %v", err)
				return
			}

		case <-ticker.C:
			s.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
