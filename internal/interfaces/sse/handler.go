// Package sse exposes the authenticated notification stream over
// Server-Sent Events, for clients that cannot hold a WebSocket open.
// An SSE connection drains the same per-user mailbox as the global
// WebSocket path, so fan-out treats both identically.
package sse

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/infrastructure/auth"
	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
)

const keepAlivePeriod = 30 * time.Second

type Handler struct {
	registry    *hub.Registry
	authorizer  auth.Authorizer
	mailboxSize int
	logger      logger.Logger
}

func NewHandler(registry *hub.Registry, authorizer auth.Authorizer, mailboxSize int, log logger.Logger) *Handler {
	return &Handler{
		registry:    registry,
		authorizer:  authorizer,
		mailboxSize: mailboxSize,
		logger:      log.WithField("handler", "sse"),
	}
}

// Connect authorizes the caller, registers a user connection, and
// streams its mailbox until the client goes away or the connection is
// deregistered.
func (h *Handler) Connect(c *gin.Context) {
	brawlerID, err := h.authorizer.Authorize(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	conn := hub.NewUserConnection(brawlerID, h.mailboxSize)
	h.registry.Register(conn)
	defer h.registry.Deregister(conn.ID())

	h.logger.Infof("sse connection %s opened for brawler %d", conn.ID(), brawlerID)

	sse.Encode(w, sse.Event{
		Event: "connected",
		Data:  gin.H{"connection_id": conn.ID()},
	})
	w.Flush()

	keepAlive := time.NewTicker(keepAlivePeriod)
	defer keepAlive.Stop()

	for {
		select {
		case env, ok := <-conn.Mailbox():
			if !ok {
				return
			}
			if err := sse.Encode(w, sse.Event{Event: env.Type, Data: env.Data}); err != nil {
				h.logger.Warnf("sse write error: %v", err)
				return
			}
			w.Flush()

		case <-keepAlive.C:
			if err := sse.Encode(w, sse.Event{Event: "keepalive", Data: "ping"}); err != nil {
				return
			}
			w.Flush()

		case <-c.Request.Context().Done():
			h.logger.Infof("sse client disconnected %s", conn.ID())
			return
		}
	}
}
