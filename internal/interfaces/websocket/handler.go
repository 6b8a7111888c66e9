package websocket

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-mission-hub/internal/infrastructure/auth"
	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
)

// Handler upgrades HTTP requests into hub sessions: an anonymous
// room-scoped path per mission and an authenticated user-scoped path.
type Handler struct {
	registry    *hub.Registry
	authorizer  auth.Authorizer
	mailboxSize int
	logger      logger.Logger
	upgrader    websocket.Upgrader
}

func NewHandler(registry *hub.Registry, authorizer auth.Authorizer, mailboxSize int, log logger.Logger) *Handler {
	return &Handler{
		registry:    registry,
		authorizer:  authorizer,
		mailboxSize: mailboxSize,
		logger:      log.WithField("handler", "websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The API is CORS-open; origin checks belong to the
				// reverse proxy in production.
				return true
			},
		},
	}
}

// ConnectMission opens an anonymous room connection. Anyone may observe
// a mission room, no credentials required.
func (h *Handler) ConnectMission(c *gin.Context) {
	missionID, err := strconv.ParseInt(c.Param("mission_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("failed to upgrade connection: %v", err)
		return
	}

	conn := hub.NewRoomConnection(missionID, h.mailboxSize)
	h.registry.Register(conn)
	h.logger.Infof("room connection %s joined mission %d", conn.ID(), missionID)

	newSession(ws, conn, h.registry, h.logger).run()
	h.logger.Infof("room connection %s left mission %d", conn.ID(), missionID)
}

// ConnectGlobal opens an authenticated user connection. The token is a
// query parameter because browser WebSocket clients cannot set headers.
// Authorization failure rejects the handshake before any connection or
// registry entry exists.
func (h *Handler) ConnectGlobal(c *gin.Context) {
	brawlerID, err := h.authorizer.Authorize(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("failed to upgrade connection: %v", err)
		return
	}

	conn := hub.NewUserConnection(brawlerID, h.mailboxSize)
	h.registry.Register(conn)
	h.logger.Infof("user connection %s opened for brawler %d", conn.ID(), brawlerID)

	newSession(ws, conn, h.registry, h.logger).run()
	h.logger.Infof("user connection %s closed for brawler %d", conn.ID(), brawlerID)
}
