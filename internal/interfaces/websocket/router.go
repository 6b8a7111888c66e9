package websocket

import (
	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/infrastructure/auth"
	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
)

// InitWebSocketRouter mounts the two connection paths under /ws.
func InitWebSocketRouter(log logger.Logger, registry *hub.Registry, authorizer auth.Authorizer, mailboxSize int, rg *gin.RouterGroup) {
	handler := NewHandler(registry, authorizer, mailboxSize, log)

	wsGroup := rg.Group("/ws")
	wsGroup.GET("/mission/:mission_id", handler.ConnectMission)
	wsGroup.GET("/global", handler.ConnectGlobal)
}
