package sse

import (
	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/infrastructure/auth"
	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
)

// InitSSERouter mounts the notification stream under /sse.
func InitSSERouter(log logger.Logger, registry *hub.Registry, authorizer auth.Authorizer, mailboxSize int, rg *gin.RouterGroup) {
	handler := NewHandler(registry, authorizer, mailboxSize, log)

	sseGroup := rg.Group("/sse")
	sseGroup.GET("/notifications", handler.Connect)
}
