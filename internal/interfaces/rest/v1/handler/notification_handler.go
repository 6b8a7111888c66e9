package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
	"go-mission-hub/internal/interfaces/rest/middleware"
)

// NotificationHandler exposes the durable notification feed.
type NotificationHandler struct {
	store  *storage.Store
	logger logger.Logger
}

func NewNotificationHandler(store *storage.Store, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		store:  store,
		logger: log.WithField("handler", "notification"),
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.store.NotificationsByBrawler(c.Request.Context(), middleware.BrawlerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.MarkNotificationRead(c.Request.Context(), id, middleware.BrawlerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.store.MarkAllNotificationsRead(c.Request.Context(), middleware.BrawlerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *NotificationHandler) Clear(c *gin.Context) {
	if err := h.store.ClearNotifications(c.Request.Context(), middleware.BrawlerID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
