package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/application/notify"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
	"go-mission-hub/internal/interfaces/rest/middleware"
)

// CommentHandler covers mission chat: history, posting and clearing.
type CommentHandler struct {
	store      *storage.Store
	dispatcher *notify.Dispatcher
	logger     logger.Logger
}

type addCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewCommentHandler(store *storage.Store, dispatcher *notify.Dispatcher, log logger.Logger) *CommentHandler {
	return &CommentHandler{
		store:      store,
		dispatcher: dispatcher,
		logger:     log.WithField("handler", "comment"),
	}
}

func (h *CommentHandler) List(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	comments, err := h.store.CommentsByMission(c.Request.Context(), missionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) Add(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	comment, err := h.store.AddComment(c.Request.Context(), missionID, middleware.BrawlerID(c), req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.CommentAdded(c.Request.Context(), comment)
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) Clear(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	if err := h.store.ClearComments(c.Request.Context(), missionID, middleware.BrawlerID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.ChatCleared(missionID)
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "status": "cleared"})
}
