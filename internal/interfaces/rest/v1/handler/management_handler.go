package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/application/notify"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
	"go-mission-hub/internal/interfaces/rest/middleware"
)

// ManagementHandler covers creating, editing and removing missions.
type ManagementHandler struct {
	store      *storage.Store
	dispatcher *notify.Dispatcher
	logger     logger.Logger
}

func NewManagementHandler(store *storage.Store, dispatcher *notify.Dispatcher, log logger.Logger) *ManagementHandler {
	return &ManagementHandler{
		store:      store,
		dispatcher: dispatcher,
		logger:     log.WithField("handler", "mission-management"),
	}
}

func (h *ManagementHandler) Add(c *gin.Context) {
	var model storage.AddMission
	if err := c.ShouldBindJSON(&model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission payload"})
		return
	}

	missionID, err := h.store.CreateMission(c.Request.Context(), middleware.BrawlerID(c), model)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mission_id": missionID})
}

func (h *ManagementHandler) Edit(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	var model storage.EditMission
	if err := c.ShouldBindJSON(&model); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission payload"})
		return
	}

	if err := h.store.EditMission(c.Request.Context(), missionID, middleware.BrawlerID(c), model); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID})
}

// Remove deletes a mission. Mission context and roster are captured
// before the delete so the crew can still be notified afterwards.
func (h *ManagementHandler) Remove(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}
	actorID := middleware.BrawlerID(c)
	ctx := c.Request.Context()

	mission, missionErr := h.store.GetMission(ctx, missionID)
	crew, crewErr := h.store.Crew(ctx, missionID)

	if err := h.store.DeleteMission(ctx, missionID, actorID); err != nil {
		abortWithError(c, err)
		return
	}

	if missionErr == nil && crewErr == nil {
		h.dispatcher.MissionDeleted(ctx, mission, crew, actorID)
	}
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "status": "removed"})
}
