package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/application/notify"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
	"go-mission-hub/internal/interfaces/rest/middleware"
)

// MissionHandler covers status transitions and kicking crew members.
type MissionHandler struct {
	store      *storage.Store
	dispatcher *notify.Dispatcher
	logger     logger.Logger
}

func NewMissionHandler(store *storage.Store, dispatcher *notify.Dispatcher, log logger.Logger) *MissionHandler {
	return &MissionHandler{
		store:      store,
		dispatcher: dispatcher,
		logger:     log.WithField("handler", "mission"),
	}
}

func (h *MissionHandler) InProgress(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	err := h.store.TransitionStatus(c.Request.Context(), missionID, middleware.BrawlerID(c), storage.StatusInProgress)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.MissionStarted(c.Request.Context(), missionID)
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "status": storage.StatusInProgress})
}

func (h *MissionHandler) ToCompleted(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	err := h.store.TransitionStatus(c.Request.Context(), missionID, middleware.BrawlerID(c), storage.StatusCompleted)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.MissionCompleted(c.Request.Context(), missionID)
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "status": storage.StatusCompleted})
}

func (h *MissionHandler) ToFailed(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	err := h.store.TransitionStatus(c.Request.Context(), missionID, middleware.BrawlerID(c), storage.StatusFailed)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.MissionFailed(c.Request.Context(), missionID)
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "status": storage.StatusFailed})
}

func (h *MissionHandler) Kick(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}
	brawlerID, ok := pathID(c, "brawler_id")
	if !ok {
		return
	}

	if err := h.store.KickCrew(c.Request.Context(), missionID, brawlerID, middleware.BrawlerID(c)); err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.BrawlerKicked(c.Request.Context(), missionID, brawlerID)
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "kicked": brawlerID})
}
