package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/application/notify"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
	"go-mission-hub/internal/interfaces/rest/middleware"
)

// CrewHandler covers joining, leaving and listing crew memberships.
// Fan-out runs strictly after the mutation committed and its outcome
// never changes the HTTP response.
type CrewHandler struct {
	store      *storage.Store
	dispatcher *notify.Dispatcher
	logger     logger.Logger
}

func NewCrewHandler(store *storage.Store, dispatcher *notify.Dispatcher, log logger.Logger) *CrewHandler {
	return &CrewHandler{
		store:      store,
		dispatcher: dispatcher,
		logger:     log.WithField("handler", "crew"),
	}
}

func (h *CrewHandler) Join(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}
	brawlerID := middleware.BrawlerID(c)

	if err := h.store.JoinCrew(c.Request.Context(), missionID, brawlerID); err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.CrewJoined(c.Request.Context(), missionID, brawlerID)
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "status": "joined"})
}

func (h *CrewHandler) Leave(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}
	brawlerID := middleware.BrawlerID(c)

	if err := h.store.LeaveCrew(c.Request.Context(), missionID, brawlerID); err != nil {
		abortWithError(c, err)
		return
	}

	h.dispatcher.CrewLeft(c.Request.Context(), missionID, brawlerID)
	c.JSON(http.StatusOK, gin.H{"mission_id": missionID, "status": "left"})
}

func (h *CrewHandler) MyMissions(c *gin.Context) {
	missions, err := h.store.JoinedMissions(c.Request.Context(), middleware.BrawlerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}
