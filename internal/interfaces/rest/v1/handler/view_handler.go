package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
)

// ViewHandler serves the public, read-only mission surface.
type ViewHandler struct {
	store  *storage.Store
	logger logger.Logger
}

func NewViewHandler(store *storage.Store, log logger.Logger) *ViewHandler {
	return &ViewHandler{
		store:  store,
		logger: log.WithField("handler", "view"),
	}
}

func (h *ViewHandler) List(c *gin.Context) {
	missions, err := h.store.ListMissions(c.Request.Context(), c.Query("status"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, missions)
}

func (h *ViewHandler) Get(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	mission, err := h.store.GetMission(c.Request.Context(), missionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, mission)
}

func (h *ViewHandler) Crew(c *gin.Context) {
	missionID, ok := pathID(c, "mission_id")
	if !ok {
		return
	}

	crew, err := h.store.Crew(c.Request.Context(), missionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, crew)
}
