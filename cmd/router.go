package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/application/notify"
	"go-mission-hub/internal/infrastructure/auth"
	"go-mission-hub/internal/infrastructure/config"
	"go-mission-hub/internal/infrastructure/hub"
	"go-mission-hub/internal/infrastructure/logger"
	"go-mission-hub/internal/infrastructure/storage"
	"go-mission-hub/internal/interfaces/rest/middleware"
	"go-mission-hub/internal/interfaces/rest/v1/handler"
	"go-mission-hub/internal/interfaces/sse"
	"go-mission-hub/internal/interfaces/websocket"
)

func InitRouter(
	cfg *config.Config,
	registry *hub.Registry,
	dispatcher *notify.Dispatcher,
	store *storage.Store,
	authorizer auth.Authorizer,
	log logger.Logger,
) http.Handler {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/hub/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"connections": registry.Len(),
		})
	})

	api := router.Group("/api")
	authRequired := middleware.Auth(authorizer)

	viewHandler := handler.NewViewHandler(store, log)
	viewGroup := api.Group("/view")
	{
		viewGroup.GET("", viewHandler.List)
		viewGroup.GET("/:mission_id", viewHandler.Get)
		viewGroup.GET("/:mission_id/crew", viewHandler.Crew)
	}

	crewHandler := handler.NewCrewHandler(store, dispatcher, log)
	crewGroup := api.Group("/crew", authRequired)
	{
		crewGroup.POST("/join/:mission_id", crewHandler.Join)
		crewGroup.DELETE("/leave/:mission_id", crewHandler.Leave)
		crewGroup.GET("/my-missions", crewHandler.MyMissions)
	}

	missionHandler := handler.NewMissionHandler(store, dispatcher, log)
	missionGroup := api.Group("/mission", authRequired)
	{
		missionGroup.PATCH("/in-progress/:mission_id", missionHandler.InProgress)
		missionGroup.PATCH("/to-completed/:mission_id", missionHandler.ToCompleted)
		missionGroup.PATCH("/to-failed/:mission_id", missionHandler.ToFailed)
		missionGroup.PATCH("/kick/:mission_id/:brawler_id", missionHandler.Kick)
	}

	managementHandler := handler.NewManagementHandler(store, dispatcher, log)
	managementGroup := api.Group("/mission-management", authRequired)
	{
		managementGroup.POST("", managementHandler.Add)
		managementGroup.PATCH("/:mission_id", managementHandler.Edit)
		managementGroup.DELETE("/:mission_id", managementHandler.Remove)
	}

	commentHandler := handler.NewCommentHandler(store, dispatcher, log)
	commentGroup := api.Group("/comment", authRequired)
	{
		commentGroup.GET("/:mission_id", commentHandler.List)
		commentGroup.POST("/:mission_id", commentHandler.Add)
		commentGroup.DELETE("/:mission_id", commentHandler.Clear)
	}

	notificationHandler := handler.NewNotificationHandler(store, log)
	notificationGroup := api.Group("/notifications", authRequired)
	{
		notificationGroup.GET("", notificationHandler.List)
		notificationGroup.PATCH("/mark-all-read", notificationHandler.MarkAllRead)
		notificationGroup.PATCH("/:id/read", notificationHandler.MarkRead)
		notificationGroup.DELETE("", notificationHandler.Clear)
	}

	websocket.InitWebSocketRouter(log, registry, authorizer, cfg.MailboxSize, api)
	sse.InitSSERouter(log, registry, authorizer, cfg.MailboxSize, api)

	return router
}
