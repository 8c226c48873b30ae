package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"maternal-health-backend/cache"
	"maternal-health-backend/config"
	"maternal-health-backend/controllers"
	"maternal-health-backend/database"
	"maternal-health-backend/middleware"
	"maternal-health-backend/services"
)

const version = "1.0.0"

// Dependencies are the process-wide resources the routes are built on.
// Messages may be nil when storage is disabled.
type Dependencies struct {
	Config   *config.Config
	Log      *logrus.Logger
	Cache    *cache.Cache
	Messages services.MessageRepository
	Metrics  prometheus.Gatherer
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.CORS(cfg.Security.AllowedOrigins))

	// Initialize services
	ghoClient := services.NewGHOClient(cfg.WHO, deps.Log)
	resolver := services.NewIndicatorResolver(ghoClient, deps.Cache)
	fetcher := services.NewIndicatorFetcher(ghoClient, deps.Cache)
	maternalService := services.NewMaternalService(resolver, fetcher, deps.Log)
	referenceService := services.NewReferenceService()
	chatbotService := services.NewChatbotService(maternalService, referenceService, deps.Messages,
		cfg.WHO.DefaultCountry, cfg.WHO.SeriesPoints, deps.Log)

	// Initialize controllers
	chatbotController := controllers.NewChatbotController(chatbotService)
	whoController := controllers.NewWHOController(maternalService)
	referenceController := controllers.NewReferenceController(referenceService)
	wsController := controllers.NewWebSocketController(chatbotService, cfg.Security.AllowedOrigins, deps.Log)

	router.GET("/health", healthCheck)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	api.Use(middleware.RateLimit(cfg.Security.RateLimitPerMin, cfg.Security.RateLimitBurst, deps.Log))
	{
		api.POST("/chat", chatbotController.HandleChat)
		api.GET("/who/maternal", whoController.GetMaternal)

		api.GET("/health-centers", referenceController.GetHealthCenters)
		api.GET("/emergency-contacts", referenceController.GetEmergencyContacts)
		api.GET("/pregnancy-info/:week", referenceController.GetPregnancyInfo)
	}

	v1 := api.Group("/v1")
	{
		v1.POST("/chat", chatbotController.HandleChat)
		v1.GET("/chat/history", chatbotController.GetChatHistory)
		v1.GET("/chat/categories", chatbotController.GetSupportedCategories)

		// WebSocket for real-time chat
		v1.GET("/ws", wsController.HandleWebSocket)
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",
			"path":  c.Request.URL.Path,
		})
	})
}

func healthCheck(c *gin.Context) {
	dbStatus := "ok"
	if err := database.HealthCheck(c.Request.Context()); err != nil {
		if errors.Is(err, database.ErrNoDatabase) {
			dbStatus = "disabled"
		} else {
			dbStatus = "unavailable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Maternal Health API is running",
		"timestamp": time.Now().UTC(),
		"version":   version,
		"database":  dbStatus,
	})
}
