package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"maternal-health-backend/cache"
	"maternal-health-backend/config"
	"maternal-health-backend/database"
	"maternal-health-backend/logger"
	"maternal-health-backend/metrics"
	"maternal-health-backend/routes"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	cfg := config.Get()
	log := logger.New(cfg)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := database.Connect(cfg, log); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Disconnect(log); err != nil {
			log.WithError(err).Error("Failed to disconnect database")
		}
	}()

	deps := routes.Dependencies{
		Config: cfg,
		Log:    log,
	}
	if db := database.GetMongoDB(); db != nil {
		deps.Messages = database.NewMessageRepository(db)
	}

	// WHO lookups share one cache for the life of the process
	redisClient := cache.NewRedisClient(cfg.Cache, log)
	whoCache, err := cache.New(cache.Options{TTL: cfg.Cache.TTL, MaxEntries: cfg.Cache.MaxEntries}, redisClient, log)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}
	defer whoCache.Close()
	if redisClient != nil {
		defer redisClient.Close()
	}
	deps.Cache = whoCache

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)
	deps.Metrics = registry

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.Fatalf("Invalid TRUSTED_PROXIES: %v", err)
		}
	}

	// Setup all routes
	routes.SetupRoutes(router, deps)

	logAvailableEndpoints(log, router)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.WHO.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on port %s", cfg.Port)
		log.Infof("Health check: http://localhost:%s/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server exited")
}

// logAvailableEndpoints logs all registered routes
func logAvailableEndpoints(log logrus.FieldLogger, router *gin.Engine) {
	for _, route := range router.Routes() {
		log.Debugf("  %s %s", route.Method, route.Path)
	}
}
