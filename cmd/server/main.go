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
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/config"
	"artisans-hub-api/internal/handlers"
	"artisans-hub-api/internal/metrics"
	"artisans-hub-api/internal/middleware"
	"artisans-hub-api/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := config.NewLogger(cfg)

	container, err := server.NewContainerWithLogger(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	routerConfig := &handlers.RouterConfig{
		Handler:       handlers.NewFromContainer(container),
		UploadsPath:   cfg.Storage.URLPrefix,
		EnableSwagger: !cfg.IsProduction(),
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.StructuredLogger(logger))
	if cfg.Metrics.Enabled {
		m := metrics.New()
		router.Use(middleware.Metrics(m))
		routerConfig.MetricsPath = cfg.Metrics.Path
		routerConfig.MetricsHandler = m.Handler()
	}
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigin))
	router.Use(middleware.RateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, logger))
	// base64 inflates uploads by a third; leave room for the JSON envelope.
	router.Use(middleware.RequestSizeLimit(int64(cfg.Storage.MaxUploadBytes)*4/3 + 64<<10))

	handlers.SetupRoutes(router, routerConfig)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithFields(config.GetServerlessConfig().LogFields()).WithFields(logrus.Fields{
		"port":  cfg.Port,
		"store": container.Store.Driver(),
	}).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
