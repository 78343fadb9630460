package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/config"
	"artisans-hub-api/internal/handlers"
	"artisans-hub-api/pkg/lambda"
)

// Health needs no store, so it stays up when the data layer is down.
func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := config.NewLogger(cfg)

	h := handlers.New(handlers.Dependencies{Logger: logger}, handlers.Config{
		AllowedOrigin:  cfg.CORS.AllowedOrigin,
		ImageURLPrefix: cfg.Storage.URLPrefix,
	})

	awslambda.Start(lambda.Adapt(h.HandleHealth, logger, handlers.CORSHeaders(cfg.CORS.AllowedOrigin, handlers.MethodsGet)))
}
