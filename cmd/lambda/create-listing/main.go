package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/config"
	"artisans-hub-api/internal/handlers"
	"artisans-hub-api/pkg/lambda"
	"artisans-hub-api/pkg/server"
)

func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := config.NewLogger(cfg)

	cm := lambda.NewConfiguredManager(cfg, logger)
	route := cm.Handle(func(c *server.Container) lambda.HandlerFunc {
		return handlers.NewFromContainer(c).HandleCreateListing
	})

	awslambda.Start(lambda.Adapt(route, logger, handlers.CORSHeaders(cfg.CORS.AllowedOrigin, handlers.MethodsPost)))
}
