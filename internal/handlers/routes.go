package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	Handler *Handler

	// UploadsPath is where stored images are served, e.g. "/uploads".
	UploadsPath string

	EnableSwagger bool

	// MetricsPath serves MetricsHandler when both are set.
	MetricsPath    string
	MetricsHandler http.Handler
}

// SetupRoutes registers the API under /api. Every endpoint answers all
// verbs so unsupported ones get the JSON 405 body.
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	h := config.Handler

	if config.EnableSwagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if config.MetricsHandler != nil && config.MetricsPath != "" {
		router.GET(config.MetricsPath, gin.WrapH(config.MetricsHandler))
	}

	api := router.Group("/api")
	{
		api.Any("/health", h.Health)
		api.Any("/products", h.ListProducts)
		api.Any("/upload-analyze", h.UploadAnalyze)
		api.Any("/create-listing", h.CreateListing)
	}

	uploadsPath := "/" + strings.Trim(config.UploadsPath, "/")
	if uploadsPath == "/" {
		uploadsPath = "/uploads"
	}
	router.GET(uploadsPath+"/:filename", h.ServeUpload)
	router.OPTIONS(uploadsPath+"/:filename", h.ServeUpload)
}
