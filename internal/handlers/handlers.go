package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/adapters/storage"
	"artisans-hub-api/internal/repositories"
	"artisans-hub-api/internal/services"
	"artisans-hub-api/pkg/lambda"
	"artisans-hub-api/pkg/server"
)

// Allowed method lists advertised in CORS preflight responses.
const (
	MethodsGet  = "GET, OPTIONS"
	MethodsPost = "POST, OPTIONS"
)

// HealthMessage is returned by the health endpoint.
const HealthMessage = "ArtisansHub Backend API is running"

// Config controls response decoration.
type Config struct {
	// AllowedOrigin is sent as Access-Control-Allow-Origin.
	AllowedOrigin string

	// ImageURLPrefix is joined with a stored filename to build image_url.
	ImageURLPrefix string
}

// Dependencies are the collaborators a Handler delegates to. Store and
// Images are optional; without them health skips the store check and
// uploads are not served.
type Dependencies struct {
	Listing  services.ListingService
	Analysis services.AnalysisService
	Store    repositories.Store
	Images   storage.FileStorage
	Logger   *logrus.Logger
}

// Handler serves the marketplace endpoints. Each Handle* method works on the
// framework-agnostic lambda.Request so the same code runs behind API Gateway
// and gin.
type Handler struct {
	deps   Dependencies
	config Config
	logger *logrus.Logger
	now    func() time.Time
}

// New creates a handler
func New(deps Dependencies, config Config) *Handler {
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	if config.ImageURLPrefix == "" {
		config.ImageURLPrefix = "/uploads"
	}
	return &Handler{
		deps:   deps,
		config: config,
		logger: deps.Logger,
		now:    time.Now,
	}
}

// NewFromContainer wires a handler to the container's services
func NewFromContainer(c *server.Container) *Handler {
	return New(Dependencies{
		Listing:  c.ListingService,
		Analysis: c.AnalysisService,
		Store:    c.Store,
		Images:   c.Images,
		Logger:   c.Logger,
	}, Config{
		AllowedOrigin:  c.Config.CORS.AllowedOrigin,
		ImageURLPrefix: c.Config.Storage.URLPrefix,
	})
}

// CORSHeaders returns the JSON and CORS headers sent with every response of
// an endpoint allowing methods. Lambda entry points pass them to lambda.Adapt
// so adapter-level errors carry them too.
func CORSHeaders(origin, methods string) map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  origin,
		"Access-Control-Allow-Methods": methods,
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

func (h *Handler) corsHeaders(methods string) map[string]string {
	return CORSHeaders(h.config.AllowedOrigin, methods)
}

// preflight answers OPTIONS with an empty 200.
func (h *Handler) preflight(methods string) *lambda.Response {
	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers:    h.corsHeaders(methods),
		Body:       []byte{},
	}
}

func (h *Handler) jsonResponse(status int, methods string, payload interface{}) (*lambda.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal response")
		return h.errorResponse(methods, http.StatusInternalServerError, "Failed to marshal response"), nil
	}
	return &lambda.Response{
		StatusCode: status,
		Headers:    h.corsHeaders(methods),
		Body:       body,
	}, nil
}

func (h *Handler) errorResponse(methods string, status int, message string) *lambda.Response {
	body, _ := json.Marshal(ErrorResponse{Success: false, Message: message})
	return &lambda.Response{
		StatusCode: status,
		Headers:    h.corsHeaders(methods),
		Body:       body,
	}
}

// fail maps err to its status. Server-side failures get internalPrefix
// in front of the error text.
func (h *Handler) fail(methods string, err error, internalPrefix string) (*lambda.Response, error) {
	status := statusFor(err)
	message := messageFor(err)
	if status == http.StatusInternalServerError {
		message = internalPrefix + err.Error()
	}
	return h.errorResponse(methods, status, message), nil
}
