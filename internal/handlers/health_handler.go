package handlers

import (
	"context"
	"net/http"
	"time"

	"artisans-hub-api/pkg/lambda"
)

// HealthResponse is the health endpoint payload
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Store     string `json:"store,omitempty"`
}

// HandleHealth reports liveness. A failing store is reported in the body
// but never changes the 200.
func (h *Handler) HandleHealth(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch req.Method {
	case http.MethodOptions:
		return h.preflight(MethodsGet), nil
	case http.MethodGet:
	default:
		return h.fail(MethodsGet, ErrMethodNotAllowed, "")
	}

	resp := HealthResponse{
		Status:    "healthy",
		Message:   HealthMessage,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	}

	if h.deps.Store != nil {
		resp.Store = "ok"
		if err := h.deps.Store.Health(ctx); err != nil {
			h.logger.WithError(err).Warn("Store health check failed")
			resp.Store = "error"
		}
	}

	return h.jsonResponse(http.StatusOK, MethodsGet, resp)
}
