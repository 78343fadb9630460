package handlers

import (
	"context"
	"net/http"

	"artisans-hub-api/internal/models"
	"artisans-hub-api/pkg/lambda"
)

// HandleProducts lists all products newest first, each with its seller.
func (h *Handler) HandleProducts(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch req.Method {
	case http.MethodOptions:
		return h.preflight(MethodsGet), nil
	case http.MethodGet:
	default:
		return h.fail(MethodsGet, ErrMethodNotAllowed, "")
	}

	products, err := h.deps.Listing.ListProducts(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		return h.fail(MethodsGet, err, "")
	}

	return h.jsonResponse(http.StatusOK, MethodsGet, models.ToResponses(products, h.config.ImageURLPrefix))
}
