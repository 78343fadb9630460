package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/services"
	"artisans-hub-api/pkg/lambda"
)

// CreateListingResponse is returned when a listing is stored
type CreateListingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ProductID int64  `json:"product_id"`
}

// HandleCreateListing stores a product, creating its seller on first use of
// a mobile number.
func (h *Handler) HandleCreateListing(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch req.Method {
	case http.MethodOptions:
		return h.preflight(MethodsPost), nil
	case http.MethodPost:
	default:
		return h.fail(MethodsPost, ErrMethodNotAllowed, "")
	}

	var createReq services.CreateListingRequest
	if err := json.Unmarshal(req.Body, &createReq); err != nil {
		return h.fail(MethodsPost, ErrInvalidBody, "")
	}

	product, err := h.deps.Listing.CreateListing(ctx, &createReq)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.WithError(err).Error("Failed to create listing")
		}
		return h.fail(MethodsPost, err, "Database error: ")
	}

	h.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"seller_id":  product.SellerID,
	}).Info("Listing created via API")

	return h.jsonResponse(http.StatusCreated, MethodsPost, CreateListingResponse{
		Success:   true,
		Message:   "Listing created successfully",
		ProductID: product.ID,
	})
}
