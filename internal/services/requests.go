package services

import "artisans-hub-api/internal/oracle"

// CreateListingRequest is the create-listing body. Pointer fields let
// validation tell a missing key from an empty one.
type CreateListingRequest struct {
	SellerName     *string `json:"seller_name" validate:"required,notblank"`
	SellerMobile   *string `json:"seller_mobile" validate:"required,notblank"`
	SellerLocation *string `json:"seller_location" validate:"required,notblank"`
	Category       *string `json:"category" validate:"required,notblank"`
	Description    *string `json:"description" validate:"required,notblank"`
	Price          Price   `json:"price"`
	ImageFilename  *string `json:"image_filename" validate:"required,notblank"`
	AIGenerated    *bool   `json:"ai_generated,omitempty"`
}

// AnalyzeRequest is the upload-analyze body.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// Analysis is the placeholder classification of an upload.
type Analysis struct {
	PredictedCategory string  `json:"predicted_category"`
	Confidence        float64 `json:"confidence"`
}

// AnalyzeResult is returned for a successfully ingested upload.
type AnalyzeResult struct {
	Analysis          Analysis               `json:"analysis"`
	AIDescription     string                 `json:"ai_description"`
	PricingSuggestion oracle.PriceSuggestion `json:"pricing_suggestion"`
	ImageFilename     string                 `json:"image_filename"`
}

// requiredFieldOrder is the order missing fields are reported in.
var requiredFieldOrder = []string{
	"seller_name",
	"seller_mobile",
	"seller_location",
	"category",
	"description",
	"price",
	"image_filename",
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
