package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"artisans-hub-api/internal/adapters/storage"
	"artisans-hub-api/internal/oracle"
	"artisans-hub-api/internal/services"
	"artisans-hub-api/pkg/lambda"
)

// AnalyzeResponse is the upload-analyze success payload
type AnalyzeResponse struct {
	Success           bool                   `json:"success"`
	Analysis          services.Analysis      `json:"analysis"`
	AIDescription     string                 `json:"ai_description"`
	PricingSuggestion oracle.PriceSuggestion `json:"pricing_suggestion"`
	ImageFilename     string                 `json:"image_filename"`
}

// HandleUploadAnalyze stores the uploaded image and returns the suggested
// category, description and price range.
func (h *Handler) HandleUploadAnalyze(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch req.Method {
	case http.MethodOptions:
		return h.preflight(MethodsPost), nil
	case http.MethodPost:
	default:
		return h.fail(MethodsPost, ErrMethodNotAllowed, "")
	}

	var analyzeReq services.AnalyzeRequest
	if len(req.Body) > 0 {
		if err := json.Unmarshal(req.Body, &analyzeReq); err != nil {
			return h.fail(MethodsPost, ErrInvalidBody, "")
		}
	}

	result, err := h.deps.Analysis.Analyze(ctx, &analyzeReq)
	if err != nil {
		return h.fail(MethodsPost, err, "An internal error occurred: ")
	}

	return h.jsonResponse(http.StatusOK, MethodsPost, AnalyzeResponse{
		Success:           true,
		Analysis:          result.Analysis,
		AIDescription:     result.AIDescription,
		PricingSuggestion: result.PricingSuggestion,
		ImageFilename:     result.ImageFilename,
	})
}

// HandleUpload serves a stored image named by the "filename" path parameter.
func (h *Handler) HandleUpload(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch req.Method {
	case http.MethodOptions:
		return h.preflight(MethodsGet), nil
	case http.MethodGet:
	default:
		return h.fail(MethodsGet, ErrMethodNotAllowed, "")
	}

	if h.deps.Images == nil {
		return h.fail(MethodsGet, storage.ErrFileNotFound, "")
	}

	filename := strings.TrimPrefix(req.PathParams["filename"], "/")
	info, err := h.deps.Images.Stat(ctx, filename)
	if err != nil {
		return h.uploadReadFailed(filename, err)
	}
	data, err := h.deps.Images.Retrieve(ctx, filename)
	if err != nil {
		return h.uploadReadFailed(filename, err)
	}

	headers := h.corsHeaders(MethodsGet)
	headers["Content-Type"] = storage.ContentTypeFor(filename)
	headers["Content-Length"] = fmt.Sprint(len(data))
	headers["Cache-Control"] = "public, max-age=31536000, immutable"
	if !info.LastModified.IsZero() {
		headers["Last-Modified"] = info.LastModified.UTC().Format(http.TimeFormat)
	}

	return &lambda.Response{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       data,
	}, nil
}

func (h *Handler) uploadReadFailed(filename string, err error) (*lambda.Response, error) {
	if statusFor(err) == http.StatusInternalServerError {
		h.logger.WithError(err).WithField("filename", filename).Error("Failed to read upload")
	}
	return h.fail(MethodsGet, err, "Failed to read image: ")
}
