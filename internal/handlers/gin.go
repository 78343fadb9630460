package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"artisans-hub-api/pkg/lambda"
)

// serveGin runs a lambda-style handler for a gin request.
func (h *Handler) serveGin(c *gin.Context, fn lambda.HandlerFunc) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Success: false, Message: "Request body too large"})
			return
		}
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.Request.Header.Get(name)
	}

	query := make(map[string]string)
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	resp, err := fn(c.Request.Context(), &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  params,
	})
	if err != nil || resp == nil {
		h.logger.WithError(err).Error("Handler failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Message: "Internal server error"})
		return
	}

	for name, value := range resp.Headers {
		c.Header(name, value)
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
}

// @Summary Health check
// @Description Reports that the API is running
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 405 {object} ErrorResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	h.serveGin(c, h.HandleHealth)
}

// @Summary List products
// @Description All products, newest first, each with its seller
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	h.serveGin(c, h.HandleProducts)
}

// @Summary Upload and analyze an image
// @Description Stores a base64 data URL image and suggests a category, description and price range
// @Tags products
// @Accept json
// @Produce json
// @Param upload body services.AnalyzeRequest true "Image as a data URL"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /upload-analyze [post]
func (h *Handler) UploadAnalyze(c *gin.Context) {
	h.serveGin(c, h.HandleUploadAnalyze)
}

// @Summary Create a listing
// @Description Stores a product, creating the seller on first use of a mobile number
// @Tags products
// @Accept json
// @Produce json
// @Param listing body services.CreateListingRequest true "Listing data"
// @Success 201 {object} CreateListingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /create-listing [post]
func (h *Handler) CreateListing(c *gin.Context) {
	h.serveGin(c, h.HandleCreateListing)
}

// ServeUpload returns a stored image.
func (h *Handler) ServeUpload(c *gin.Context) {
	h.serveGin(c, h.HandleUpload)
}
