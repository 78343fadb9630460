package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

const (
	internalErrorBody = `{"success": false, "message": "Internal server error"}`
	invalidBodyBody   = `{"success": false, "message": "Invalid request body"}`
)

// FromAPIGateway converts a proxy event into a Request, decoding base64 bodies.
func FromAPIGateway(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		body = decoded
	}

	method := event.HTTPMethod
	if method == "" {
		method = event.RequestContext.HTTPMethod
	}

	return &Request{
		Method:      strings.ToUpper(method),
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

// ToAPIGateway converts a Response into a proxy response. Non-UTF-8 bodies
// are sent base64 encoded.
func ToAPIGateway(resp *Response) events.APIGatewayProxyResponse {
	out := events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
	}
	if utf8.Valid(resp.Body) {
		out.Body = string(resp.Body)
	} else {
		out.Body = base64.StdEncoding.EncodeToString(resp.Body)
		out.IsBase64Encoded = true
	}
	return out
}

// APIGatewayHandler is the signature passed to lambda.Start.
type APIGatewayHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Adapt wraps h for API Gateway. Handler errors become a 500 response so the
// invocation itself never fails. headers decorate the responses Adapt builds
// itself; Content-Type is always JSON.
func Adapt(h HandlerFunc, logger *logrus.Logger, headers map[string]string) APIGatewayHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := FromAPIGateway(event)
		if err != nil {
			logger.WithError(err).Warn("Rejected malformed event")
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Headers:    errorHeaders(headers),
				Body:       invalidBodyBody,
			}, nil
		}

		resp, err := h(ctx, req)
		if err != nil || resp == nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.Path,
			}).Error("Handler failed")
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusInternalServerError,
				Headers:    errorHeaders(headers),
				Body:       internalErrorBody,
			}, nil
		}

		return ToAPIGateway(resp), nil
	}
}

func errorHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		out[k] = v
	}
	out["Content-Type"] = "application/json"
	return out
}
