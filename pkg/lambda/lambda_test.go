package lambda

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/config"
	"artisans-hub-api/internal/repositories/docstore"
	"artisans-hub-api/pkg/server"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestFromAPIGateway(t *testing.T) {
	tests := []struct {
		name     string
		event    events.APIGatewayProxyRequest
		wantBody string
		wantErr  bool
	}{
		{
			name:     "plain body",
			event:    events.APIGatewayProxyRequest{HTTPMethod: "post", Path: "/api/create-listing", Body: `{"a":1}`},
			wantBody: `{"a":1}`,
		},
		{
			name: "base64 body",
			event: events.APIGatewayProxyRequest{
				HTTPMethod:      "POST",
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"image":"x"}`)),
				IsBase64Encoded: true,
			},
			wantBody: `{"image":"x"}`,
		},
		{
			name:    "corrupt base64 body",
			event:   events.APIGatewayProxyRequest{HTTPMethod: "POST", Body: "!!!", IsBase64Encoded: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := FromAPIGateway(tt.event)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FromAPIGateway() failed: %v", err)
			}
			if string(req.Body) != tt.wantBody {
				t.Errorf("Body = %q, want %q", req.Body, tt.wantBody)
			}
			if req.Method != "POST" {
				t.Errorf("Method = %s, want POST", req.Method)
			}
		})
	}
}

func TestRequestHeader(t *testing.T) {
	req := &Request{Headers: map[string]string{"content-type": "application/json"}}
	if got := req.Header("Content-Type"); got != "application/json" {
		t.Errorf("Header() = %q", got)
	}
	if got := req.Header("Origin"); got != "" {
		t.Errorf("Header(Origin) = %q, want empty", got)
	}
}

func TestToAPIGateway_BinaryBody(t *testing.T) {
	resp := ToAPIGateway(&Response{StatusCode: 200, Body: []byte{0xff, 0xd8, 0xff}})
	if !resp.IsBase64Encoded {
		t.Fatal("binary body should be base64 encoded")
	}
	if resp.Body != base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff}) {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestAdapt(t *testing.T) {
	ok := func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{StatusCode: 201, Body: req.Body}, nil
	}
	failing := func(ctx context.Context, req *Request) (*Response, error) {
		return nil, errors.New("boom")
	}

	resp, err := Adapt(ok, quietLogger(), nil)(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "POST", Body: "hi"})
	if err != nil || resp.StatusCode != 201 || resp.Body != "hi" {
		t.Errorf("Adapt(ok) = %+v, %v", resp, err)
	}

	resp, err = Adapt(failing, quietLogger(), nil)(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET"})
	if err != nil || resp.StatusCode != 500 {
		t.Errorf("Adapt(failing) = %+v, %v", resp, err)
	}

	cors := map[string]string{
		"Access-Control-Allow-Origin":  "https://example.test",
		"Access-Control-Allow-Methods": "POST, OPTIONS",
	}
	resp, _ = Adapt(ok, quietLogger(), cors)(context.Background(), events.APIGatewayProxyRequest{Body: "%%", IsBase64Encoded: true})
	if resp.StatusCode != 400 {
		t.Errorf("corrupt body status = %d, want 400", resp.StatusCode)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "https://example.test" || resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("corrupt body headers = %v", resp.Headers)
	}
	if !strings.Contains(resp.Body, `"success": false`) {
		t.Errorf("corrupt body = %s", resp.Body)
	}

	resp, _ = Adapt(failing, quietLogger(), cors)(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "POST"})
	if resp.Headers["Access-Control-Allow-Methods"] != "POST, OPTIONS" {
		t.Errorf("500 headers = %v", resp.Headers)
	}
	if _, ok := cors["Content-Type"]; ok {
		t.Error("Adapt must not modify the caller's header map")
	}
}

func TestConnectionManager(t *testing.T) {
	builds := 0
	loadErr := errors.New("no config")
	failLoad := true

	cm := NewConnectionManager(
		func() (*config.Config, error) {
			if failLoad {
				return nil, loadErr
			}
			return &config.Config{}, nil
		},
		func(*config.Config) (*server.Container, error) {
			builds++
			return &server.Container{}, nil
		},
	)

	if _, err := cm.GetContainer(context.Background()); !errors.Is(err, loadErr) {
		t.Fatalf("GetContainer() error = %v, want %v", err, loadErr)
	}
	if cm.IsHealthy() {
		t.Error("manager without container should be unhealthy")
	}

	failLoad = false
	first, err := cm.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() failed: %v", err)
	}
	second, _ := cm.GetContainer(context.Background())
	if first != second || builds != 1 {
		t.Errorf("container rebuilt: builds = %d", builds)
	}
	if !cm.IsHealthy() {
		t.Error("fresh container should be healthy")
	}

	if err := cm.Cleanup(); err != nil {
		t.Fatalf("Cleanup() failed: %v", err)
	}
	if _, err := cm.GetContainer(context.Background()); err != nil || builds != 2 {
		t.Errorf("after Cleanup: err = %v, builds = %d", err, builds)
	}
}

type flakyStore struct {
	*docstore.Store
	healthErr error
}

func (f *flakyStore) Health(ctx context.Context) error {
	return f.healthErr
}

func TestConnectionManager_RebuildsStaleContainer(t *testing.T) {
	store := &flakyStore{Store: docstore.NewMemory(quietLogger())}
	builds := 0
	cm := NewConnectionManager(
		func() (*config.Config, error) { return &config.Config{}, nil },
		func(*config.Config) (*server.Container, error) {
			builds++
			return &server.Container{Store: store, Logger: quietLogger()}, nil
		},
	)
	ctx := context.Background()

	if _, err := cm.GetContainer(ctx); err != nil {
		t.Fatalf("GetContainer() failed: %v", err)
	}

	// Idle but reachable: reused.
	cm.lastUsed = time.Now().Add(-2 * staleAfter)
	if cm.IsHealthy() {
		t.Error("idle container should report unhealthy")
	}
	if _, err := cm.GetContainer(ctx); err != nil || builds != 1 {
		t.Fatalf("reachable idle container rebuilt: err = %v, builds = %d", err, builds)
	}

	// Idle and unreachable: rebuilt.
	store.healthErr = errors.New("connection reset")
	cm.lastUsed = time.Now().Add(-2 * staleAfter)
	if _, err := cm.GetContainer(ctx); err != nil || builds != 2 {
		t.Errorf("stale container not rebuilt: err = %v, builds = %d", err, builds)
	}

	// Recently used containers are not checked.
	if _, err := cm.GetContainer(ctx); err != nil || builds != 2 {
		t.Errorf("fresh container rebuilt: err = %v, builds = %d", err, builds)
	}
}

func TestNewConfiguredManager(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "lambda_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg := &config.Config{}
	cfg.Store.Driver = "memory"
	cfg.Storage.Type = "mock"
	cfg.Storage.LocalPath = filepath.Join(tempDir, "uploads")
	logger := quietLogger()

	container, err := NewConfiguredManager(cfg, logger).GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer() failed: %v", err)
	}
	defer container.Close()

	if container.Logger != logger || container.Config != cfg {
		t.Error("container should use the configuration and logger it was given")
	}
}
