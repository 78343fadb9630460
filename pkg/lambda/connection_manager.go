package lambda

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/config"
	"artisans-hub-api/pkg/server"
)

// staleAfter is how long an idle container is trusted without a store check.
// Frozen Lambda sandboxes can come back with dead database connections.
const staleAfter = 5 * time.Minute

// ConnectionManager keeps one service container alive across warm invocations
type ConnectionManager struct {
	mu        sync.RWMutex
	container *server.Container
	lastUsed  time.Time
	loadCfg   func() (*config.Config, error)
	build     func(*config.Config) (*server.Container, error)
}

// NewConfiguredManager builds containers from an already loaded configuration
// and logger. Lambda entry points load both once at cold start.
func NewConfiguredManager(cfg *config.Config, logger *logrus.Logger) *ConnectionManager {
	return NewConnectionManager(
		func() (*config.Config, error) { return cfg, nil },
		func(c *config.Config) (*server.Container, error) {
			return server.NewContainerWithLogger(c, logger)
		},
	)
}

// NewConnectionManager creates a manager that loads configuration and builds
// its container lazily on first use.
func NewConnectionManager(loadCfg func() (*config.Config, error), build func(*config.Config) (*server.Container, error)) *ConnectionManager {
	return &ConnectionManager{loadCfg: loadCfg, build: build}
}

// GetContainer returns the service container, initializing if necessary. A
// failed initialization is retried on the next call.
func (cm *ConnectionManager) GetContainer(ctx context.Context) (*server.Container, error) {
	if !cm.IsHealthy() {
		cm.revalidate(ctx)
	}

	cm.mu.RLock()
	if c := cm.container; c != nil {
		cm.mu.RUnlock()
		cm.UpdateLastUsed()
		return c, nil
	}
	cm.mu.RUnlock()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container != nil {
		cm.lastUsed = time.Now()
		return cm.container, nil
	}

	cfg, err := cm.loadCfg()
	if err != nil {
		return nil, err
	}
	container, err := cm.build(cfg)
	if err != nil {
		return nil, err
	}

	cm.container = container
	cm.lastUsed = time.Now()

	if container.Logger != nil {
		container.Logger.WithFields(config.GetServerlessConfig().LogFields()).Info("Service container initialized")
	}
	return container, nil
}

// revalidate checks the store of an idle container and drops the container
// when the check fails, so the next GetContainer reconnects.
func (cm *ConnectionManager) revalidate(ctx context.Context) {
	cm.mu.RLock()
	container := cm.container
	cm.mu.RUnlock()

	if container == nil || container.Store == nil {
		return
	}
	err := container.Store.Health(ctx)
	if err == nil {
		return
	}

	logger := container.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger.WithError(err).Warn("Idle container failed store check, rebuilding")
	if err := cm.Cleanup(); err != nil {
		logger.WithError(err).Warn("Failed to close stale container")
	}
}

// IsHealthy reports whether a container exists and was used recently
func (cm *ConnectionManager) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.container == nil {
		return false
	}
	return time.Since(cm.lastUsed) < staleAfter
}

// Cleanup closes the container; the next GetContainer builds a fresh one
func (cm *ConnectionManager) Cleanup() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.container == nil {
		return nil
	}
	err := cm.container.Close()
	cm.container = nil
	return err
}

// UpdateLastUsed updates the last used timestamp
func (cm *ConnectionManager) UpdateLastUsed() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.lastUsed = time.Now()
}

// Handle resolves the container and passes it to route. It is the usual
// body of a function's entry point.
func (cm *ConnectionManager) Handle(route func(*server.Container) HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) (*Response, error) {
		container, err := cm.GetContainer(ctx)
		if err != nil {
			return nil, err
		}
		return route(container)(ctx, req)
	}
}
