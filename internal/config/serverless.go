package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// lambdaWritableDir is the only writable directory inside a Lambda sandbox.
const lambdaWritableDir = "/tmp"

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// LogFields describes the deployment for startup log lines.
func (s *ServerlessConfig) LogFields() logrus.Fields {
	fields := logrus.Fields{"mode": GetDeploymentMode(), "stage": s.Stage}
	if s.IsLambda {
		fields["function"] = s.FunctionName
		fields["region"] = s.Region
	}
	return fields
}

func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless moves relative data paths under /tmp and keeps
// one connection per function instance.
func AdaptConfigForServerless(config *Config) *Config {
	if config.Store.Driver != "postgres" {
		config.Store.DSN = underWritableDir(config.Store.DSN)
	}
	config.Store.JSONPath = underWritableDir(config.Store.JSONPath)
	config.Storage.LocalPath = underWritableDir(config.Storage.LocalPath)

	config.Store.MaxOpenConns = 1
	config.Store.MaxIdleConns = 1
	return config
}

func underWritableDir(path string) string {
	if path == "" || filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	return filepath.Join(lambdaWritableDir, filepath.Clean(path))
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	if IsServerlessMode() {
		config = AdaptConfigForServerless(config)
	}
	return config, nil
}
