package storage

import (
	"context"
	"time"
)

// ImageInfo describes a stored upload.
type ImageInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
}

// StoreOptions controls how an upload is written.
type StoreOptions struct {
	ContentType string `json:"content_type,omitempty"`
	Overwrite   bool   `json:"overwrite,omitempty"`
}

// FileStorage holds uploaded product images keyed by filename.
type FileStorage interface {
	// Store writes data under key. Unless opts.Overwrite is set an
	// existing key yields ErrFileAlreadyExists.
	Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error

	Retrieve(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error

	Stat(ctx context.Context, key string) (*ImageInfo, error)

	Close() error
}

// StorageConfig selects and configures a FileStorage implementation.
type StorageConfig struct {
	Type     string `json:"type" mapstructure:"type"`           // "local" or "mock"
	BasePath string `json:"base_path" mapstructure:"base_path"` // local only
}
