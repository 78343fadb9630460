package storage

import (
	"context"
	"os"
	"testing"
)

func TestFactory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "storage_factory_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	tests := []struct {
		name    string
		config  *StorageConfig
		wantErr bool
	}{
		{"local", &StorageConfig{Type: "local", BasePath: tempDir}, false},
		{"mock", &StorageConfig{Type: "MOCK"}, false},
		{"unknown", &StorageConfig{Type: "s3"}, true},
		{"nil config", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, err := DefaultFactory().Create(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer storage.Close()

			ctx := context.Background()
			if err := storage.Store(ctx, "f.jpeg", []byte("jpeg"), nil); err != nil {
				t.Fatalf("Store failed: %v", err)
			}
			if info, err := storage.Stat(ctx, "f.jpeg"); err != nil || info.Size != 4 {
				t.Errorf("Stat() = %+v, %v; want 4 bytes", info, err)
			}
		})
	}
}
