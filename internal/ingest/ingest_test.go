package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"regexp"
	"strings"
	"testing"

	"artisans-hub-api/internal/adapters/storage"
)

var filenamePattern = regexp.MustCompile(`^[0-9a-f]{32}\.(jpeg|png|webp|gif)$`)

func newLocalIngestor(t *testing.T, maxBytes int) (*Ingestor, *storage.LocalFileStorage) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "ingest_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	fs, err := storage.NewLocalFileStorage(tempDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return New(fs, maxBytes, nil), fs
}

func TestIngestRoundTrip(t *testing.T) {
	ingestor, fs := newLocalIngestor(t, 0)
	ctx := context.Background()
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	tests := []struct {
		header  string
		wantExt string
	}{
		{"data:image/jpeg;base64", ".jpeg"},
		{"data:image/png;base64", ".png"},
		{"data:image/webp;base64", ".webp"},
		{"data:image/gif;base64", ".gif"},
		{"garbage-header", ".jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			encoded := tt.header + "," + base64.StdEncoding.EncodeToString(payload)

			filename, err := ingestor.Ingest(ctx, encoded)
			if err != nil {
				t.Fatalf("Ingest() failed: %v", err)
			}
			if !filenamePattern.MatchString(filename) {
				t.Errorf("filename %q does not look like <hex>.<ext>", filename)
			}
			if !strings.HasSuffix(filename, tt.wantExt) {
				t.Errorf("filename %q, want extension %s", filename, tt.wantExt)
			}

			stored, err := fs.Retrieve(ctx, filename)
			if err != nil {
				t.Fatalf("Retrieve() failed: %v", err)
			}
			if string(stored) != string(payload) {
				t.Errorf("stored bytes = %v, want %v", stored, payload)
			}
		})
	}
}

func TestIngestUniqueFilenames(t *testing.T) {
	ingestor, _ := newLocalIngestor(t, 0)
	encoded := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("img"))

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		name, err := ingestor.Ingest(context.Background(), encoded)
		if err != nil {
			t.Fatalf("Ingest() failed: %v", err)
		}
		if seen[name] {
			t.Fatalf("duplicate filename %s", name)
		}
		seen[name] = true
	}
}

func TestIngestInvalidData(t *testing.T) {
	ingestor, fs := newLocalIngestor(t, 8)

	tests := []struct {
		name    string
		encoded string
	}{
		{"no comma", "bm9jb21tYQ=="},
		{"empty string", ""},
		{"bad base64", "data:image/png;base64,!!!not-base64!!!"},
		{"empty payload", "data:image/png;base64,"},
		{"too large", "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, 9))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ingestor.Ingest(context.Background(), tt.encoded)
			if !errors.Is(err, ErrInvalidImageData) {
				t.Errorf("Ingest() error = %v, want ErrInvalidImageData", err)
			}
		})
	}

	entries, err := os.ReadDir(fs.BasePath())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected payloads left %d files behind", len(entries))
	}
}

func TestIngestStorageFailure(t *testing.T) {
	mock := storage.NewMockFileStorage()
	mock.FailWith = errors.New("disk full")
	ingestor := New(mock, 0, nil)

	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	_, err := ingestor.Ingest(context.Background(), encoded)
	if err == nil {
		t.Fatal("expected storage failure")
	}
	if errors.Is(err, ErrInvalidImageData) {
		t.Errorf("storage failure should not be reported as invalid data: %v", err)
	}
	var storageErr *storage.StorageError
	if !errors.As(err, &storageErr) {
		t.Errorf("expected wrapped StorageError, got %T", err)
	}
}

// shortWriteStorage reports one byte fewer than was stored.
type shortWriteStorage struct {
	*storage.MockFileStorage
}

func (s shortWriteStorage) Stat(ctx context.Context, key string) (*storage.ImageInfo, error) {
	info, err := s.MockFileStorage.Stat(ctx, key)
	if err != nil {
		return nil, err
	}
	info.Size--
	return info, nil
}

func TestIngestRemovesUnverifiedWrite(t *testing.T) {
	mock := storage.NewMockFileStorage()
	ingestor := New(shortWriteStorage{mock}, 0, nil)
	ingestor.newID = func() string { return "fixed" }
	ctx := context.Background()

	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	if _, err := ingestor.Ingest(ctx, encoded); err == nil {
		t.Fatal("expected verification failure")
	}
	if _, err := mock.Retrieve(ctx, "fixed.png"); !storage.IsNotFound(err) {
		t.Errorf("truncated image left in storage: %v", err)
	}
}

func TestMediaTypeAndExtension(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"data:image/PNG;base64", "image/png"},
		{"data:image/jpeg;base64", "image/jpeg"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MediaType(tt.header); got != tt.want {
			t.Errorf("MediaType(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
	if Extension("image/tiff") != ".jpeg" {
		t.Error("unknown media types should default to .jpeg")
	}
}
