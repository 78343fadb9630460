// Package jsonfile persists the marketplace as one JSON document on disk.
// Every write replaces the file atomically (temp file + rename).
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/repositories"
	"artisans-hub-api/internal/repositories/docstore"
)

// Backend reads and writes the document at Path.
type Backend struct {
	Path   string
	logger *logrus.Logger
}

// New returns a store backed by the JSON document at path. The file is
// created on first write; its directory is created immediately.
func New(path string, logger *logrus.Logger) (*docstore.Store, error) {
	backend, err := NewBackend(path, logger)
	if err != nil {
		return nil, err
	}
	return docstore.New(repositories.DriverJSONFile, backend, logger), nil
}

// NewBackend prepares the directory holding path.
func NewBackend(path string, logger *logrus.Logger) (*Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("json data file path is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Backend{Path: absPath, logger: logger}, nil
}

// Load reads the document. A missing or empty file is an empty store.
func (b *Backend) Load(ctx context.Context) (*docstore.Document, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return docstore.NewDocument(), nil
		}
		return nil, repositories.NewRepositoryError("load", "document", b.Path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return docstore.NewDocument(), nil
	}

	doc := &docstore.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, repositories.NewRepositoryError("decode", "document", b.Path, err)
	}
	doc.Normalize()
	return doc, nil
}

// Save writes doc to a sibling temp file and renames it over Path.
func (b *Backend) Save(ctx context.Context, doc *docstore.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return repositories.NewRepositoryError("encode", "document", b.Path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.Path), filepath.Base(b.Path)+".*.tmp")
	if err != nil {
		return repositories.NewRepositoryError("save", "document", b.Path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return repositories.NewRepositoryError("save", "document", b.Path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return repositories.NewRepositoryError("save", "document", b.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return repositories.NewRepositoryError("save", "document", b.Path, err)
	}

	if err := os.Rename(tmpPath, b.Path); err != nil {
		os.Remove(tmpPath)
		return repositories.NewRepositoryError("save", "document", b.Path, err)
	}

	b.logger.WithFields(logrus.Fields{
		"path":     b.Path,
		"sellers":  len(doc.Sellers),
		"products": len(doc.Products),
	}).Debug("Document saved")
	return nil
}

// Health checks that the document can be read and decoded.
func (b *Backend) Health(ctx context.Context) error {
	_, err := b.Load(ctx)
	return err
}

func (b *Backend) Close() error {
	return nil
}
