package storage

import (
	"context"
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileStorage keeps uploads as plain files under a base directory.
type LocalFileStorage struct {
	basePath string
}

// NewLocalFileStorage creates basePath if needed and returns a storage rooted there.
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, NewStorageError("init", "", err, false)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, NewStorageError("init", "", err, false)
	}

	return &LocalFileStorage{basePath: absPath}, nil
}

// BasePath returns the absolute directory uploads are written to.
func (l *LocalFileStorage) BasePath() string {
	return l.basePath
}

// Store writes to a temp file and renames it into place.
func (l *LocalFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("store", key, err, false)
	}
	if err := ctx.Err(); err != nil {
		return NewStorageError("store", key, err, false)
	}

	filePath := l.path(key)

	if opts == nil || !opts.Overwrite {
		if _, err := os.Stat(filePath); err == nil {
			return NewStorageError("store", key, ErrFileAlreadyExists, false)
		}
	}

	tmp, err := os.CreateTemp(l.basePath, ".upload-*")
	if err != nil {
		return NewStorageError("store", key, err, true)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return NewStorageError("store", key, err, true)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return NewStorageError("store", key, err, true)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return NewStorageError("store", key, err, true)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return NewStorageError("store", key, err, true)
	}

	return nil
}

func (l *LocalFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("retrieve", key, err, false)
	}

	data, err := os.ReadFile(l.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageError("retrieve", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("retrieve", key, err, true)
	}
	return data, nil
}

func (l *LocalFileStorage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("delete", key, err, false)
	}

	if err := os.Remove(l.path(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStorageError("delete", key, ErrFileNotFound, false)
		}
		return NewStorageError("delete", key, err, true)
	}
	return nil
}

func (l *LocalFileStorage) Stat(ctx context.Context, key string) (*ImageInfo, error) {
	if err := validateKey(key); err != nil {
		return nil, NewStorageError("stat", key, err, false)
	}

	info, err := os.Stat(l.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageError("stat", key, ErrFileNotFound, false)
		}
		return nil, NewStorageError("stat", key, err, true)
	}

	return &ImageInfo{
		Key:          key,
		Size:         info.Size(),
		ContentType:  ContentTypeFor(key),
		LastModified: info.ModTime(),
	}, nil
}

func (l *LocalFileStorage) Close() error {
	return nil
}

func (l *LocalFileStorage) path(key string) string {
	return filepath.Join(l.basePath, key)
}

// validateKey accepts flat filenames only; uploads never live in subdirectories.
func validateKey(key string) error {
	if key == "" || key == "." || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return ErrInvalidKey
	}
	if strings.HasPrefix(key, ".upload-") {
		return ErrInvalidKey
	}
	return nil
}

// ContentTypeFor guesses a MIME type from the key's extension.
func ContentTypeFor(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if ext == ".jpeg" || ext == ".jpg" {
		return "image/jpeg"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
