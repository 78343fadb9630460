package storage

import (
	"context"
	"sync"
	"time"
)

// MockFileStorage is an in-memory FileStorage for tests.
type MockFileStorage struct {
	mu    sync.RWMutex
	files map[string]*mockFile

	// FailWith, when set, is returned by every Store call.
	FailWith error
}

type mockFile struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// NewMockFileStorage creates a new MockFileStorage instance
func NewMockFileStorage() *MockFileStorage {
	return &MockFileStorage{files: make(map[string]*mockFile)}
}

func (m *MockFileStorage) Store(ctx context.Context, key string, data []byte, opts *StoreOptions) error {
	if err := validateKey(key); err != nil {
		return NewStorageError("store", key, err, false)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return NewStorageError("store", key, m.FailWith, IsRetryable(m.FailWith))
	}

	if opts == nil || !opts.Overwrite {
		if _, exists := m.files[key]; exists {
			return NewStorageError("store", key, ErrFileAlreadyExists, false)
		}
	}

	contentType := ContentTypeFor(key)
	if opts != nil && opts.ContentType != "" {
		contentType = opts.ContentType
	}

	m.files[key] = &mockFile{
		data:         append([]byte(nil), data...),
		contentType:  contentType,
		lastModified: time.Now(),
	}
	return nil
}

func (m *MockFileStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[key]
	if !exists {
		return nil, NewStorageError("retrieve", key, ErrFileNotFound, false)
	}
	return append([]byte(nil), file.data...), nil
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[key]; !exists {
		return NewStorageError("delete", key, ErrFileNotFound, false)
	}
	delete(m.files, key)
	return nil
}

func (m *MockFileStorage) Stat(ctx context.Context, key string) (*ImageInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	file, exists := m.files[key]
	if !exists {
		return nil, NewStorageError("stat", key, ErrFileNotFound, false)
	}
	return &ImageInfo{
		Key:          key,
		Size:         int64(len(file.data)),
		ContentType:  file.contentType,
		LastModified: file.lastModified,
	}, nil
}

func (m *MockFileStorage) Close() error {
	return nil
}
