// Package ingest turns base64 data URLs posted by the client into stored image files.
package ingest

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"artisans-hub-api/internal/adapters/storage"
)

// DefaultMaxBytes matches the 16 MiB request ceiling of the upload endpoint.
const DefaultMaxBytes = 16 << 20

// ErrInvalidImageData is returned when the payload is not a decodable data URL.
var ErrInvalidImageData = errors.New("invalid image data")

// Ingestor decodes and persists uploaded images.
type Ingestor struct {
	storage  storage.FileStorage
	maxBytes int
	logger   *logrus.Logger
	newID    func() string
}

// New returns an Ingestor writing through fs. A maxBytes of zero or less
// selects DefaultMaxBytes.
func New(fs storage.FileStorage, maxBytes int, logger *logrus.Logger) *Ingestor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Ingestor{
		storage:  fs,
		maxBytes: maxBytes,
		logger:   logger,
		newID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

// Ingest stores the image carried by encoded ("<header>,<base64>") and returns
// the generated filename.
func (i *Ingestor) Ingest(ctx context.Context, encoded string) (string, error) {
	header, payload, ok := strings.Cut(encoded, ",")
	if !ok {
		return "", fmt.Errorf("%w: missing data URL separator", ErrInvalidImageData)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > i.maxBytes+2 {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidImageData, i.maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidImageData)
	}
	if len(data) > i.maxBytes {
		return "", fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidImageData, i.maxBytes)
	}

	mediaType := MediaType(header)
	filename := i.newID() + Extension(mediaType)

	if err := i.storage.Store(ctx, filename, data, &storage.StoreOptions{
		ContentType: mediaType,
		Overwrite:   false,
	}); err != nil {
		i.logger.WithFields(logrus.Fields{
			"filename": filename,
			"size":     len(data),
		}).WithError(err).Error("Failed to store uploaded image")
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	if err := i.verify(ctx, filename, len(data)); err != nil {
		i.logger.WithField("filename", filename).WithError(err).Error("Stored image failed verification")
		if delErr := i.storage.Delete(ctx, filename); delErr != nil && !storage.IsNotFound(delErr) {
			i.logger.WithField("filename", filename).WithError(delErr).Warn("Failed to remove unverified image")
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	i.logger.WithFields(logrus.Fields{
		"filename":   filename,
		"size":       len(data),
		"media_type": mediaType,
	}).Debug("Stored uploaded image")

	return filename, nil
}

// verify checks that the stored object holds exactly size bytes. A short
// write must not leave a truncated image behind a returned filename.
func (i *Ingestor) verify(ctx context.Context, filename string, size int) error {
	info, err := i.storage.Stat(ctx, filename)
	if err != nil {
		return err
	}
	if info.Size != int64(size) {
		return fmt.Errorf("stored %d of %d bytes", info.Size, size)
	}
	return nil
}

// MediaType extracts the media type from a data URL header such as
// "data:image/png;base64". It returns "" when none is present.
func MediaType(header string) string {
	header = strings.TrimSpace(header)
	header = strings.TrimPrefix(header, "data:")
	mediaType, _, _ := strings.Cut(header, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Extension maps an image media type to a file extension, defaulting to ".jpeg".
func Extension(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpeg"
	}
}
