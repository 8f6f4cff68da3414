// Package storage persists uploaded images to local disk or an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/internal/config"
	"sublease-marketplace/utils"

	"github.com/gabriel-vasile/mimetype"
)

// ImageStore saves and deletes image objects and returns their public URL
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// allowed upload types and the extension used for stored objects
var allowedImageTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

// Image is an upload that passed size and content sniffing checks
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Size returns the number of bytes in the image
func (i Image) Size() int64 { return int64(len(i.Data)) }

// Reader returns a fresh reader over the image bytes
func (i Image) Reader() io.Reader { return bytes.NewReader(i.Data) }

// ReadImage reads at most maxBytes from r and checks the content is a supported image.
// The declared content type of the upload is ignored; only the bytes are trusted.
func ReadImage(r io.Reader, maxBytes int64) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("storage: read upload: %w", err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("storage: %w - empty file", biddingerrors.ErrValidation)
	}
	if int64(len(data)) > maxBytes {
		return Image{}, fmt.Errorf("storage: %w - file exceeds %d bytes", biddingerrors.ErrValidation, maxBytes)
	}

	detected := mimetype.Detect(data)
	for _, t := range allowedImageTypes {
		if detected.Is(t.mime) {
			return Image{Data: data, ContentType: t.mime, Extension: t.ext}, nil
		}
	}
	return Image{}, fmt.Errorf("storage: %w - %s is not an accepted image type", biddingerrors.ErrUnsupportedMedia, detected.String())
}

// ObjectKey builds a unique key such as "properties/2024/06/<uuid>.jpg"
func ObjectKey(prefix, ext string, now time.Time) string {
	return path.Join(prefix, now.UTC().Format("2006/01"), utils.GenerateID()+ext)
}

// New builds the store selected by configuration
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}
