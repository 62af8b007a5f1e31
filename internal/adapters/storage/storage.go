// Package storage provides an S3-compatible object store adapter.
// The shop uses it for product images only.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// PresignedURL carries the URL and metadata for a presigned download.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ImageStore is the object storage surface used by the catalog.
type ImageStore interface {
	// UploadImage stores an image under the bucket and returns the object key.
	UploadImage(ctx context.Context, bucket, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// GenerateDownloadURL creates a presigned GET URL for an object.
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*PresignedURL, error)

	// DeleteObject removes an object.
	DeleteObject(ctx context.Context, bucket, fileKey string) error

	// EnsureBucketExists creates the bucket if missing.
	EnsureBucketExists(ctx context.Context, bucket string) error
}

// allowedImageTypes is the whitelist for product image uploads.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func validateImageType(contentType string) error {
	normalized := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	if !allowedImageTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed for product images", contentType)
	}
	return nil
}
