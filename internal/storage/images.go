// Package storage holds the image store and the key/value storage used
// for sessions and rate limiting.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// Upload is an image file received from a form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore persists listing images.
type ImageStore interface {
	Put(ctx context.Context, upload Upload) (models.Image, error)
	Delete(ctx context.Context, filename string) error
}

var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

var allowedExtensions = map[string]string{
	".png":  ".png",
	".jpg":  ".jpg",
	".jpeg": ".jpg",
}

// ObjectKey returns a fresh storage key for upload inside folder. Only PNG
// and JPEG images are accepted.
func ObjectKey(folder string, upload Upload) (string, error) {
	ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(upload.ContentType))]
	if !ok {
		ext, ok = allowedExtensions[strings.ToLower(path.Ext(upload.Filename))]
	}
	if !ok {
		return "", ErrUnsupportedImage
	}
	key := uuid.NewString() + ext
	if folder != "" {
		key = strings.Trim(folder, "/") + "/" + key
	}
	return key, nil
}

func contentTypeFor(key string) string {
	if strings.HasSuffix(key, ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
