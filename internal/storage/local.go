package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
)

// LocalStore writes images under a directory served at urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Put(ctx context.Context, upload Upload) (models.Image, error) {
	key, err := ObjectKey("", upload)
	if err != nil {
		return models.Image{}, err
	}

	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return models.Image{}, fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, upload.Body); err != nil {
		return models.Image{}, fmt.Errorf("write image file: %w", err)
	}

	return models.Image{URL: s.urlPrefix + "/" + key, Filename: key}, nil
}

func (s *LocalStore) Delete(ctx context.Context, filename string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
