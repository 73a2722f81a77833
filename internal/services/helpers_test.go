package services

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/storage"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/validation"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	records []*net.MX
	err     error
	calls   int
}

func (r *fakeResolver) LookupMX(_ context.Context, _ string) ([]*net.MX, error) {
	r.calls++
	return r.records, r.err
}

func mxOK() *fakeResolver {
	return &fakeResolver{records: []*net.MX{{Host: "mx.example.com.", Pref: 10}}}
}

type fakeImages struct {
	mu      sync.Mutex
	putErr  error
	stored  map[string]bool
	deleted []string
	n       int
}

func newFakeImages() *fakeImages {
	return &fakeImages{stored: make(map[string]bool)}
}

func (f *fakeImages) Put(_ context.Context, upload storage.Upload) (models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return models.Image{}, f.putErr
	}
	key, err := storage.ObjectKey("test", upload)
	if err != nil {
		return models.Image{}, err
	}
	if _, err := io.ReadAll(upload.Body); err != nil {
		return models.Image{}, err
	}
	f.n++
	f.stored[key] = true
	return models.Image{URL: "https://cdn.example.com/" + key, Filename: key}, nil
}

func (f *fakeImages) Delete(_ context.Context, filename string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.stored, filename)
	f.deleted = append(f.deleted, filename)
	return nil
}

func seedUser(t *testing.T, s *store.Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func validListing(t *testing.T) *validation.Listing {
	t.Helper()
	in, err := validation.ValidateListing(validation.ListingInput{
		Title:       "Cosy flat",
		Description: "A nice place with more than ten chars",
		Price:       "100",
		Location:    "Paris",
		Country:     "France",
	})
	require.NoError(t, err)
	return in
}
