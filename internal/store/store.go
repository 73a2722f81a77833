// Package store is the record store for listings, reviews and users.
package store

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserStore interface {
	// Create inserts u. It returns ErrDuplicate when the username or email
	// is already taken.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type ListingStore interface {
	List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error)
	// FindByID loads a listing with its owner and its reviews (with
	// authors) in append order.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	Create(ctx context.Context, l *models.Listing) error
	// Update writes the editable fields of l. The owner is never changed.
	Update(ctx context.Context, l *models.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type ReviewStore interface {
	// Create inserts r. A non-nil r.ListingID appends it to that listing.
	Create(ctx context.Context, r *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	// Detach removes reviewID from listingID's collection. It is a no-op
	// when the review is not a member.
	Detach(ctx context.Context, listingID, reviewID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// Store bundles the three record stores.
type Store struct {
	Users    UserStore
	Listings ListingStore
	Reviews  ReviewStore
}
