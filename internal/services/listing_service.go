package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/storage"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/validation"
	"github.com/google/uuid"
)

const (
	msgListingNotFound  = "Listing not found"
	MsgImageMissing     = "Image upload failed or missing."
	msgImageUnsupported = "Image must be a PNG or JPEG file."
	msgImageUpload      = "Image upload failed, please try again."
)

type ListingService struct {
	store  *store.Store
	images storage.ImageStore
}

func NewListingService(s *store.Store, images storage.ImageStore) *ListingService {
	return &ListingService{store: s, images: images}
}

func (s *ListingService) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	listings, err := s.store.Listings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	return listings, nil
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.store.Listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgListingNotFound)
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return listing, nil
}

// Create stores a validated listing owned by ownerID. An uploaded file wins
// over a plain image URL; one of the two is required.
func (s *ListingService) Create(ctx context.Context, ownerID uuid.UUID, in *validation.Listing, upload *storage.Upload) (*models.Listing, error) {
	image, err := s.resolveImage(ctx, in.Image, upload)
	if err != nil {
		return nil, err
	}
	if image.URL == "" {
		return nil, apperr.Validation(MsgImageMissing)
	}

	listing := &models.Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Location:    in.Location,
		Country:     in.Country,
		Image:       image,
		OwnerID:     ownerID,
	}
	if err := s.store.Listings.Create(ctx, listing); err != nil {
		s.discardImage(ctx, image)
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return listing, nil
}

// Update applies a validated payload to an already loaded listing. The
// owner is never changed. A replaced stored image is removed afterwards.
func (s *ListingService) Update(ctx context.Context, listing *models.Listing, in *validation.Listing, upload *storage.Upload) error {
	image, err := s.resolveImage(ctx, in.Image, upload)
	if err != nil {
		return err
	}

	previous := listing.Image
	listing.Title = in.Title
	listing.Description = in.Description
	listing.Price = in.Price
	listing.Location = in.Location
	listing.Country = in.Country
	if image.URL != "" {
		listing.Image = image
	}

	if err := s.store.Listings.Update(ctx, listing); err != nil {
		s.discardImage(ctx, image)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgListingNotFound)
		}
		return fmt.Errorf("update listing: %w", err)
	}

	if image.URL != "" && previous.Filename != "" && previous.Filename != image.Filename {
		s.discardImage(ctx, previous)
	}
	return nil
}

// Delete removes a listing and then its reviews. The two steps are not
// atomic: if the second fails the reviews stay behind as orphans with no
// listing, which is logged and left for manual cleanup.
func (s *ListingService) Delete(ctx context.Context, id uuid.UUID) error {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	reviewIDs := listing.ReviewIDs()

	if err := s.store.Listings.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgListingNotFound)
		}
		return fmt.Errorf("delete listing: %w", err)
	}

	deleted, err := s.store.Reviews.DeleteMany(ctx, reviewIDs)
	if err != nil {
		slog.Error("cascade review delete failed, orphaned reviews left",
			"listing_id", id.String(),
			"review_ids", len(reviewIDs),
			"error", err.Error(),
		)
	} else if deleted != int64(len(reviewIDs)) {
		slog.Warn("cascade review delete removed fewer reviews than expected",
			"listing_id", id.String(),
			"expected", len(reviewIDs),
			"deleted", deleted,
		)
	}

	s.discardImage(ctx, listing.Image)
	return nil
}

func (s *ListingService) resolveImage(ctx context.Context, url string, upload *storage.Upload) (models.Image, error) {
	if upload != nil {
		if s.images == nil {
			return models.Image{}, apperr.New(apperr.KindUpstreamUnavailable, msgImageUpload)
		}
		image, err := s.images.Put(ctx, *upload)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImage) {
				return models.Image{}, apperr.Validation(msgImageUnsupported)
			}
			return models.Image{}, apperr.Wrap(apperr.KindUpstreamUnavailable, msgImageUpload, err)
		}
		return image, nil
	}
	return models.Image{URL: url}, nil
}

func (s *ListingService) discardImage(ctx context.Context, image models.Image) {
	if image.Filename == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, image.Filename); err != nil {
		slog.Warn("failed to delete image", "filename", image.Filename, "error", err.Error())
	}
}
