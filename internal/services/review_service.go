package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/validation"
	"github.com/google/uuid"
)

const msgReviewNotFound = "Review not found"

type ReviewService struct {
	store *store.Store
}

func NewReviewService(s *store.Store) *ReviewService {
	return &ReviewService{store: s}
}

func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.store.Reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgReviewNotFound)
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

// Create appends a review by authorID to the listing.
func (s *ReviewService) Create(ctx context.Context, listingID, authorID uuid.UUID, in *validation.Review) (*models.Review, error) {
	if _, err := s.store.Listings.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgListingNotFound)
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}

	review := &models.Review{
		Rating:    in.Rating,
		Comment:   in.Comment,
		AuthorID:  authorID,
		ListingID: &listingID,
	}
	if err := s.store.Reviews.Create(ctx, review); err != nil {
		// The listing was deleted between the lookup and the insert.
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound(msgListingNotFound)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// Delete removes the review from the listing's collection, then deletes
// the review itself. A review that is not in the listing's collection is
// still deleted; a review that does not exist is NotFound.
func (s *ReviewService) Delete(ctx context.Context, listingID, reviewID uuid.UUID) error {
	if err := s.store.Reviews.Detach(ctx, listingID, reviewID); err != nil {
		return fmt.Errorf("detach review: %w", err)
	}
	if err := s.store.Reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound(msgReviewNotFound)
		}
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
