package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestReviewService_CreateOnMissingListing(t *testing.T) {
	s := store.NewMemoryStore()
	author := seedUser(t, s, "author")
	svc := NewReviewService(s)

	_, err := svc.Create(context.Background(), uuid.New(), author.ID, &validation.Review{Rating: 4, Comment: "nice"})
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	n, err := s.Reviews.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestReviewService_Delete(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	owner := seedUser(t, s, "owner")
	listings := NewListingService(s, newFakeImages())
	svc := NewReviewService(s)

	in := validListing(t)
	in.Image = "https://img.example.com/a.jpg"
	first, err := listings.Create(ctx, owner.ID, in, nil)
	require.NoError(t, err)
	second, err := listings.Create(ctx, owner.ID, in, nil)
	require.NoError(t, err)

	review, err := svc.Create(ctx, first.ID, owner.ID, &validation.Review{Rating: 5, Comment: "lovely"})
	require.NoError(t, err)

	// The review is not in the second listing's collection; it is still
	// deleted.
	require.NoError(t, svc.Delete(ctx, second.ID, review.ID))
	got, err := listings.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Empty(t, got.Reviews)

	err = svc.Delete(ctx, first.ID, uuid.New())
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Equal(t, msgReviewNotFound, apperr.Message(err))
}
