package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, s.Users.Create(context.Background(), u))
	return u
}

func newListing(t *testing.T, s *Store, owner uuid.UUID, location, country string) *models.Listing {
	t.Helper()
	l := &models.Listing{
		Title:       "Cosy flat",
		Description: "A nice place with more than ten chars",
		Price:       100,
		Location:    location,
		Country:     country,
		OwnerID:     owner,
		Image:       models.Image{URL: "/uploads/a.jpg", Filename: "a.jpg"},
	}
	require.NoError(t, s.Listings.Create(context.Background(), l))
	return l
}

func TestMemoryUsers_Uniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	newUser(t, s, "alice")

	tests := []struct {
		name string
		user models.User
	}{
		{name: "same_username", user: models.User{Username: "alice", Email: "other@example.com"}},
		{name: "same_email", user: models.User{Username: "other", Email: "alice@example.com"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			require.ErrorIs(t, s.Users.Create(ctx, &u), ErrDuplicate)
		})
	}

	n, err := s.Users.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestMemoryUsers_ConcurrentIdenticalCreates(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	var created, duplicates int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := &models.User{Username: "racer", Email: "racer@example.com"}
			err := s.Users.Create(context.Background(), u)
			switch {
			case err == nil:
				atomic.AddInt32(&created, 1)
			case errors.Is(err, ErrDuplicate):
				atomic.AddInt32(&duplicates, 1)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 1, created)
	require.EqualValues(t, 19, duplicates)
}

func TestMemoryUsers_FindMissing(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()

	_, err := s.Users.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users.FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users.FindByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListings_ReviewsKeepAppendOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	owner := newUser(t, s, "owner")
	author := newUser(t, s, "author")
	listing := newListing(t, s, owner.ID, "Paris", "France")

	var want []uuid.UUID
	for i := 1; i <= 3; i++ {
		r := &models.Review{Rating: i, Comment: fmt.Sprintf("review %d", i), AuthorID: author.ID, ListingID: &listing.ID}
		require.NoError(t, s.Reviews.Create(ctx, r))
		want = append(want, r.ID)
	}

	got, err := s.Listings.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	require.Equal(t, want, got.ReviewIDs())
	require.Equal(t, "owner", got.Owner.Username)
	require.Equal(t, "author", got.Reviews[0].Author.Username)
}

func TestMemoryListings_UpdateNeverChangesOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	owner := newUser(t, s, "owner")
	listing := newListing(t, s, owner.ID, "Paris", "France")

	changed := *listing
	changed.Title = "Renamed"
	changed.OwnerID = uuid.New()
	require.NoError(t, s.Listings.Update(ctx, &changed))

	got, err := s.Listings.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Title)
	require.Equal(t, owner.ID, got.OwnerID)

	missing := models.Listing{ID: uuid.New()}
	require.ErrorIs(t, s.Listings.Update(ctx, &missing), ErrNotFound)
}

func TestMemoryListings_ListFilters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	owner := newUser(t, s, "owner")
	newListing(t, s, owner.ID, "Paris", "France")
	newListing(t, s, owner.ID, "Lyon", "France")
	newListing(t, s, owner.ID, "Rome", "Italy")

	tests := []struct {
		name   string
		filter models.ListingFilter
		want   int
	}{
		{name: "no_filter", filter: models.ListingFilter{}, want: 3},
		{name: "country_case_insensitive", filter: models.ListingFilter{Country: "france"}, want: 2},
		{name: "location_partial", filter: models.ListingFilter{Location: "par"}, want: 1},
		{name: "both", filter: models.ListingFilter{Location: "rome", Country: "France"}, want: 0},
		{name: "limit", filter: models.ListingFilter{Limit: 2}, want: 2},
		{name: "offset_past_end", filter: models.ListingFilter{Offset: 5}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Listings.List(ctx, tc.filter)
			require.NoError(t, err)
			require.Len(t, got, tc.want)
		})
	}
}

func TestMemoryListings_DeleteLeavesReviewsDetached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	owner := newUser(t, s, "owner")
	listing := newListing(t, s, owner.ID, "Paris", "France")
	r := &models.Review{Rating: 4, Comment: "lovely", AuthorID: owner.ID, ListingID: &listing.ID}
	require.NoError(t, s.Reviews.Create(ctx, r))

	require.NoError(t, s.Listings.Delete(ctx, listing.ID))
	require.ErrorIs(t, s.Listings.Delete(ctx, listing.ID), ErrNotFound)

	orphan, err := s.Reviews.FindByID(ctx, r.ID)
	require.NoError(t, err)
	require.Nil(t, orphan.ListingID)

	deleted, err := s.Reviews.DeleteMany(ctx, []uuid.UUID{r.ID, uuid.New()})
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}

func TestMemoryReviews_DetachAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()
	owner := newUser(t, s, "owner")
	first := newListing(t, s, owner.ID, "Paris", "France")
	second := newListing(t, s, owner.ID, "Rome", "Italy")
	r := &models.Review{Rating: 5, Comment: "great", AuthorID: owner.ID, ListingID: &first.ID}
	require.NoError(t, s.Reviews.Create(ctx, r))

	// Detaching from a listing the review does not belong to is a no-op.
	require.NoError(t, s.Reviews.Detach(ctx, second.ID, r.ID))
	got, err := s.Listings.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Reviews, 1)

	require.NoError(t, s.Reviews.Detach(ctx, first.ID, r.ID))
	got, err = s.Listings.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Empty(t, got.Reviews)

	require.NoError(t, s.Reviews.Delete(ctx, r.ID))
	require.ErrorIs(t, s.Reviews.Delete(ctx, r.ID), ErrNotFound)

	missingListing := uuid.New()
	require.ErrorIs(t, s.Reviews.Create(ctx, &models.Review{Rating: 1, Comment: "abc", ListingID: &missingListing}), ErrNotFound)
}
