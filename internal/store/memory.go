package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/google/uuid"
)

// memory is a concurrency-safe in-memory record store. Username and email
// uniqueness is enforced under the write lock, mirroring the unique
// indexes of the SQL schema.
type memory struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]models.User
	listings map[uuid.UUID]models.Listing
	reviews  map[uuid.UUID]models.Review
	// listingReviews keeps review membership per listing in append order.
	listingReviews map[uuid.UUID][]uuid.UUID
}

// NewMemoryStore returns a Store that keeps everything in process memory.
func NewMemoryStore() *Store {
	m := &memory{
		users:          make(map[uuid.UUID]models.User),
		listings:       make(map[uuid.UUID]models.Listing),
		reviews:        make(map[uuid.UUID]models.Review),
		listingReviews: make(map[uuid.UUID][]uuid.UUID),
	}
	return &Store{
		Users:    (*memoryUsers)(m),
		Listings: (*memoryListings)(m),
		Reviews:  (*memoryReviews)(m),
	}
}

type memoryUsers memory

func (s *memoryUsers) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	return nil
}

func (s *memoryUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *memoryUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Username == username })
}

func (s *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findBy(func(u models.User) bool { return u.Email == email })
}

func (s *memoryUsers) findBy(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memoryUsers) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

type memoryListings memory

func (s *memoryListings) List(_ context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	location := strings.ToLower(filter.Location)
	country := strings.ToLower(filter.Country)

	result := make([]models.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if location != "" && !strings.Contains(strings.ToLower(l.Location), location) {
			continue
		}
		if country != "" && !strings.Contains(strings.ToLower(l.Country), country) {
			continue
		}
		l.Reviews = nil
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []models.Listing{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *memoryListings) FindByID(_ context.Context, id uuid.UUID) (*models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	l.Owner = s.users[l.OwnerID]
	l.Reviews = make([]models.Review, 0, len(s.listingReviews[id]))
	for _, reviewID := range s.listingReviews[id] {
		r, ok := s.reviews[reviewID]
		if !ok {
			continue
		}
		r.Author = s.users[r.AuthorID]
		l.Reviews = append(l.Reviews, r)
	}
	return &l, nil
}

func (s *memoryListings) Create(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if _, exists := s.listings[l.ID]; exists {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	l.CreatedAt, l.UpdatedAt = now, now

	stored := *l
	stored.Owner = models.User{}
	stored.Reviews = nil
	s.listings[l.ID] = stored
	return nil
}

func (s *memoryListings) Update(_ context.Context, l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.listings[l.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = l.Title
	stored.Description = l.Description
	stored.Price = l.Price
	stored.Location = l.Location
	stored.Country = l.Country
	stored.Image = l.Image
	stored.UpdatedAt = time.Now().UTC()
	s.listings[l.ID] = stored
	return nil
}

// Delete removes the listing only. Member reviews are left in place with
// their listing reference cleared, the same as ON DELETE SET NULL.
func (s *memoryListings) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[id]; !ok {
		return ErrNotFound
	}
	for _, reviewID := range s.listingReviews[id] {
		if r, ok := s.reviews[reviewID]; ok {
			r.ListingID = nil
			s.reviews[reviewID] = r
		}
	}
	delete(s.listingReviews, id)
	delete(s.listings, id)
	return nil
}

func (s *memoryListings) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.listings)), nil
}

type memoryReviews memory

func (s *memoryReviews) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ListingID != nil {
		if _, ok := s.listings[*r.ListingID]; !ok {
			return ErrNotFound
		}
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = time.Now().UTC()

	stored := *r
	stored.Author = models.User{}
	s.reviews[r.ID] = stored
	if r.ListingID != nil {
		s.listingReviews[*r.ListingID] = append(s.listingReviews[*r.ListingID], r.ID)
	}
	return nil
}

func (s *memoryReviews) FindByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Author = s.users[r.AuthorID]
	return &r, nil
}

func (s *memoryReviews) Detach(_ context.Context, listingID, reviewID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.listingReviews[listingID]
	for i, id := range ids {
		if id != reviewID {
			continue
		}
		s.listingReviews[listingID] = append(ids[:i:i], ids[i+1:]...)
		if r, ok := s.reviews[reviewID]; ok {
			r.ListingID = nil
			s.reviews[reviewID] = r
		}
		return nil
	}
	return nil
}

func (s *memoryReviews) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[id]; !ok {
		return ErrNotFound
	}
	s.removeLocked(id)
	return nil
}

func (s *memoryReviews) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := s.reviews[id]; !ok {
			continue
		}
		s.removeLocked(id)
		deleted++
	}
	return deleted, nil
}

func (s *memoryReviews) removeLocked(id uuid.UUID) {
	r := s.reviews[id]
	if r.ListingID != nil {
		ids := s.listingReviews[*r.ListingID]
		for i, memberID := range ids {
			if memberID == id {
				s.listingReviews[*r.ListingID] = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
	}
	delete(s.reviews, id)
}

func (s *memoryReviews) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.reviews)), nil
}
