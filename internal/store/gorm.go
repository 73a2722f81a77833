package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewGormStore returns a Store backed by db. db must be opened with
// TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:    &gormUsers{db: db},
		Listings: &gormListings{db: db},
		Reviews:  &gormReviews{db: db},
	}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

type gormUsers struct {
	db *gorm.DB
}

func (s *gormUsers) Create(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *gormUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *gormUsers) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

type gormListings struct {
	db *gorm.DB
}

func (s *gormListings) List(ctx context.Context, filter models.ListingFilter) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Scopes(
			containsFold("location", filter.Location),
			containsFold("country", filter.Country),
			paginate(filter.Limit, filter.Offset),
		).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *gormListings) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var l models.Listing
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Reviews.Author").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &l, nil
}

func (s *gormListings) Create(ctx context.Context, l *models.Listing) error {
	return translate(s.db.WithContext(ctx).Omit("Owner", "Reviews").Create(l).Error)
}

func (s *gormListings) Update(ctx context.Context, l *models.Listing) error {
	result := s.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", l.ID).
		Select("title", "description", "price", "location", "country", "image_url", "image_filename").
		Updates(map[string]interface{}{
			"title":          l.Title,
			"description":    l.Description,
			"price":          l.Price,
			"location":       l.Location,
			"country":        l.Country,
			"image_url":      l.Image.URL,
			"image_filename": l.Image.Filename,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormListings) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Listing{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormListings) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Listing{}).Count(&n).Error
	return n, err
}

type gormReviews struct {
	db *gorm.DB
}

func (s *gormReviews) Create(ctx context.Context, r *models.Review) error {
	return translate(s.db.WithContext(ctx).Omit("Author").Create(r).Error)
}

func (s *gormReviews) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var r models.Review
	if err := s.db.WithContext(ctx).Preload("Author").First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *gormReviews) Detach(ctx context.Context, listingID, reviewID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND listing_id = ?", reviewID, listingID).
		Update("listing_id", nil).Error
}

func (s *gormReviews) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormReviews) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Review{})
	return result.RowsAffected, result.Error
}

func (s *gormReviews) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Review{}).Count(&n).Error
	return n, err
}
