package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image points at an object in the image store. Filename is the storage
// key; it is empty for images given as a plain URL.
type Image struct {
	URL      string `gorm:"column:url;type:text" json:"url"`
	Filename string `gorm:"column:filename;size:255" json:"filename"`
}

type Listing struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       Image     `gorm:"embedded;embeddedPrefix:image_" json:"image"`
	Price       float64   `gorm:"not null;check:chk_listings_price,price >= 0" json:"price"`
	Location    string    `gorm:"size:100;not null;index" json:"location"`
	Country     string    `gorm:"size:56;not null;index" json:"country"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"owner"`
	// Reviews are kept in append order.
	Reviews   []Review  `gorm:"foreignKey:ListingID;constraint:OnDelete:SET NULL" json:"reviews"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ReviewIDs returns the ids of the listing's reviews in append order.
func (l *Listing) ReviewIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(l.Reviews))
	for _, r := range l.Reviews {
		ids = append(ids, r.ID)
	}
	return ids
}

// ListingFilter narrows the index page.
type ListingFilter struct {
	Location string
	Country  string
	Limit    int
	Offset   int
}
