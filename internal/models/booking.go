package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Booking reserves the nights [StartDate, EndDate) of a listing.
type Booking struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"listing_id"`
	UserID     string          `gorm:"not null;index" json:"user_id"`
	StartDate  datatypes.Date  `gorm:"not null" json:"start_date"`
	EndDate    datatypes.Date  `gorm:"not null;check:bookings_end_after_start,end_date > start_date" json:"end_date"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`

	Listing *Listing `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Booking) Start() time.Time { return time.Time(b.StartDate) }

func (b *Booking) End() time.Time { return time.Time(b.EndDate) }
