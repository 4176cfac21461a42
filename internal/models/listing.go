package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Listing struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	HostID        string          `gorm:"not null;index" json:"host_id"`
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	Description   string          `gorm:"type:text;not null;default:''" json:"description"`
	Location      string          `gorm:"type:varchar(200);not null" json:"location"`
	PricePerNight decimal.Decimal `gorm:"type:numeric(10,2);not null;check:listings_price_positive,price_per_night > 0" json:"price_per_night"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ListingPatch carries the mutable listing fields; nil means unchanged.
type ListingPatch struct {
	Name          *string
	Description   *string
	Location      *string
	PricePerNight *decimal.Decimal
}

func (p ListingPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Location == nil && p.PricePerNight == nil
}
