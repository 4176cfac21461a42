package dto

import (
	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/shopspring/decimal"
)

type CreateListingRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description" validate:"max=5000"`
	Location      string          `json:"location" validate:"required,max=200"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
}

// UpdateListingRequest is a partial update; absent fields keep their value.
type UpdateListingRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=200"`
	Description   *string          `json:"description" validate:"omitempty,max=5000"`
	Location      *string          `json:"location" validate:"omitempty,max=200"`
	PricePerNight *decimal.Decimal `json:"price_per_night"`
}

func (r UpdateListingRequest) ToPatch() models.ListingPatch {
	return models.ListingPatch{
		Name:          r.Name,
		Description:   r.Description,
		Location:      r.Location,
		PricePerNight: r.PricePerNight,
	}
}

type CreateBookingRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type AvailabilityQuery struct {
	StartDate string `query:"start_date" json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"required,datetime=2006-01-02"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment" validate:"max=5000"`
}
