package dto

import (
	"time"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListingResponse struct {
	ID            uuid.UUID `json:"id"`
	HostID        string    `json:"host_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	PricePerNight string    `json:"price_per_night"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingResponse struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	UserID     string    `json:"user_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Nights     int       `json:"nights"`
	TotalPrice string    `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

type AvailabilityResponse struct {
	ListingID    uuid.UUID         `json:"listing_id"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Available    bool              `json:"available"`
	Nights       int               `json:"nights"`
	NightlyPrice string            `json:"nightly_price"`
	TotalPrice   string            `json:"total_price"`
	Conflicts    []BookingResponse `json:"conflicts"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Items         []ReviewResponse `json:"items"`
	AverageRating *string          `json:"average_rating"`
	Count         int              `json:"count"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
	Field   string `json:"field,omitempty"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func ToListingResponse(l *models.Listing) ListingResponse {
	return ListingResponse{
		ID:            l.ID,
		HostID:        l.HostID,
		Name:          l.Name,
		Description:   l.Description,
		Location:      l.Location,
		PricePerNight: money(l.PricePerNight),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func ToListingResponses(listings []models.Listing) []ListingResponse {
	resp := make([]ListingResponse, len(listings))
	for i := range listings {
		resp[i] = ToListingResponse(&listings[i])
	}
	return resp
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		ListingID:  b.ListingID,
		UserID:     b.UserID,
		StartDate:  b.Start().Format(models.DateLayout),
		EndDate:    b.End().Format(models.DateLayout),
		Nights:     service.Nights(b.Start(), b.End()),
		TotalPrice: money(b.TotalPrice),
		CreatedAt:  b.CreatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}

func ToAvailabilityResponse(listingID uuid.UUID, start, end time.Time, a *service.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ListingID:    listingID,
		StartDate:    start.Format(models.DateLayout),
		EndDate:      end.Format(models.DateLayout),
		Available:    a.Available,
		Nights:       a.Quote.Nights,
		NightlyPrice: money(a.Quote.NightlyPrice),
		TotalPrice:   money(a.Quote.TotalPrice),
		Conflicts:    ToBookingResponses(a.Conflicts),
	}
}

func ToReviewResponse(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ListingID: r.ListingID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// ToReviewListResponse adds the average rating, rounded to 2 places.
// AverageRating is null for a listing without reviews.
func ToReviewListResponse(reviews []models.Review) ReviewListResponse {
	resp := ReviewListResponse{
		Items: make([]ReviewResponse, len(reviews)),
		Count: len(reviews),
	}
	if len(reviews) == 0 {
		return resp
	}

	var sum int64
	for i := range reviews {
		resp.Items[i] = ToReviewResponse(&reviews[i])
		sum += int64(reviews[i].Rating)
	}
	avg := decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(int64(len(reviews))), 2).StringFixed(2)
	resp.AverageRating = &avg
	return resp
}
