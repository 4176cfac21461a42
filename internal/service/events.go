package service

import (
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/google/uuid"
)

// Routing keys of the domain events published after commit.
const (
	EventListingCreated  = "listing.created"
	EventListingUpdated  = "listing.updated"
	EventListingDeleted  = "listing.deleted"
	EventBookingCreated  = "booking.created"
	EventBookingCanceled = "booking.cancelled"
	EventReviewCreated   = "review.created"
)

type Publisher interface {
	Publish(routingKey string, payload any) error
}

type ListingDeleted struct {
	ID       uuid.UUID `json:"id"`
	HostID   string    `json:"host_id"`
	Bookings int64     `json:"bookings_deleted"`
	Reviews  int64     `json:"reviews_deleted"`
}

type BookingCancelled struct {
	ID          uuid.UUID `json:"id"`
	ListingID   uuid.UUID `json:"listing_id"`
	UserID      string    `json:"user_id"`
	CancelledBy string    `json:"cancelled_by"`
}

// publish never fails the caller: the state change is already committed.
func publish(p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		logger.Log.Warnf("publish %s failed: %v", routingKey, err)
	}
}
