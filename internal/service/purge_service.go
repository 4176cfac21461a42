package service

import (
	"context"
	"fmt"

	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"gorm.io/gorm"
)

type PurgeResult struct {
	Listings int64
	Bookings int64
	Reviews  int64
}

// PurgeService removes everything a deleted user owns or authored.
type PurgeService interface {
	PurgeUser(ctx context.Context, userID string) (PurgeResult, error)
}

type purgeService struct {
	tx          repository.Transactor
	listingRepo repository.ListingRepository
	bookingRepo repository.BookingRepository
	reviewRepo  repository.ReviewRepository
	publisher   Publisher
	cache       ListingCache
}

func NewPurgeService(
	tx repository.Transactor,
	listingRepo repository.ListingRepository,
	bookingRepo repository.BookingRepository,
	reviewRepo repository.ReviewRepository,
	publisher Publisher,
	cache ListingCache,
) PurgeService {
	return &purgeService{
		tx:          tx,
		listingRepo: listingRepo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		publisher:   publisher,
		cache:       cache,
	}
}

// PurgeUser deletes the user's listings (with all their bookings and reviews)
// and the user's own bookings and reviews elsewhere, all or nothing.
func (s *purgeService) PurgeUser(ctx context.Context, userID string) (PurgeResult, error) {
	if userID == "" {
		return PurgeResult{}, invalidAttribute("user_id", "must not be empty")
	}

	var (
		res    PurgeResult
		hosted repository.CascadeResult
	)

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		hosted, err = s.listingRepo.DeleteByHost(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("delete hosted listings: %w", err)
		}
		bookings, err := s.bookingRepo.DeleteByUserID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("delete user bookings: %w", err)
		}
		reviews, err := s.reviewRepo.DeleteByUserID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("delete user reviews: %w", err)
		}

		res = PurgeResult{
			Listings: hosted.Listings,
			Bookings: hosted.Bookings + bookings,
			Reviews:  hosted.Reviews + reviews,
		}
		return nil
	})
	if err != nil {
		return PurgeResult{}, storageError(err)
	}

	for _, id := range hosted.ListingIDs {
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, id); err != nil {
				logger.Log.Warnf("listing cache invalidate %s: %v", id, err)
			}
		}
		publish(s.publisher, EventListingDeleted, ListingDeleted{ID: id, HostID: userID})
	}

	logger.Log.Infof("purged user %s: %d listings, %d bookings, %d reviews", userID, res.Listings, res.Bookings, res.Reviews)
	return res, nil
}
