package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Availability is an advisory answer; only CreateBooking's commit-time check
// is authoritative.
type Availability struct {
	Available bool
	Quote     Quote
	Conflicts []models.Booking
}

type BookingService interface {
	CreateBooking(ctx context.Context, listingID uuid.UUID, userID string, start, end time.Time) (*models.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	CheckAvailability(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*Availability, error)
	CancelBooking(ctx context.Context, id uuid.UUID, actingUser string) (*models.Booking, error)
}

type bookingService struct {
	tx          repository.Transactor
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
	publisher   Publisher
}

func NewBookingService(tx repository.Transactor, bookingRepo repository.BookingRepository, listingRepo repository.ListingRepository, publisher Publisher) BookingService {
	return &bookingService{
		tx:          tx,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		publisher:   publisher,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, listingID uuid.UUID, userID string, start, end time.Time) (*models.Booking, error) {
	if userID == "" {
		return nil, ErrNotAuthorized
	}
	start, end = DateOf(start), DateOf(end)

	var result *models.Booking

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		// 1. Lock the listing row: serializes concurrent bookings of this listing
		listing, err := s.listingRepo.FindByIDForUpdate(ctx, tx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}

		// 2. Minimum stay is one night
		if err := validateRange(start, end); err != nil {
			return err
		}

		// 3. Price from the locked row
		q := quote(listing.PricePerNight, start, end)

		// 4. Reject overlap with any existing booking
		overlapping, err := s.bookingRepo.FindOverlapping(ctx, tx, listingID, start, end)
		if err != nil {
			return fmt.Errorf("find overlapping bookings: %w", err)
		}
		if len(overlapping) > 0 {
			first := overlapping[0]
			return &ConflictError{BookingID: first.ID, StartDate: first.Start(), EndDate: first.End()}
		}

		// 5. Insert; the exclusion constraint backs up step 4
		booking := &models.Booking{
			ListingID:  listingID,
			UserID:     userID,
			StartDate:  datatypes.Date(start),
			EndDate:    datatypes.Date(end),
			TotalPrice: q.TotalPrice,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return bookingInsertError(err)
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	logger.Log.Infof("booking %s created on listing %s [%s, %s) total %s",
		result.ID, listingID, start.Format(models.DateLayout), end.Format(models.DateLayout), result.TotalPrice.StringFixed(2))
	publish(s.publisher, EventBookingCreated, result)
	return result, nil
}

func bookingInsertError(err error) error {
	switch {
	case repository.IsExclusionViolation(err):
		return &ConflictError{}
	case repository.IsCheckViolation(err):
		return &FieldError{Kind: ErrInvalidDateRange, Field: "end_date", Reason: "must be after start_date"}
	case repository.IsForeignKeyViolation(err):
		return ErrListingNotFound
	case repository.IsNumericOverflow(err):
		return invalidAttribute("end_date", "stay total exceeds the supported amount")
	default:
		return fmt.Errorf("create booking: %w", err)
	}
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return booking, nil
}

// ListBookings returns the listing's bookings ordered by start date.
func (s *bookingService) ListBookings(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error) {
	if err := s.ensureListing(ctx, listingID); err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.FindByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("find listing bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, ErrNotAuthorized
	}
	bookings, err := s.bookingRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*Availability, error) {
	start, end = DateOf(start), DateOf(end)

	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	conflicts, err := s.bookingRepo.FindOverlapping(ctx, nil, listingID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}

	return &Availability{
		Available: len(conflicts) == 0,
		Quote:     quote(listing.PricePerNight, start, end),
		Conflicts: conflicts,
	}, nil
}

// CancelBooking deletes the booking. Only its guest or the listing's host may
// cancel it.
func (s *bookingService) CancelBooking(ctx context.Context, id uuid.UUID, actingUser string) (*models.Booking, error) {
	existing, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	var result *models.Booking

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		// Listing before booking, the same order listing deletion locks in
		listing, err := s.listingRepo.FindByIDForShare(ctx, tx, existing.ListingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if actingUser == "" || (booking.UserID != actingUser && listing.HostID != actingUser) {
			return ErrNotAuthorized
		}

		if err := s.bookingRepo.Delete(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("delete booking: %w", err)
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	logger.Log.Infof("booking %s cancelled by %s", id, actingUser)
	publish(s.publisher, EventBookingCanceled, BookingCancelled{
		ID:          result.ID,
		ListingID:   result.ListingID,
		UserID:      result.UserID,
		CancelledBy: actingUser,
	})
	return result, nil
}

func (s *bookingService) ensureListing(ctx context.Context, listingID uuid.UUID) error {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("find listing: %w", err)
	}
	return nil
}
