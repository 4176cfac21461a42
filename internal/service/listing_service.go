package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxNameLen     = 200
	maxLocationLen = 200
	priceScale     = 2
)

// maxPrice is the first value that no longer fits NUMERIC(10,2).
var maxPrice = decimal.New(1, 8)

type ListingInput struct {
	Name          string
	Description   string
	Location      string
	PricePerNight decimal.Decimal
}

// ListingCache is an optional read-through cache for single listings.
// Get returns a nil listing on a miss, along with the generation to hand back
// to Set. Set stores nothing if Invalidate ran after that generation was read.
type ListingCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Listing, int64, error)
	Set(ctx context.Context, listing *models.Listing, generation int64) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type ListingService interface {
	CreateListing(ctx context.Context, hostID string, in ListingInput) (*models.Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ListListings(ctx context.Context) ([]models.Listing, error)
	UpdateListing(ctx context.Context, id uuid.UUID, actingHost string, patch models.ListingPatch) (*models.Listing, error)
	DeleteListing(ctx context.Context, id uuid.UUID, actingHost string) error
}

type listingService struct {
	tx          repository.Transactor
	listingRepo repository.ListingRepository
	publisher   Publisher
	cache       ListingCache
}

// NewListingService wires the listing registry. publisher and cache may be nil.
func NewListingService(tx repository.Transactor, listingRepo repository.ListingRepository, publisher Publisher, cache ListingCache) ListingService {
	return &listingService{
		tx:          tx,
		listingRepo: listingRepo,
		publisher:   publisher,
		cache:       cache,
	}
}

func (s *listingService) CreateListing(ctx context.Context, hostID string, in ListingInput) (*models.Listing, error) {
	if hostID == "" {
		return nil, ErrNotAuthorized
	}

	listing := &models.Listing{
		HostID:        hostID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Location:      strings.TrimSpace(in.Location),
		PricePerNight: in.PricePerNight,
	}
	if err := validateListing(listing); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.listingRepo.Create(ctx, tx, listing); err != nil {
			if repository.IsCheckViolation(err) {
				return invalidAttribute("price_per_night", "must be greater than 0")
			}
			return fmt.Errorf("create listing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	logger.Log.Infof("listing %s created by host %s", listing.ID, hostID)
	publish(s.publisher, EventListingCreated, listing)
	return listing, nil
}

func (s *listingService) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var (
		generation int64
		fill       bool
	)
	if s.cache != nil {
		cached, gen, err := s.cache.Get(ctx, id)
		switch {
		case err != nil:
			logger.Log.Warnf("listing cache get %s: %v", id, err)
		case cached != nil:
			return cached, nil
		default:
			generation, fill = gen, true
		}
	}

	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}

	if fill {
		if err := s.cache.Set(ctx, listing, generation); err != nil {
			logger.Log.Warnf("listing cache set %s: %v", id, err)
		}
	}
	return listing, nil
}

func (s *listingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	listings, err := s.listingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	return listings, nil
}

func (s *listingService) UpdateListing(ctx context.Context, id uuid.UUID, actingHost string, patch models.ListingPatch) (*models.Listing, error) {
	var result *models.Listing
	changed := false

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		listing, err := s.listingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}
		if actingHost == "" || listing.HostID != actingHost {
			return ErrNotAuthorized
		}

		changed = applyPatch(listing, patch)
		if !changed {
			result = listing
			return nil
		}
		if err := validateListing(listing); err != nil {
			return err
		}
		if err := s.listingRepo.Save(ctx, tx, listing); err != nil {
			return fmt.Errorf("save listing: %w", err)
		}
		result = listing
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	if changed {
		s.invalidate(ctx, id)
		logger.Log.Infof("listing %s updated by host %s", id, actingHost)
		publish(s.publisher, EventListingUpdated, result)
	}
	return result, nil
}

// DeleteListing removes the listing with its bookings and reviews in one
// transaction. Deleting an already deleted listing yields ErrListingNotFound.
func (s *listingService) DeleteListing(ctx context.Context, id uuid.UUID, actingHost string) error {
	var (
		hostID  string
		cascade repository.CascadeResult
	)

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		listing, err := s.listingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}
		if actingHost == "" || listing.HostID != actingHost {
			return ErrNotAuthorized
		}

		cascade, err = s.listingRepo.Delete(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return fmt.Errorf("delete listing: %w", err)
		}
		hostID = listing.HostID
		return nil
	})
	if err != nil {
		return storageError(err)
	}

	s.invalidate(ctx, id)
	logger.Log.Infof("listing %s deleted with %d bookings and %d reviews", id, cascade.Bookings, cascade.Reviews)
	publish(s.publisher, EventListingDeleted, ListingDeleted{
		ID:       id,
		HostID:   hostID,
		Bookings: cascade.Bookings,
		Reviews:  cascade.Reviews,
	})
	return nil
}

func (s *listingService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Log.Warnf("listing cache invalidate %s: %v", id, err)
	}
}

// applyPatch copies the set fields of patch onto listing and reports whether
// anything changed.
func applyPatch(listing *models.Listing, patch models.ListingPatch) bool {
	changed := false
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != listing.Name {
			listing.Name = name
			changed = true
		}
	}
	if patch.Description != nil && *patch.Description != listing.Description {
		listing.Description = *patch.Description
		changed = true
	}
	if patch.Location != nil {
		if location := strings.TrimSpace(*patch.Location); location != listing.Location {
			listing.Location = location
			changed = true
		}
	}
	if patch.PricePerNight != nil && !patch.PricePerNight.Equal(listing.PricePerNight) {
		listing.PricePerNight = *patch.PricePerNight
		changed = true
	}
	return changed
}

func validateListing(l *models.Listing) error {
	switch {
	case l.Name == "":
		return invalidAttribute("name", "must not be empty")
	case utf8.RuneCountInString(l.Name) > maxNameLen:
		return invalidAttribute("name", fmt.Sprintf("must be at most %d characters", maxNameLen))
	case l.Location == "":
		return invalidAttribute("location", "must not be empty")
	case utf8.RuneCountInString(l.Location) > maxLocationLen:
		return invalidAttribute("location", fmt.Sprintf("must be at most %d characters", maxLocationLen))
	}
	return validatePrice(l.PricePerNight)
}

func validatePrice(p decimal.Decimal) error {
	switch {
	case !p.IsPositive():
		return invalidAttribute("price_per_night", "must be greater than 0")
	case !p.Equal(p.Truncate(priceScale)):
		return invalidAttribute("price_per_night", "must have at most 2 decimal places")
	case p.GreaterThanOrEqual(maxPrice):
		return invalidAttribute("price_per_night", "must be less than 100000000")
	}
	return nil
}
