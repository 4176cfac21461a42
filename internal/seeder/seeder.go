package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Users are the opaque identities the seeder acts as. The first three host
// listings, the last three book and review.
var Users = []string{
	"seed-user-1",
	"seed-user-2",
	"seed-user-3",
	"seed-user-4",
	"seed-user-5",
}

const hostCount = 3

type catalogEntry struct {
	name        string
	description string
	location    string
	price       string
}

var catalog = []catalogEntry{
	{"Seaside Bungalow", "Wooden bungalow steps from the beach.", "Krabi", "85.00"},
	{"Old Town Loft", "Bright loft above a café in the old quarter.", "Chiang Mai", "42.50"},
	{"Riverside Condo", "Two-bedroom condo with a river view.", "Bangkok", "120.00"},
	{"Hillside Villa", "Private pool villa surrounded by jungle.", "Koh Samui", "310.00"},
	{"Lake Cabin", "Quiet cabin with a wood stove.", "Khao Yai", "64.99"},
}

var comments = []string{
	"Great stay, would come back.",
	"Exactly as described.",
	"Lovely host and a spotless place.",
	"Perfect location.",
}

type Options struct {
	Clear    bool
	Bookings int
	Reviews  int
	Seed     int64
	// Today anchors generated stays; zero means the current date.
	Today time.Time
}

type Summary struct {
	Purged   service.PurgeResult
	Listings int
	Bookings int
	Reviews  int
	Skipped  int
}

type Seeder struct {
	listings service.ListingService
	bookings service.BookingService
	reviews  service.ReviewService
	purge    service.PurgeService
}

func New(listings service.ListingService, bookings service.BookingService, reviews service.ReviewService, purge service.PurgeService) *Seeder {
	return &Seeder{listings: listings, bookings: bookings, reviews: reviews, purge: purge}
}

// Run fills the catalog through the public service operations. Rejections
// such as date conflicts or duplicate reviews are skipped; any other error
// aborts the run.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	rng := rand.New(rand.NewSource(opts.Seed))
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = service.DateOf(today)

	if opts.Clear {
		for _, user := range Users {
			res, err := s.purge.PurgeUser(ctx, user)
			if err != nil {
				return sum, fmt.Errorf("purge %s: %w", user, err)
			}
			sum.Purged.Listings += res.Listings
			sum.Purged.Bookings += res.Bookings
			sum.Purged.Reviews += res.Reviews
		}
	}

	listingIDs := make([]uuid.UUID, 0, len(catalog))
	for i, entry := range catalog {
		listing, err := s.listings.CreateListing(ctx, Users[i%hostCount], service.ListingInput{
			Name:          entry.name,
			Description:   entry.description,
			Location:      entry.location,
			PricePerNight: decimal.RequireFromString(entry.price),
		})
		if err != nil {
			return sum, fmt.Errorf("create listing %q: %w", entry.name, err)
		}
		listingIDs = append(listingIDs, listing.ID)
		sum.Listings++
	}

	guests := Users[len(Users)-hostCount:]

	for i := 0; i < opts.Bookings; i++ {
		listingID := listingIDs[rng.Intn(len(listingIDs))]
		guest := guests[rng.Intn(len(guests))]
		start := today.AddDate(0, 0, 1+rng.Intn(90))
		end := start.AddDate(0, 0, 2+rng.Intn(6))

		if _, err := s.bookings.CreateBooking(ctx, listingID, guest, start, end); err != nil {
			if !skippable(err) {
				return sum, fmt.Errorf("create booking: %w", err)
			}
			logger.Log.Debugf("seed booking on %s [%s, %s) skipped: %v",
				listingID, start.Format(models.DateLayout), end.Format(models.DateLayout), err)
			sum.Skipped++
			continue
		}
		sum.Bookings++
	}

	for i := 0; i < opts.Reviews; i++ {
		listingID := listingIDs[rng.Intn(len(listingIDs))]
		guest := guests[rng.Intn(len(guests))]
		rating := 4 + rng.Intn(2)

		if _, err := s.reviews.CreateReview(ctx, listingID, guest, rating, comments[rng.Intn(len(comments))]); err != nil {
			if !skippable(err) {
				return sum, fmt.Errorf("create review: %w", err)
			}
			logger.Log.Debugf("seed review by %s on %s skipped: %v", guest, listingID, err)
			sum.Skipped++
			continue
		}
		sum.Reviews++
	}

	return sum, nil
}

// skippable reports whether err is a domain rejection rather than a failure.
func skippable(err error) bool {
	switch service.Kind(err) {
	case "internal", "unavailable":
		return false
	default:
		return true
	}
}
