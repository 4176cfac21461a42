package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Eursukkul/stay-service/config"
	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/Eursukkul/stay-service/internal/seeder"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/Eursukkul/stay-service/pkg/database"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	clearFirst bool
	bookings   int
	reviews    int
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the stay catalog with demo listings, bookings and reviews",
	Long: `Creates five demo users, five listings hosted by the first three of them,
and random bookings and reviews by the last three.

Everything goes through the regular service operations, so rejected stays
(overlapping dates, repeat reviews) are skipped rather than forced in.

Examples:
  seed                          # 5 listings, 20 bookings, 10 reviews
  seed --clear --bookings 100   # remove earlier seed data first
  seed --seed 42                # reproducible run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().BoolVar(&clearFirst, "clear", false, "Purge data of the seed users before seeding")
	rootCmd.Flags().IntVar(&bookings, "bookings", 20, "Number of booking attempts")
	rootCmd.Flags().IntVar(&reviews, "reviews", 10, "Number of review attempts")
	rootCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "Random seed")
}

func run(ctx context.Context) error {
	cfg := config.Load()
	logger.Init("stay-seed", cfg.LogLevel)

	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tx := repository.NewTransactor(db, cfg.TxMaxAttempts)

	s := seeder.New(
		service.NewListingService(tx, listingRepo, nil, nil),
		service.NewBookingService(tx, bookingRepo, listingRepo, nil),
		service.NewReviewService(tx, reviewRepo, listingRepo, nil),
		service.NewPurgeService(tx, listingRepo, bookingRepo, reviewRepo, nil, nil),
	)

	sum, err := s.Run(ctx, seeder.Options{
		Clear:    clearFirst,
		Bookings: bookings,
		Reviews:  reviews,
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	if clearFirst {
		fmt.Printf("purged: %d listings, %d bookings, %d reviews\n", sum.Purged.Listings, sum.Purged.Bookings, sum.Purged.Reviews)
	}
	fmt.Printf("seeded: %d listings, %d bookings, %d reviews (%d skipped, seed %d)\n",
		sum.Listings, sum.Bookings, sum.Reviews, sum.Skipped, seed)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
