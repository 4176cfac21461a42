package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(ctx context.Context, listingID uuid.UUID, userID string, rating int, comment string) (*models.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListReviews(ctx context.Context, listingID uuid.UUID) ([]models.Review, error)
}

type reviewService struct {
	tx          repository.Transactor
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
	publisher   Publisher
}

func NewReviewService(tx repository.Transactor, reviewRepo repository.ReviewRepository, listingRepo repository.ListingRepository, publisher Publisher) ReviewService {
	return &reviewService{
		tx:          tx,
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
		publisher:   publisher,
	}
}

// CreateReview records the user's only review of the listing. A second
// attempt fails with ErrDuplicateReview and leaves the first untouched.
func (s *reviewService) CreateReview(ctx context.Context, listingID uuid.UUID, userID string, rating int, comment string) (*models.Review, error) {
	if userID == "" {
		return nil, ErrNotAuthorized
	}

	review := &models.Review{
		ListingID: listingID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	}

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.listingRepo.FindByIDForShare(ctx, tx, listingID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}
		if rating < models.MinRating || rating > models.MaxRating {
			return invalidRating()
		}

		if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
			switch {
			case repository.IsUniqueViolation(err):
				return ErrDuplicateReview
			case repository.IsForeignKeyViolation(err):
				return ErrListingNotFound
			case repository.IsCheckViolation(err):
				return invalidRating()
			default:
				return fmt.Errorf("create review: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}

	logger.Log.Infof("review %s created on listing %s by %s", review.ID, listingID, userID)
	publish(s.publisher, EventReviewCreated, review)
	return review, nil
}

func invalidRating() error {
	return &FieldError{
		Kind:   ErrInvalidRating,
		Field:  "rating",
		Reason: fmt.Sprintf("must be between %d and %d", models.MinRating, models.MaxRating),
	}
}

func (s *reviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return review, nil
}

// ListReviews returns the listing's reviews in the order they were posted.
func (s *reviewService) ListReviews(ctx context.Context, listingID uuid.UUID) ([]models.Review, error) {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("find listing: %w", err)
	}
	reviews, err := s.reviewRepo.FindByListingID(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	return reviews, nil
}
