package repository

import (
	"context"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, tx *gorm.DB, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByListingID(ctx context.Context, listingID uuid.UUID) ([]models.Review, error)
	DeleteByUserID(ctx context.Context, tx *gorm.DB, userID string) (int64, error)
	GetDB() *gorm.DB
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetDB() *gorm.DB {
	return r.db
}

// Create inserts the review. A second review for the same (listing, user)
// fails on idx_reviews_listing_user; existing rows are never overwritten.
func (r *reviewRepository) Create(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	return tx.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByListingID(ctx context.Context, listingID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC, id ASC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) DeleteByUserID(ctx context.Context, tx *gorm.DB, userID string) (int64, error) {
	res := tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Review{})
	return res.RowsAffected, res.Error
}
