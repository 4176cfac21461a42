package repository

import (
	"context"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	lockForUpdate = "UPDATE"
	lockForShare  = "SHARE"
)

// CascadeResult counts the child rows removed together with their listings.
type CascadeResult struct {
	ListingIDs []uuid.UUID
	Listings   int64
	Bookings   int64
	Reviews    int64
}

type ListingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, listing *models.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error)
	FindByIDForShare(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error)
	FindAll(ctx context.Context) ([]models.Listing, error)
	Save(ctx context.Context, tx *gorm.DB, listing *models.Listing) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (CascadeResult, error)
	DeleteByHost(ctx context.Context, tx *gorm.DB, hostID string) (CascadeResult, error)
	GetDB() *gorm.DB
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *listingRepository) Create(ctx context.Context, tx *gorm.DB, listing *models.Listing) error {
	return tx.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindByIDForUpdate locks the listing row until the transaction ends. Every
// booking insert for the listing takes this lock first, which serializes them.
func (r *listingRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	return r.findLocked(ctx, tx, id, lockForUpdate)
}

// FindByIDForShare keeps the listing from being deleted while a child row is inserted.
func (r *listingRepository) FindByIDForShare(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	return r.findLocked(ctx, tx, id, lockForShare)
}

func (r *listingRepository) findLocked(ctx context.Context, tx *gorm.DB, id uuid.UUID, strength string) (*models.Listing, error) {
	var listing models.Listing
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) FindAll(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepository) Save(ctx context.Context, tx *gorm.DB, listing *models.Listing) error {
	return tx.WithContext(ctx).Save(listing).Error
}

// Delete removes the listing and everything that references it. A missing
// listing yields gorm.ErrRecordNotFound and nothing is deleted.
func (r *listingRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) (CascadeResult, error) {
	var res CascadeResult
	db := tx.WithContext(ctx)

	reviews := db.Where("listing_id = ?", id).Delete(&models.Review{})
	if reviews.Error != nil {
		return res, reviews.Error
	}
	bookings := db.Where("listing_id = ?", id).Delete(&models.Booking{})
	if bookings.Error != nil {
		return res, bookings.Error
	}
	listing := db.Where("id = ?", id).Delete(&models.Listing{})
	if listing.Error != nil {
		return res, listing.Error
	}
	if listing.RowsAffected == 0 {
		return res, gorm.ErrRecordNotFound
	}

	res.ListingIDs = []uuid.UUID{id}
	res.Listings = listing.RowsAffected
	res.Bookings = bookings.RowsAffected
	res.Reviews = reviews.RowsAffected
	return res, nil
}

// DeleteByHost removes every listing of hostID with its bookings and reviews.
// The listing rows are locked first, in id order, matching the listing then
// booking order used by single listing deletes and cancellations.
func (r *listingRepository) DeleteByHost(ctx context.Context, tx *gorm.DB, hostID string) (CascadeResult, error) {
	var res CascadeResult
	db := tx.WithContext(ctx)

	var ids []uuid.UUID
	if err := db.Model(&models.Listing{}).
		Clauses(clause.Locking{Strength: lockForUpdate}).
		Where("host_id = ?", hostID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return res, err
	}
	if len(ids) == 0 {
		return res, nil
	}

	reviews := db.Where("listing_id IN ?", ids).Delete(&models.Review{})
	if reviews.Error != nil {
		return res, reviews.Error
	}
	bookings := db.Where("listing_id IN ?", ids).Delete(&models.Booking{})
	if bookings.Error != nil {
		return res, bookings.Error
	}
	listings := db.Where("id IN ?", ids).Delete(&models.Listing{})
	if listings.Error != nil {
		return res, listings.Error
	}

	res.ListingIDs = ids
	res.Listings = listings.RowsAffected
	res.Bookings = bookings.RowsAffected
	res.Reviews = reviews.RowsAffected
	return res, nil
}
