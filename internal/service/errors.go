package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/repository"
	"github.com/google/uuid"
)

// Error kinds. Every rejection returned by the services matches exactly one
// of these with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrInvalidAttribute = errors.New("invalid attribute")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrDateConflict     = errors.New("dates conflict with an existing booking")
	ErrInvalidRating    = errors.New("invalid rating")
	ErrDuplicateReview  = errors.New("listing already reviewed by this user")
	ErrUnavailable      = errors.New("service temporarily unavailable")
)

var (
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("review %w", ErrNotFound)
)

// FieldError is a validation failure tied to one input field.
type FieldError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Kind }

func invalidAttribute(field, reason string) error {
	return &FieldError{Kind: ErrInvalidAttribute, Field: field, Reason: reason}
}

// ConflictError reports the existing booking a requested stay collides with.
// BookingID is uuid.Nil when the conflict was caught by the storage constraint.
type ConflictError struct {
	BookingID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

func (e *ConflictError) Error() string {
	if e.BookingID == uuid.Nil {
		return ErrDateConflict.Error()
	}
	return fmt.Sprintf("dates overlap booking %s [%s, %s)",
		e.BookingID, e.StartDate.Format(models.DateLayout), e.EndDate.Format(models.DateLayout))
}

func (e *ConflictError) Unwrap() error { return ErrDateConflict }

// Kind returns a stable machine-readable name for err's kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrInvalidAttribute):
		return "invalid_attribute"
	case errors.Is(err, ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, ErrDateConflict):
		return "date_conflict"
	case errors.Is(err, ErrInvalidRating):
		return "invalid_rating"
	case errors.Is(err, ErrDuplicateReview):
		return "duplicate_review"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "internal"
	}
}

// storageError hides the retry machinery from callers.
func storageError(err error) error {
	if errors.Is(err, repository.ErrTxUnavailable) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
