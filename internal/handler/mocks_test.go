package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Eursukkul/stay-service/internal/middleware"
	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// --- Mock ListingService ---

type mockListingService struct {
	createFn func(ctx context.Context, hostID string, in service.ListingInput) (*models.Listing, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	listFn   func(ctx context.Context) ([]models.Listing, error)
	updateFn func(ctx context.Context, id uuid.UUID, actingHost string, patch models.ListingPatch) (*models.Listing, error)
	deleteFn func(ctx context.Context, id uuid.UUID, actingHost string) error
}

func (m *mockListingService) CreateListing(ctx context.Context, hostID string, in service.ListingInput) (*models.Listing, error) {
	return m.createFn(ctx, hostID, in)
}
func (m *mockListingService) GetListing(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return m.getFn(ctx, id)
}
func (m *mockListingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	return m.listFn(ctx)
}
func (m *mockListingService) UpdateListing(ctx context.Context, id uuid.UUID, actingHost string, patch models.ListingPatch) (*models.Listing, error) {
	return m.updateFn(ctx, id, actingHost, patch)
}
func (m *mockListingService) DeleteListing(ctx context.Context, id uuid.UUID, actingHost string) error {
	return m.deleteFn(ctx, id, actingHost)
}

// --- Mock BookingService ---

type mockBookingService struct {
	createFn   func(ctx context.Context, listingID uuid.UUID, userID string, start, end time.Time) (*models.Booking, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	listFn     func(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error)
	listUserFn func(ctx context.Context, userID string) ([]models.Booking, error)
	availFn    func(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*service.Availability, error)
	cancelFn   func(ctx context.Context, id uuid.UUID, actingUser string) (*models.Booking, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, listingID uuid.UUID, userID string, start, end time.Time) (*models.Booking, error) {
	return m.createFn(ctx, listingID, userID, start, end)
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListBookings(ctx context.Context, listingID uuid.UUID) ([]models.Booking, error) {
	return m.listFn(ctx, listingID)
}
func (m *mockBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	return m.listUserFn(ctx, userID)
}
func (m *mockBookingService) CheckAvailability(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*service.Availability, error) {
	return m.availFn(ctx, listingID, start, end)
}
func (m *mockBookingService) CancelBooking(ctx context.Context, id uuid.UUID, actingUser string) (*models.Booking, error) {
	return m.cancelFn(ctx, id, actingUser)
}

// --- Mock ReviewService ---

type mockReviewService struct {
	createFn func(ctx context.Context, listingID uuid.UUID, userID string, rating int, comment string) (*models.Review, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Review, error)
	listFn   func(ctx context.Context, listingID uuid.UUID) ([]models.Review, error)
}

func (m *mockReviewService) CreateReview(ctx context.Context, listingID uuid.UUID, userID string, rating int, comment string) (*models.Review, error) {
	return m.createFn(ctx, listingID, userID, rating, comment)
}
func (m *mockReviewService) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return m.getFn(ctx, id)
}
func (m *mockReviewService) ListReviews(ctx context.Context, listingID uuid.UUID) ([]models.Review, error) {
	return m.listFn(ctx, listingID)
}

// --- Test server ---

// newServer mounts the handlers with the production middleware chain.
func newServer(listings service.ListingService, bookings service.BookingService, reviews service.ReviewService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(middleware.Identity())

	api := e.Group("/api/v1")
	if listings != nil {
		NewListingHandler(listings).RegisterRoutes(api)
	}
	if bookings != nil {
		NewBookingHandler(bookings).RegisterRoutes(api)
	}
	if reviews != nil {
		NewReviewHandler(reviews).RegisterRoutes(api)
	}
	return e
}

func do(e *echo.Echo, method, target, user, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != "" {
		req.Header.Set(middleware.HeaderUserID, user)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
