package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Eursukkul/stay-service/internal/dto"
	"github.com/Eursukkul/stay-service/internal/middleware"
	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateListing_Handler_Success(t *testing.T) {
	var gotHost string
	var gotInput service.ListingInput
	svc := &mockListingService{
		createFn: func(ctx context.Context, hostID string, in service.ListingInput) (*models.Listing, error) {
			gotHost, gotInput = hostID, in
			return &models.Listing{
				ID:            uuid.New(),
				HostID:        hostID,
				Name:          in.Name,
				Location:      in.Location,
				PricePerNight: in.PricePerNight,
				CreatedAt:     time.Now(),
			}, nil
		},
	}

	e := echo.New()
	e.Validator = middleware.NewValidator()
	body := `{"name":"Beach House","location":"Phuket","price_per_night":"350.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderUserID, "host-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewListingHandler(svc)
	err := middleware.Identity()(h.CreateListing)(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "host-1", gotHost)
	assert.True(t, gotInput.PricePerNight.Equal(decimal.RequireFromString("350")))

	var resp dto.ListingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "350.00", resp.PricePerNight)
	assert.Equal(t, "host-1", resp.HostID)
}

func TestCreateListing_Handler_RequiresIdentity(t *testing.T) {
	svc := &mockListingService{
		createFn: func(ctx context.Context, hostID string, in service.ListingInput) (*models.Listing, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodPost, "/api/v1/listings", "", `{"name":"x","location":"y","price_per_night":"1"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateListing_Handler_ValidationError(t *testing.T) {
	svc := &mockListingService{
		createFn: func(ctx context.Context, hostID string, in service.ListingInput) (*models.Listing, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodPost, "/api/v1/listings", "host-1", `{"location":"Phuket","price_per_night":"10"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "name", resp.Field)
}

func TestCreateListing_Handler_ServiceRejection(t *testing.T) {
	svc := &mockListingService{
		createFn: func(ctx context.Context, hostID string, in service.ListingInput) (*models.Listing, error) {
			return nil, &service.FieldError{Kind: service.ErrInvalidAttribute, Field: "price_per_night", Reason: "must be greater than 0"}
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodPost, "/api/v1/listings", "host-1", `{"name":"x","location":"y","price_per_night":"0"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_attribute", resp.Kind)
	assert.Equal(t, "price_per_night", resp.Field)
}

func TestGetListing_Handler(t *testing.T) {
	id := uuid.New()
	svc := &mockListingService{
		getFn: func(ctx context.Context, got uuid.UUID) (*models.Listing, error) {
			if got != id {
				return nil, service.ErrListingNotFound
			}
			return &models.Listing{ID: id, Name: "Loft", PricePerNight: decimal.NewFromInt(80)}, nil
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodGet, "/api/v1/listings/"+id.String(), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ListingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "80.00", resp.PricePerNight)

	rec = do(e, http.MethodGet, "/api/v1/listings/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/listings/not-a-uuid", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListListings_Handler(t *testing.T) {
	svc := &mockListingService{
		listFn: func(ctx context.Context) ([]models.Listing, error) {
			return []models.Listing{{ID: uuid.New(), Name: "A"}, {ID: uuid.New(), Name: "B"}}, nil
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodGet, "/api/v1/listings", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.ListingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestUpdateListing_Handler(t *testing.T) {
	id := uuid.New()
	var gotPatch models.ListingPatch
	svc := &mockListingService{
		updateFn: func(ctx context.Context, got uuid.UUID, actingHost string, patch models.ListingPatch) (*models.Listing, error) {
			if actingHost != "host-1" {
				return nil, service.ErrNotAuthorized
			}
			gotPatch = patch
			return &models.Listing{ID: got, Name: *patch.Name, HostID: actingHost}, nil
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodPatch, "/api/v1/listings/"+id.String(), "host-1", `{"name":"Villa"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotPatch.Name)
	assert.Equal(t, "Villa", *gotPatch.Name)
	assert.Nil(t, gotPatch.PricePerNight)
	assert.Nil(t, gotPatch.Location)

	rec = do(e, http.MethodPatch, "/api/v1/listings/"+id.String(), "host-2", `{"name":"Villa"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDeleteListing_Handler(t *testing.T) {
	id := uuid.New()
	deleted := false
	svc := &mockListingService{
		deleteFn: func(ctx context.Context, got uuid.UUID, actingHost string) error {
			if deleted {
				return service.ErrListingNotFound
			}
			deleted = true
			return nil
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodDelete, "/api/v1/listings/"+id.String(), "host-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/listings/"+id.String(), "host-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListing_Handler_UnexpectedErrorIsOpaque(t *testing.T) {
	svc := &mockListingService{
		listFn: func(ctx context.Context) ([]models.Listing, error) {
			return nil, errors.New("dial tcp: connection refused")
		},
	}
	e := newServer(svc, nil, nil)

	rec := do(e, http.MethodGet, "/api/v1/listings", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
