package handler

import (
	"net/http"

	"github.com/Eursukkul/stay-service/internal/dto"
	"github.com/Eursukkul/stay-service/internal/middleware"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

func (h *ListingHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/listings", h.ListListings)
	g.POST("/listings", h.CreateListing, middleware.RequireIdentity)
	g.GET("/listings/:id", h.GetListing)
	g.PATCH("/listings/:id", h.UpdateListing, middleware.RequireIdentity)
	g.DELETE("/listings/:id", h.DeleteListing, middleware.RequireIdentity)
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req dto.CreateListingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	listing, err := h.svc.CreateListing(c.Request().Context(), middleware.UserID(c), service.ListingInput{
		Name:          req.Name,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToListingResponse(listing))
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	id, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	listing, err := h.svc.GetListing(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) ListListings(c echo.Context) error {
	listings, err := h.svc.ListListings(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToListingResponses(listings))
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	id, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	var req dto.UpdateListingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	listing, err := h.svc.UpdateListing(c.Request().Context(), id, middleware.UserID(c), req.ToPatch())
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToListingResponse(listing))
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	id, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	if err := h.svc.DeleteListing(c.Request().Context(), id, middleware.UserID(c)); err != nil {
		return toHTTPError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
