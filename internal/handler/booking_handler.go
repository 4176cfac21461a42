package handler

import (
	"net/http"

	"github.com/Eursukkul/stay-service/internal/dto"
	"github.com/Eursukkul/stay-service/internal/middleware"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/listings/:id/bookings", h.CreateBooking, middleware.RequireIdentity)
	g.GET("/listings/:id/bookings", h.ListBookings)
	g.GET("/listings/:id/availability", h.CheckAvailability)

	g.GET("/bookings/:id", h.GetBooking)
	g.DELETE("/bookings/:id", h.CancelBooking, middleware.RequireIdentity)

	g.GET("/users/me/bookings", h.ListMyBookings, middleware.RequireIdentity)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	listingID, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	var req dto.CreateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		return err
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), listingID, middleware.UserID(c), start, end)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id, middleware.UserID(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	listingID, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), listingID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	bookings, err := h.svc.ListUserBookings(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	listingID, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	var q dto.AvailabilityQuery
	if err := bind(c, &q); err != nil {
		return err
	}
	start, end, err := parseDates(q.StartDate, q.EndDate)
	if err != nil {
		return err
	}

	avail, err := h.svc.CheckAvailability(c.Request().Context(), listingID, start, end)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToAvailabilityResponse(listingID, start, end, avail))
}
