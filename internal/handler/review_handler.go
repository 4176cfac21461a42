package handler

import (
	"net/http"

	"github.com/Eursukkul/stay-service/internal/dto"
	"github.com/Eursukkul/stay-service/internal/middleware"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

func (h *ReviewHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/listings/:id/reviews", h.CreateReview, middleware.RequireIdentity)
	g.GET("/listings/:id/reviews", h.ListReviews)
	g.GET("/reviews/:id", h.GetReview)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	listingID, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	var req dto.CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.svc.CreateReview(c.Request().Context(), listingID, middleware.UserID(c), req.Rating, req.Comment)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToReviewResponse(review))
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	id, err := parseID(c, "review")
	if err != nil {
		return err
	}

	review, err := h.svc.GetReview(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToReviewResponse(review))
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	listingID, err := parseID(c, "listing")
	if err != nil {
		return err
	}

	reviews, err := h.svc.ListReviews(c.Request().Context(), listingID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToReviewListResponse(reviews))
}
