package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Eursukkul/stay-service/internal/dto"
	"github.com/Eursukkul/stay-service/internal/models"
	"github.com/Eursukkul/stay-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var kindStatus = map[string]int{
	"not_found":          http.StatusNotFound,
	"not_authorized":     http.StatusForbidden,
	"invalid_attribute":  http.StatusBadRequest,
	"invalid_date_range": http.StatusBadRequest,
	"invalid_rating":     http.StatusBadRequest,
	"date_conflict":      http.StatusConflict,
	"duplicate_review":   http.StatusConflict,
	"unavailable":        http.StatusServiceUnavailable,
}

// toHTTPError translates a service error into an *echo.HTTPError. Unknown
// errors are passed through and rendered as an opaque 500.
func toHTTPError(err error) error {
	kind := service.Kind(err)
	status, ok := kindStatus[kind]
	if !ok {
		return err
	}

	resp := dto.ErrorResponse{Message: err.Error(), Kind: kind}
	if kind == "unavailable" {
		resp.Message = service.ErrUnavailable.Error()
	}
	var fe *service.FieldError
	if errors.As(err, &fe) {
		resp.Field = fe.Field
	}
	return echo.NewHTTPError(status, resp)
}

func badRequest(field, msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, dto.ErrorResponse{
		Message: msg,
		Kind:    "invalid_attribute",
		Field:   field,
	})
}

func parseID(c echo.Context, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest("id", "invalid "+what+" id")
	}
	return id, nil
}

func parseDates(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("start_date", "start_date must be a date formatted YYYY-MM-DD")
	}
	e, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("end_date", "end_date must be a date formatted YYYY-MM-DD")
	}
	return s, e, nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("", "invalid request body")
	}
	return c.Validate(req)
}
