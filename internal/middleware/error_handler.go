package middleware

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/stay-service/internal/dto"
	"github.com/Eursukkul/stay-service/pkg/logger"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as a dto.ErrorResponse. Errors that are
// not *echo.HTTPError become an opaque 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	resp := dto.ErrorResponse{Message: http.StatusText(code), Kind: "internal"}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case dto.ErrorResponse:
			resp = m
		case string:
			resp = dto.ErrorResponse{Message: m}
		default:
			resp = dto.ErrorResponse{Message: http.StatusText(code)}
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Log.WithField("uri", c.Request().RequestURI).Errorf("request failed: %v", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, resp)
}
