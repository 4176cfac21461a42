package middleware

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/stay-service/internal/dto"
	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the caller's identity, asserted by the upstream
// identity service.
const HeaderUserID = "X-User-ID"

const contextKeyUserID = "userID"

// Identity stores the X-User-ID header, if any, on the request context.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id := strings.TrimSpace(c.Request().Header.Get(HeaderUserID)); id != "" {
				c.Set(contextKeyUserID, id)
			}
			return next(c)
		}
	}
}

// UserID returns the caller's identity or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(contextKeyUserID).(string)
	return id
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UserID(c) == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, dto.ErrorResponse{
				Message: HeaderUserID + " header is required",
				Kind:    "not_authenticated",
			})
		}
		return next(c)
	}
}
