package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIKeyHeader carries the static film API key.
const APIKeyHeader = "k"

// RequireAPIKey aborts with 401 and body when the k header is absent.
// The key itself is not checked here; the upstream API validates it.
func RequireAPIKey(body echo.Map) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.TrimSpace(c.Request().Header.Get(APIKeyHeader)) == "" {
				return c.JSON(http.StatusUnauthorized, body)
			}
			return next(c)
		}
	}
}

// RequireBearerOrAPIKey aborts with 401 unless the request carries either
// an Authorization header or the k header.
func RequireBearerOrAPIKey() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			if h.Get(echo.HeaderAuthorization) == "" && h.Get(APIKeyHeader) == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization required"})
			}
			return next(c)
		}
	}
}
