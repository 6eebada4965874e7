package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinemavault/internal/model"
)

// TokenVerifier turns an Authorization header value into a principal.
type TokenVerifier interface {
	Verify(raw string) (model.Principal, error)
}

// RequireBearer rejects requests without a valid bearer token with 401 and
// the given message.  On success the principal is stored in the context
// (see PrincipalFrom).
func RequireBearer(v TokenVerifier, missingMsg string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if auth == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": missingMsg})
			}
			p, err := v.Verify(auth)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}
			setPrincipal(c, p)
			return next(c)
		}
	}
}

// OptionalBearer stores the principal when the request carries a valid
// bearer token and passes every request through.
func OptionalBearer(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
				if p, err := v.Verify(auth); err == nil {
					setPrincipal(c, p)
				}
			}
			return next(c)
		}
	}
}
