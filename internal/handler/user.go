package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinemavault/internal/middleware"
	"github.com/iliyamo/cinemavault/internal/service"
)

// UserHandler serves the staff profile routes.
type UserHandler struct {
	Profile *service.Profile
}

func NewUserHandler(p *service.Profile) *UserHandler { return &UserHandler{Profile: p} }

func apiKey(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(middleware.APIKeyHeader))
}

// Get returns the upstream user record.
func (h *UserHandler) Get(c echo.Context) error {
	data, err := h.Profile.GetUser(c.Request().Context(), apiKey(c))
	if errors.Is(err, service.ErrUnauthorized) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "API key (k) is required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "Failed to fetch user data",
			"details": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// Update forwards a profile update.
func (h *UserHandler) Update(c echo.Context) error {
	var req service.UserUpdate
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	err := h.Profile.UpdateUser(c.Request().Context(), apiKey(c), req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User updated successfully"})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "API key (k) is required"})
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"error":   "Failed to update user",
		"details": err.Error(),
	})
}

// Detail returns the staff profile details, falling back to the built-in
// profile when the upstream is down.
func (h *UserHandler) Detail(c echo.Context) error {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	detail, err := h.Profile.UserDetail(c.Request().Context(), apiKey(c), auth)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization required"})
	}
	return c.JSON(http.StatusOK, detail)
}
