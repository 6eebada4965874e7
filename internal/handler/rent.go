package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/middleware"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/repository"
	"github.com/iliyamo/cinemavault/internal/service"
)

// RentHandler serves /api/rent.  Every route expects a principal set by
// the bearer middleware.
type RentHandler struct {
	Ledger *service.Ledger
}

func NewRentHandler(l *service.Ledger) *RentHandler { return &RentHandler{Ledger: l} }

// ----- DTOs -----

type extendRentalReq struct {
	ID              string `json:"id"`
	EndTime         string `json:"endTime"`
	TransactionHash string `json:"transactionHash"`
}

// rentalPeriod is the human readable model.RentalWindow.
const rentalPeriod = "48 hours"

// Create records a paid rental.
func (h *RentHandler) Create(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	var req service.NewRental
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	r, err := h.Ledger.CreateRental(c.Request().Context(), p, req)
	if err != nil {
		return rentalError(c, err, "Failed to record rental")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"rental":       r,
		"message":      "Movie rented successfully",
		"rentalPeriod": rentalPeriod,
		"expiresAt":    r.EndTime,
	})
}

// List returns all rentals, filtered by ?walletAddress= when given.
func (h *RentHandler) List(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	owner := strings.TrimSpace(c.QueryParam("walletAddress"))
	rentals, err := h.Ledger.ListRentals(c.Request().Context(), p, owner)
	if err != nil {
		return rentalError(c, err, "Failed to fetch rentals")
	}
	if rentals == nil {
		rentals = []model.Rental{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "rentals": rentals})
}

// Extend moves the end of a rental.  An empty endTime extends by one
// rental window.
func (h *RentHandler) Extend(c echo.Context) error {
	p, _ := middleware.PrincipalFrom(c)
	var req extendRentalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}
	if strings.TrimSpace(req.ID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Rental ID is required"})
	}
	var end time.Time
	if req.EndTime != "" {
		t, err := time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "endTime must be an RFC 3339 timestamp"})
		}
		end = t
	}
	r, err := h.Ledger.ExtendRental(c.Request().Context(), p, req.ID, end, req.TransactionHash)
	if err != nil {
		return rentalError(c, err, "Failed to update rental")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "rental": r, "message": "Rental updated successfully"})
}

func rentalError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Authorization required"})
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
	case errors.Is(err, repository.ErrRentalNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Rental not found"})
	}
	log.Error().Str("component", "rental").Err(err).Msg(fallback)
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": fallback})
}
