package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/middleware"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/service"
)

// MissingAPIKeyBody is returned when a movie is submitted without the k
// header.
var MissingAPIKeyBody = echo.Map{
	"success": false,
	"error":   "Missing API key",
	"message": "The 'k' header parameter is required",
}

// MovieHandler serves the catalog routes.
type MovieHandler struct {
	Catalog *service.Catalog
}

func NewMovieHandler(catalog *service.Catalog) *MovieHandler {
	return &MovieHandler{Catalog: catalog}
}

// List returns the upstream catalog merged with locally stored movies, or
// the built-in set when the upstream is down.  Never fails.
func (h *MovieHandler) List(c echo.Context) error {
	key := strings.TrimSpace(c.Request().Header.Get(middleware.APIKeyHeader))
	return c.JSON(http.StatusOK, h.Catalog.ListMovies(c.Request().Context(), key))
}

// Get returns a single movie with its provenance.  Never fails.
func (h *MovieHandler) Get(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Movie ID is required"})
	}
	return c.JSON(http.StatusOK, h.Catalog.GetMovie(c.Request().Context(), id))
}

// Create validates and stores a new movie upstream, or locally when the
// upstream is unreachable.
func (h *MovieHandler) Create(c echo.Context) error {
	key := strings.TrimSpace(c.Request().Header.Get(middleware.APIKeyHeader))

	fields := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid body"})
	}

	created, err := h.Catalog.CreateMovie(c.Request().Context(), fields, key)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, MissingAPIKeyBody)
		case errors.As(err, &ve) && len(ve.Missing) > 0:
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Missing required fields",
				"message": ve.Error(),
				"details": echo.Map{"missingFields": ve.Missing},
			})
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": ve.Error()})
		}
		log.Error().Str("component", "catalog").Err(err).Msg("create movie failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to add film. Please try again.",
		})
	}

	msg := "Movie added successfully to API"
	if created.Source == model.SourceLocal {
		msg = "Movie added successfully to local storage (API unavailable)"
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": msg,
		"movie":   created.Movie,
		"source":  created.Source,
	})
}
