package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/service"
)

// SearchHandler serves title search.
type SearchHandler struct {
	Searcher *service.Searcher
}

func NewSearchHandler(s *service.Searcher) *SearchHandler { return &SearchHandler{Searcher: s} }

// Search handles GET /api/search-movie?title=.  The caller's
// Authorization header is forwarded upstream as is.
func (h *SearchHandler) Search(c echo.Context) error {
	title := c.QueryParam("title")
	auth := c.Request().Header.Get(echo.HeaderAuthorization)

	res, err := h.Searcher.SearchMovie(c.Request().Context(), title, auth)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, res)
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrTokenRejected):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired authorization token"})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization token is required"})
	}
	log.Error().Str("component", "search").Err(err).Msg("search failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to search movie"})
}
