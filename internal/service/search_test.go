package service

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemavault/internal/model"
)

func TestSearchMovieOMDbShape(t *testing.T) {
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ofilm/The Matrix", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "CinemaVault/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"Response":"True","Title":"The Matrix","Actors":"Keanu Reeves, Carrie-Anne Moss",
			"Runtime":"136 min","imdbRating":"8.7","Year":"1999","Genre":"Action, Sci-Fi","Plot":"Neo.",
			"Director":"Lana Wachowski","Released":"31 Mar 1999","Poster":"http://p","imdbID":"tt0133093","imdbVotes":"2,000,000"}`))
	})
	s := NewSearcher(clientFor(api), newClock().Now)
	got, err := s.SearchMovie(context.Background(), " The Matrix ", "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, model.SourceOMDb, got.Meta.Source)
	assert.Equal(t, "tt0133093", got.Meta.IMDbID)
	assert.Equal(t, "8.7", got.Meta.IMDbRating)
	assert.Equal(t, "The Matrix", got.Title)
	assert.Equal(t, []string{"Keanu Reeves", "Carrie-Anne Moss"}, got.Cast)
	assert.Equal(t, 136, got.Duration)
	assert.Equal(t, 1999, got.Year)
	assert.InDelta(t, 8.7, got.Rating, 1e-9)
	assert.InDelta(t, 0.043, got.Price, 1e-9)
}

func TestSearchMovieNormalizedShape(t *testing.T) {
	api := stub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Heat","image":"i.jpg","rating":8,"price":0.03,"cast":["Al Pacino"]}`))
	})
	clk := newClock()
	s := NewSearcher(clientFor(api), clk.Now)
	got, err := s.SearchMovie(context.Background(), "heat", "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, model.SourceAPI, got.Meta.Source)
	assert.Equal(t, "Heat", got.Title)
	assert.Equal(t, "i.jpg", got.Poster)
	assert.Equal(t, "Unknown", got.Genre)
	assert.Equal(t, "Unknown", got.Director)
	assert.Equal(t, 120, got.Duration)
	assert.Equal(t, clk.Now().Year(), got.Year)
	assert.Equal(t, "2025-05-10", got.ReleaseDate)
	assert.InDelta(t, 0.03, got.Price, 1e-9)
}

func TestSearchMovieSkipsBadResponses(t *testing.T) {
	empty := stub(t, func(w http.ResponseWriter, r *http.Request) {})
	omdbErr := stub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
	})
	notFound := stub(t, func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) })
	good := stub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Found","rating":10}`))
	})
	s := NewSearcher(clientFor(empty, omdbErr, notFound, good), nil)
	got, err := s.SearchMovie(context.Background(), "x", "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, "Found", got.Title)
	assert.InDelta(t, 0.049, got.Price, 1e-9)
}

func TestSearchMovieUnauthorizedStops(t *testing.T) {
	var second atomic.Int32
	deny := stub(t, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnauthorized) })
	other := stub(t, func(w http.ResponseWriter, r *http.Request) {
		second.Add(1)
		_, _ = w.Write([]byte(`{"title":"x"}`))
	})
	s := NewSearcher(clientFor(deny, other), nil)
	_, err := s.SearchMovie(context.Background(), "x", "Bearer bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, ErrTokenRejected)
	assert.Zero(t, second.Load())
}

func TestSearchMovieTotalFailureIsMock(t *testing.T) {
	clk := newClock()
	s := NewSearcher(clientFor(deadURL(t), deadURL(t)), clk.Now)
	got, err := s.SearchMovie(context.Background(), "Nothing", "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, model.SourceMock, got.Meta.Source)
	assert.Equal(t, "Nothing", got.Title)
	assert.Equal(t, placeholderSearchPoster, got.Poster)
	assert.InDelta(t, 0.049, got.Price, 1e-9)
	assert.Equal(t, []string{}, got.Cast)
}

func TestSearchMovieInputErrors(t *testing.T) {
	s := NewSearcher(clientFor(deadURL(t)), nil)
	_, err := s.SearchMovie(context.Background(), "  ", "Bearer tok")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.SearchMovie(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
