package service

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/metrics"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/repository"
	"github.com/iliyamo/cinemavault/internal/upstream"
)

// Catalog serves the movie list and movie details.  It merges upstream
// results with movies created locally while the upstream was down, and
// degrades to the static mock tables instead of failing.
type Catalog struct {
	client     *upstream.Client
	local      repository.MovieStore
	defaultKey string
	now        func() time.Time
}

// NewCatalog returns a catalog gateway.  defaultKey is sent as the API key
// when the caller supplies none.
func NewCatalog(client *upstream.Client, local repository.MovieStore, defaultKey string, now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{client: client, local: local, defaultKey: defaultKey, now: now}
}

// MovieList is the response of ListMovies.
type MovieList struct {
	Movies []model.Movie `json:"movies"`
	Meta   model.Meta    `json:"meta"`
}

// ListMovies returns upstream movies followed by local ones, tagged api.
// When every host fails it returns the mock set followed by local movies,
// tagged fallback.  It never fails.
func (c *Catalog) ListMovies(ctx context.Context, apiKey string) MovieList {
	if apiKey == "" {
		apiKey = c.defaultKey
	}
	local := c.localMovies(ctx)

	remote, _, err := upstream.Call(ctx, c.client, "list_movies", http.MethodGet, "/films",
		upstream.KeyHeader(apiKey), nil, upstream.DecodeJSON[[]upstreamMovie]())

	var (
		movies   []model.Movie
		apiCount int
		meta     = model.Meta{Timestamp: c.now().UTC()}
	)
	if err != nil {
		log.Info().Str("component", "catalog").Msg("all endpoints failed, returning mock data")
		movies = MockMovies()
		meta.Source = model.SourceFallback
		meta.Error = "All API endpoints failed"
	} else {
		movies = make([]model.Movie, 0, len(remote)+len(local))
		for _, u := range remote {
			movies = append(movies, u.movie(placeholderDetailPoster))
		}
		apiCount = len(remote)
		meta.Source = model.SourceAPI
	}
	movies = append(movies, local...)

	total, localCount := len(movies), len(local)
	meta.Total, meta.APICount, meta.LocalCount = &total, &apiCount, &localCount
	metrics.Responses.WithLabelValues("list_movies", meta.Source).Inc()
	return MovieList{Movies: movies, Meta: meta}
}

// GetMovie returns a single movie.  On upstream failure it falls back to
// a locally created movie, the mock detail table and finally a generic
// sample record.
func (c *Catalog) GetMovie(ctx context.Context, id string) model.MovieWithMeta {
	m, source := c.lookup(ctx, id)
	if source == "" {
		m, source = sampleMovie(id), model.SourceMock
	}
	metrics.Responses.WithLabelValues("get_movie", source).Inc()
	return model.MovieWithMeta{Movie: m, Meta: model.Meta{Source: source, Timestamp: c.now().UTC()}}
}

// LookupMovie returns a known movie without the generic sample fallback.
func (c *Catalog) LookupMovie(ctx context.Context, id string) (model.Movie, bool) {
	m, source := c.lookup(ctx, id)
	return m, source != ""
}

func (c *Catalog) lookup(ctx context.Context, id string) (model.Movie, string) {
	u, _, err := upstream.Call(ctx, c.client, "get_movie", http.MethodGet, "/film/"+url.PathEscape(id),
		nil, nil, upstream.DecodeJSON[upstreamMovie]())
	if err == nil {
		if u.Price.ok && u.Price.v > 1 {
			u.Price.v /= 100
		}
		m := u.movie(placeholderDetailPoster)
		if m.ID == "" {
			m.ID = id
		}
		return m, model.SourceAPI
	}
	if c.local != nil {
		lm, ok, lerr := c.local.FindByID(ctx, id)
		if lerr != nil {
			log.Warn().Str("component", "catalog").Err(lerr).Str("id", id).Msg("local movie lookup failed")
		} else if ok {
			return lm.Movie(), model.SourceLocal
		}
	}
	if m, ok := mockDetails[id]; ok {
		return m, model.SourceMock
	}
	return model.Movie{}, ""
}

func (c *Catalog) localMovies(ctx context.Context) []model.Movie {
	if c.local == nil {
		return nil
	}
	stored, err := c.local.All(ctx)
	if err != nil {
		log.Warn().Str("component", "catalog").Err(err).Msg("listing local movies failed")
		return nil
	}
	out := make([]model.Movie, 0, len(stored))
	for _, lm := range stored {
		out = append(out, lm.Movie())
	}
	return out
}
