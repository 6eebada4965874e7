package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/metrics"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/upstream"
)

// Searcher looks movies up by title on the upstream search endpoint.
type Searcher struct {
	client *upstream.Client
	now    func() time.Time
}

func NewSearcher(client *upstream.Client, now func() time.Time) *Searcher {
	if now == nil {
		now = time.Now
	}
	return &Searcher{client: client, now: now}
}

// searchPayload holds both response shapes.  encoding/json prefers exact
// key matches, so OMDb keys (Title) and normalized keys (title) land in
// their own fields.
type searchPayload struct {
	upstreamMovie

	Response   string `json:"Response"`
	Error      string `json:"Error"`
	OTitle     string `json:"Title"`
	Actors     string `json:"Actors"`
	ORuntime   string `json:"Runtime"`
	IMDbRating string `json:"imdbRating"`
	OYear      string `json:"Year"`
	OGenre     string `json:"Genre"`
	Plot       string `json:"Plot"`
	ODirector  string `json:"Director"`
	Released   string `json:"Released"`
	OPoster    string `json:"Poster"`
	IMDbID     string `json:"imdbID"`
	IMDbVotes  string `json:"imdbVotes"`
}

func (p searchPayload) isOMDb() bool { return p.Response == "True" || p.OTitle != "" }

// SearchMovie returns a single movie for title.  authorization is
// forwarded to the upstream.  An upstream 401 stops the search with
// ErrUnauthorized; any other failure moves to the next host, and total
// failure yields a placeholder tagged mock.
func (s *Searcher) SearchMovie(ctx context.Context, title, authorization string) (model.MovieWithMeta, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.MovieWithMeta{}, invalid("Title parameter is required")
	}
	if strings.TrimSpace(authorization) == "" {
		return model.MovieWithMeta{}, ErrUnauthorized
	}

	header := http.Header{}
	header.Set("Authorization", authorization)
	header.Set("User-Agent", "CinemaVault/1.0")
	decode := upstream.DecodeJSON[searchPayload]()

	endpoints := s.client.Endpoints("/ofilm/" + url.PathEscape(title))
	p, _, err := upstream.FirstSuccess(ctx, "search_movie", s.client.Timeout(), endpoints,
		func(ctx context.Context, ep string) (searchPayload, error) {
			body, err := s.client.Do(ctx, http.MethodGet, ep, header, nil)
			if err != nil {
				var se *upstream.StatusError
				if errors.As(err, &se) && se.Code == http.StatusUnauthorized {
					return searchPayload{}, upstream.Terminal(err)
				}
				return searchPayload{}, err
			}
			p, err := decode(body)
			if err != nil {
				return p, err
			}
			if !p.isOMDb() && p.Error != "" {
				return p, fmt.Errorf("search error: %s", p.Error)
			}
			return p, nil
		})

	now := s.now().UTC()
	switch {
	case errors.Is(err, upstream.ErrTerminal):
		return model.MovieWithMeta{}, errors.Join(ErrUnauthorized, ErrTokenRejected)
	case err != nil:
		log.Info().Str("component", "search").Str("title", title).Msg("all search endpoints failed, returning mock data")
		metrics.Responses.WithLabelValues("search_movie", model.SourceMock).Inc()
		return model.MovieWithMeta{Movie: placeholderSearch(title, now), Meta: model.Meta{Source: model.SourceMock, Timestamp: now}}, nil
	case p.isOMDb():
		metrics.Responses.WithLabelValues("search_movie", model.SourceOMDb).Inc()
		return fromOMDb(p, title, now), nil
	default:
		metrics.Responses.WithLabelValues("search_movie", model.SourceAPI).Inc()
		return fromNormalized(p, title, now), nil
	}
}

func fromOMDb(p searchPayload, query string, now time.Time) model.MovieWithMeta {
	duration := 120
	if v, ok := leadingNumber(p.ORuntime); ok {
		duration = int(v)
	}
	rating, _ := leadingNumber(p.IMDbRating)
	year := now.Year()
	if v, ok := leadingNumber(p.OYear); ok {
		year = int(v)
	}
	m := model.Movie{
		Title:       firstNonEmpty(p.OTitle, query),
		Poster:      firstNonEmpty(p.OPoster, placeholderSearchPoster),
		Genre:       firstNonEmpty(p.OGenre, "Unknown"),
		Year:        year,
		Duration:    duration,
		Rating:      rating,
		Price:       PriceFromRating(rating),
		Description: firstNonEmpty(p.Plot, "No description available"),
		Director:    firstNonEmpty(p.ODirector, "Unknown"),
		Cast:        splitNames(p.Actors),
		ReleaseDate: firstNonEmpty(p.Released, now.Format("2006-01-02")),
	}
	return model.MovieWithMeta{Movie: m, Meta: model.Meta{
		Source:     model.SourceOMDb,
		Timestamp:  now,
		IMDbID:     p.IMDbID,
		IMDbRating: p.IMDbRating,
		IMDbVotes:  p.IMDbVotes,
	}}
}

func fromNormalized(p searchPayload, query string, now time.Time) model.MovieWithMeta {
	u := p.upstreamMovie
	rating := u.Rating.or(0)
	price := u.Price.or(0)
	if price <= 0 {
		price = PriceFromRating(rating)
	}
	cast := []string(u.Cast)
	if cast == nil {
		cast = []string{}
	}
	m := model.Movie{
		Title:       firstNonEmpty(u.Title, query),
		Poster:      u.poster(placeholderSearchPoster),
		Genre:       firstNonEmpty(u.Genre, "Unknown"),
		Year:        int(u.Year.or(float64(now.Year()))),
		Duration:    int(u.Duration.or(120)),
		Rating:      rating,
		Price:       price,
		Description: firstNonEmpty(u.Description, "No description available"),
		Director:    firstNonEmpty(u.Director, "Unknown"),
		Cast:        cast,
		ReleaseDate: firstNonEmpty(u.ReleaseDate, now.Format("2006-01-02")),
	}
	return model.MovieWithMeta{Movie: m, Meta: model.Meta{Source: model.SourceAPI, Timestamp: now}}
}

func placeholderSearch(title string, now time.Time) model.Movie {
	return model.Movie{
		Title:       title,
		Poster:      placeholderSearchPoster,
		Genre:       "Unknown",
		Year:        now.Year(),
		Duration:    120,
		Description: "No description available",
		Director:    "Unknown",
		Cast:        []string{},
		ReleaseDate: now.Format("2006-01-02"),
		Price:       PriceFromRating(0),
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
