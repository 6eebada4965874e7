package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/metrics"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/repository"
	"github.com/iliyamo/cinemavault/internal/upstream"
)

// requiredMovieFields must be present and non-empty on a submission.
var requiredMovieFields = []string{"title", "year", "runtime", "language", "genre", "director", "poster"}

// movieSubmission is the body sent to the upstream create endpoint.
type movieSubmission struct {
	Title       string   `json:"title"`
	Year        string   `json:"year"`
	Runtime     int      `json:"runtime"`
	Language    string   `json:"language"`
	Genre       string   `json:"genre"`
	Director    string   `json:"director"`
	Poster      string   `json:"poster"`
	Description string   `json:"description"`
	Cast        []string `json:"cast"`
	Rating      float64  `json:"rating"`
	Price       float64  `json:"price"`
}

// CreatedMovie is the result of CreateMovie.  Movie holds the upstream
// response body (source api) or the stored model.LocalMovie (source local).
type CreatedMovie struct {
	Movie  any
	Source string
}

// CreateMovie validates fields and forwards the movie to the upstream API
// with apiKey.  When every host fails the movie is kept in the local store
// under a local_<millis> id and reported with source local.
func (c *Catalog) CreateMovie(ctx context.Context, fields map[string]any, apiKey string) (CreatedMovie, error) {
	if apiKey == "" {
		return CreatedMovie{}, ErrUnauthorized
	}
	sub, err := normalizeSubmission(fields)
	if err != nil {
		return CreatedMovie{}, err
	}

	body, _, err := upstream.Call(ctx, c.client, "create_movie", http.MethodPost, "/film",
		upstream.KeyHeader(apiKey), sub, decodeLoose)
	if err == nil {
		metrics.Responses.WithLabelValues("create_movie", model.SourceAPI).Inc()
		return CreatedMovie{Movie: body, Source: model.SourceAPI}, nil
	}

	log.Info().Str("component", "catalog").Str("title", sub.Title).Msg("create endpoints failed, saving to local storage")
	if c.local == nil {
		return CreatedMovie{}, err
	}
	lm := model.LocalMovie{
		Title:       sub.Title,
		Year:        sub.Year,
		Runtime:     sub.Runtime,
		Language:    sub.Language,
		Genre:       sub.Genre,
		Director:    sub.Director,
		Poster:      sub.Poster,
		Description: sub.Description,
		Cast:        sub.Cast,
		Rating:      sub.Rating,
		Price:       sub.Price,
		CreatedAt:   c.now().UTC(),
	}
	millis := lm.CreatedAt.UnixMilli()
	for {
		lm.ID = fmt.Sprintf("local_%d", millis)
		serr := c.local.Add(ctx, lm)
		if serr == nil {
			break
		}
		if !errors.Is(serr, repository.ErrConflict) {
			return CreatedMovie{}, fmt.Errorf("store local movie: %w", serr)
		}
		millis++
	}
	metrics.Responses.WithLabelValues("create_movie", model.SourceLocal).Inc()
	return CreatedMovie{Movie: lm, Source: model.SourceLocal}, nil
}

// decodeLoose accepts any 2xx body; non-JSON bodies become an empty object.
func decodeLoose(b []byte) (json.RawMessage, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || !json.Valid(b) {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(b), nil
}

func normalizeSubmission(fields map[string]any) (movieSubmission, error) {
	var missing []string
	for _, f := range requiredMovieFields {
		if !present(fields[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return movieSubmission{}, &ValidationError{Reason: "Missing required fields", Missing: missing}
	}

	runtime, ok := toInt(fields["runtime"])
	if !ok {
		return movieSubmission{}, invalid("runtime must be a number")
	}
	sub := movieSubmission{
		Title:       toString(fields["title"]),
		Year:        toString(fields["year"]),
		Runtime:     runtime,
		Language:    toString(fields["language"]),
		Genre:       toString(fields["genre"]),
		Director:    toString(fields["director"]),
		Poster:      toString(fields["poster"]),
		Description: toString(fields["description"]),
		Cast:        toNames(fields["cast"]),
	}
	sub.Rating, _ = toFloat(fields["rating"])
	if p, ok := toFloat(fields["price"]); ok && p > 0 {
		sub.Price = p
	} else {
		sub.Price = PriceFromRating(sub.Rating)
	}
	return sub, nil
}

// present mirrors a truthiness check: nil, "", 0 and false are absent.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		return leadingNumber(t)
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	return int(f), ok
}

func toNames(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s := strings.TrimSpace(toString(e)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	case string:
		return splitNames(t)
	}
	return []string{}
}
