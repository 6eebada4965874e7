package model

import (
	"strconv"
	"strings"
	"time"
)

// Movie is the catalog projection served to clients.  It is sourced
// either from the upstream film API, from search normalization, from the
// static mock tables or from a local fallback write.  Records are never
// mutated in place once fetched.
//
// Fields:
//  ID          – upstream identifier (or local_<millis> for fallback writes).
//  Title       – display title.
//  Poster      – poster image URL.
//  Genre       – comma separated genre list.
//  Year        – release year.
//  Duration    – runtime in minutes.
//  Rating      – 0..10 rating.
//  Price       – rental price in ETH.
//  Description – synopsis.
//  Director    – director name.
//  Cast        – ordered cast names.
//  ReleaseDate – YYYY-MM-DD.
//
// Runtime, Language and CreatedAt are only set on locally created movies.
type Movie struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Poster      string   `json:"poster"`
	Genre       string   `json:"genre"`
	Year        int      `json:"year"`
	Duration    int      `json:"duration"`
	Rating      float64  `json:"rating"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Director    string   `json:"director"`
	Cast        []string `json:"cast"`
	ReleaseDate string   `json:"releaseDate"`

	Runtime   int        `json:"runtime,omitempty"`
	Language  string     `json:"language,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// MovieWithMeta is a single movie annotated with its provenance.
type MovieWithMeta struct {
	Movie
	Meta Meta `json:"meta"`
}

// LocalMovie is a movie submission that could not reach the upstream API
// and was kept in the process-local fallback collection instead.  It
// keeps the upstream create schema (string year, integer runtime).
type LocalMovie struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Year        string    `json:"year"`
	Runtime     int       `json:"runtime"`
	Language    string    `json:"language"`
	Genre       string    `json:"genre"`
	Director    string    `json:"director"`
	Poster      string    `json:"poster"`
	Description string    `json:"description"`
	Cast        []string  `json:"cast"`
	Rating      float64   `json:"rating"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Movie projects the local record into the catalog shape.
func (l LocalMovie) Movie() Movie {
	year, _ := strconv.Atoi(strings.TrimSpace(l.Year))
	created := l.CreatedAt
	return Movie{
		ID:          l.ID,
		Title:       l.Title,
		Poster:      l.Poster,
		Genre:       l.Genre,
		Year:        year,
		Duration:    l.Runtime,
		Rating:      l.Rating,
		Price:       l.Price,
		Description: l.Description,
		Director:    l.Director,
		Cast:        l.Cast,
		Runtime:     l.Runtime,
		Language:    l.Language,
		CreatedAt:   &created,
	}
}

// Provenance tags attached to gateway responses.
const (
	SourceAPI      = "api"
	SourceMock     = "mock"
	SourceFallback = "fallback"
	SourceLocal    = "local"
	SourceOMDb     = "omdb"
)

// Meta describes where a response came from.
type Meta struct {
	Source     string    `json:"source"`
	Timestamp  time.Time `json:"timestamp"`
	Total      *int      `json:"total,omitempty"`
	APICount   *int      `json:"apiCount,omitempty"`
	LocalCount *int      `json:"localCount,omitempty"`
	Error      string    `json:"error,omitempty"`
	IMDbID     string    `json:"imdbID,omitempty"`
	IMDbRating string    `json:"imdbRating,omitempty"`
	IMDbVotes  string    `json:"imdbVotes,omitempty"`
}
