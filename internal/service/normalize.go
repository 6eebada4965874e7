package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/iliyamo/cinemavault/internal/model"
)

// number accepts a JSON number or a string starting with one ("142 min",
// "8.7").  Anything else leaves it unset.
type number struct {
	v  float64
	ok bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	if v, ok := leadingNumber(s); ok {
		n.v, n.ok = v, true
	}
	return nil
}

func (n number) or(def float64) float64 {
	if n.ok {
		return n.v
	}
	return def
}

// leadingNumber parses the longest numeric prefix of s.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	dot := false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' && i == 0:
		case r == '.' && !dot:
			dot = true
		default:
			break scan
		}
		end = i + 1
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// text accepts a JSON string or number.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*t = text(n.String())
	}
	return nil
}

// names accepts a JSON array of strings or a comma separated string.
type names []string

func (c *names) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = splitNames(s)
	}
	return nil
}

func splitNames(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// upstreamMovie is the loosely typed film record returned by the film API.
type upstreamMovie struct {
	ID          text   `json:"_id"`
	AltID       text   `json:"id"`
	Title       string `json:"title"`
	Poster      string `json:"poster"`
	Image       string `json:"image"`
	Thumbnail   string `json:"thumbnail"`
	Genre       string `json:"genre"`
	Year        number `json:"year"`
	Duration    number `json:"duration"`
	Runtime     number `json:"runtime"`
	Rating      number `json:"rating"`
	Price       number `json:"price"`
	Description string `json:"description"`
	Director    string `json:"director"`
	Cast        names  `json:"cast"`
	ReleaseDate string `json:"releaseDate"`
	Language    string `json:"language"`
}

// poster returns the first non-empty image field, or fallback.
func (u upstreamMovie) poster(fallback string) string {
	for _, p := range []string{u.Poster, u.Image, u.Thumbnail} {
		if p != "" {
			return p
		}
	}
	return fallback
}

// movie maps the record into the catalog shape.  A missing or zero price
// is derived from the rating.
func (u upstreamMovie) movie(fallbackPoster string) model.Movie {
	id := string(u.ID)
	if id == "" {
		id = string(u.AltID)
	}
	rating := u.Rating.or(0)
	price := u.Price.or(0)
	if price <= 0 {
		price = PriceFromRating(rating)
	}
	cast := []string(u.Cast)
	if cast == nil {
		cast = []string{}
	}
	return model.Movie{
		ID:          id,
		Title:       u.Title,
		Poster:      u.poster(fallbackPoster),
		Genre:       u.Genre,
		Year:        int(u.Year.or(0)),
		Duration:    int(u.Duration.or(u.Runtime.or(0))),
		Rating:      rating,
		Price:       price,
		Description: u.Description,
		Director:    u.Director,
		Cast:        cast,
		ReleaseDate: u.ReleaseDate,
		Language:    u.Language,
	}
}
