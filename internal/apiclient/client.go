// Package apiclient is a small client for the storefront HTTP API, used
// by vaultctl and the wallet orchestrator to log in, browse and record
// rentals.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/upstream"
)

// APIError is a non-2xx answer from the storefront.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one storefront (several base URLs act as fallbacks).
// It keeps the session token returned by Login.
type Client struct {
	http *upstream.Client

	mu      sync.RWMutex
	token   string
	user    model.Principal
	expires time.Time
}

func New(baseURLs []string, timeout time.Duration) *Client {
	return &Client{http: upstream.NewClient(baseURLs, timeout)}
}

// SetToken installs a previously issued session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Session returns the principal and token expiry from the last Login.
func (c *Client) Session() (model.Principal, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user, c.expires
}

func (c *Client) header() http.Header {
	h := http.Header{}
	if t := c.Token(); t != "" {
		h.Set("Authorization", "Bearer "+t)
	}
	return h
}

// call runs one API request and maps failures to *APIError when the
// storefront answered.
func call[T any](ctx context.Context, c *Client, op, method, path string, header http.Header, body any) (T, error) {
	v, _, err := upstream.Call(ctx, c.http, op, method, path, header, body, upstream.DecodeJSON[T]())
	if err == nil {
		return v, nil
	}
	var se *upstream.StatusError
	if errors.As(err, &se) {
		var eb struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		msg := string(se.Body)
		if json.Unmarshal(se.Body, &eb) == nil {
			switch {
			case eb.Message != "":
				msg = eb.Message
			case eb.Error != "":
				msg = eb.Error
			}
		}
		return v, &APIError{Status: se.Code, Message: msg}
	}
	return v, err
}

type loginResp struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      model.Principal `json:"user"`
}

// Login authenticates as staff or, with kind "wallet", as the wallet
// whose address is username.  The token is kept for later calls.
func (c *Client) Login(ctx context.Context, username, password, kind string) (model.Principal, error) {
	body := map[string]string{"username": username, "password": password, "type": kind}
	out, err := call[loginResp](ctx, c, "client_login", http.MethodPost, "/api/auth/login", nil, body)
	if err != nil {
		return model.Principal{}, err
	}
	c.mu.Lock()
	c.token, c.user, c.expires = out.Token, out.User, out.ExpiresAt
	c.mu.Unlock()
	return out.User, nil
}

// MovieList mirrors the list route's response.
type MovieList struct {
	Movies []model.Movie `json:"movies"`
	Meta   model.Meta    `json:"meta"`
}

// Movies lists the catalog.
func (c *Client) Movies(ctx context.Context) (MovieList, error) {
	return call[MovieList](ctx, c, "client_movies", http.MethodGet, "/api/movies", c.header(), nil)
}

// Movie returns one movie with its provenance.
func (c *Client) Movie(ctx context.Context, id string) (model.MovieWithMeta, error) {
	return call[model.MovieWithMeta](ctx, c, "client_movie", http.MethodGet, "/api/movies/"+url.PathEscape(id), c.header(), nil)
}

type rentalResp struct {
	Rental  model.Rental   `json:"rental"`
	Rentals []model.Rental `json:"rentals"`
}

// RecordRental records a paid rental for the logged in principal.
func (c *Client) RecordRental(ctx context.Context, movieID string, price float64, txHash, wallet string) (model.Rental, error) {
	body := map[string]any{
		"movieId":         movieID,
		"price":           price,
		"transactionHash": txHash,
		"walletAddress":   wallet,
	}
	out, err := call[rentalResp](ctx, c, "client_rent", http.MethodPost, "/api/rent", c.header(), body)
	return out.Rental, err
}

// Rentals lists rentals, only wallet's when wallet is set.
func (c *Client) Rentals(ctx context.Context, wallet string) ([]model.Rental, error) {
	path := "/api/rent"
	if wallet != "" {
		path += "?walletAddress=" + url.QueryEscape(wallet)
	}
	out, err := call[rentalResp](ctx, c, "client_rentals", http.MethodGet, path, c.header(), nil)
	return out.Rentals, err
}

// ExtendRental pushes the end of rental id to end, or by one rental
// window when end is zero.
func (c *Client) ExtendRental(ctx context.Context, id string, end time.Time, txHash string) (model.Rental, error) {
	body := map[string]string{"id": id, "transactionHash": txHash}
	if !end.IsZero() {
		body["endTime"] = end.UTC().Format(time.RFC3339)
	}
	out, err := call[rentalResp](ctx, c, "client_extend", http.MethodPut, "/api/rent", c.header(), body)
	return out.Rental, err
}
