package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/config"
)

// cachedResponse is the value stored per cache key.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// bodyRecorder tees the response body into buf while it fits in limit
// bytes (no limit when limit <= 0).
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.buf.Len()+len(b) > r.limit {
			r.overflow = true
			r.buf.Reset()
		} else {
			r.buf.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// cacheKey hashes the request parts selected by cfg.KeyStrategy.  Query
// parameters are encoded in sorted order.
func cacheKey(cfg config.CacheConfig, r *http.Request) string {
	path, query := r.URL.Path, r.URL.Query().Encode()
	var id string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
		id = path
	case "method_route":
		id = r.Method + " " + path
	case "method_route_query":
		id = r.Method + " " + path + "?" + query
	default: // route_query
		id = path + "?" + query
	}
	sum := sha256.Sum256([]byte(id))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:20])
}

// replayHeader reports whether a stored header is restored on a hit.
func replayHeader(name string) bool {
	switch http.CanonicalHeaderKey(name) {
	case echo.HeaderContentLength, "Date", "X-Cache", "X-Ratelimit-Remaining", "X-Ratelimit-Limit":
		return false
	}
	return true
}

func replay(c echo.Context, cr cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range cr.Header {
		if replayHeader(k) {
			h[k] = append([]string(nil), vals...)
		}
	}
	h.Set("X-Cache", "HIT")
	return c.Blob(cr.Status, h.Get(echo.HeaderContentType), cr.Body)
}

// NewRedisCache serves repeated lookups from Redis.  Only 200 responses
// of the methods in cfg.Methods are stored, for cfg.TTL; bodies larger
// than cfg.MaxBodyBytes are not stored.  Without Redis it does nothing.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	logger := log.With().Str("component", "cache").Logger()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !cfg.Caches(req.Method) {
				return next(c)
			}
			key := cacheKey(cfg, req)

			raw, err := rdb.Get(req.Context(), key).Bytes()
			switch {
			case err == nil:
				var cr cachedResponse
				if jerr := json.Unmarshal(raw, &cr); jerr == nil {
					return replay(c, cr)
				}
				logger.Debug().Str("key", key).Msg("dropping undecodable cache entry")
			case !errors.Is(err, redis.Nil):
				logger.Debug().Err(err).Msg("cache read failed")
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}

			payload, err := json.Marshal(cachedResponse{
				Status: rec.status,
				Header: c.Response().Header().Clone(),
				Body:   rec.buf.Bytes(),
			})
			if err == nil {
				err = rdb.Set(context.WithoutCancel(req.Context()), key, payload, ttl).Err()
			}
			if err != nil {
				logger.Debug().Err(err).Msg("cache store failed")
			}
			return nil
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
