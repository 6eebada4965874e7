package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinemavault/internal/config"
	"github.com/iliyamo/cinemavault/internal/model"
)

type verifierFunc func(string) (model.Principal, error)

func (f verifierFunc) Verify(raw string) (model.Principal, error) { return f(raw) }

var okVerifier = verifierFunc(func(raw string) (model.Principal, error) {
	if raw == "Bearer good" {
		return model.Principal{ID: "2", Type: model.PrincipalCustomer, Wallet: "0xabc"}, nil
	}
	return model.Principal{}, errors.New("bad")
})

func serve(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, *model.Principal) {
	e := echo.New()
	var seen *model.Principal
	e.GET("/x", func(c echo.Context) error {
		if p, ok := PrincipalFrom(c); ok {
			seen = &p
		}
		return c.String(http.StatusOK, "ok")
	}, mw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestRequireBearer(t *testing.T) {
	mw := RequireBearer(okVerifier, "Authorization required")

	rec, _ := serve(mw, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authorization required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec, _ = serve(mw, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec, p := serve(mw, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, "0xabc", p.Wallet)
}

func TestOptionalBearer(t *testing.T) {
	rec, p := serve(OptionalBearer(okVerifier), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, p)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec, p = serve(OptionalBearer(okVerifier), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, p)
}

func TestRequireAPIKey(t *testing.T) {
	mw := RequireAPIKey(echo.Map{"error": "API key (k) is required"})
	rec, _ := serve(mw, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"API key (k) is required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("k", "pcpdfilm")
	rec, _ = serve(mw, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireBearerOrAPIKey(t *testing.T) {
	rec, _ := serve(RequireBearerOrAPIKey(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec, _ = serve(RequireBearerOrAPIKey(), req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRedisMiddlewarePassThroughWithoutRedis(t *testing.T) {
	rec, _ := serve(NewRedisCache(config.CacheConfig{Enabled: true, Methods: []string{"GET"}}, nil),
		httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))

	rec, _ = serve(NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil),
		httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCacheKeyDependsOnPathAndQuery(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	key := func(target string) string {
		return cacheKey(cfg, httptest.NewRequest(http.MethodGet, target, nil))
	}
	assert.Equal(t, key("/api/movies/1?a=1&b=2"), key("/api/movies/1?b=2&a=1"))
	assert.NotEqual(t, key("/api/movies/1"), key("/api/movies/2"))
	assert.NotEqual(t, key("/api/search-movie?title=a"), key("/api/search-movie?title=b"))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, key("/api/movies/1"))

	routeOnly := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	assert.Equal(t,
		cacheKey(routeOnly, httptest.NewRequest(http.MethodGet, "/api/movies/1?a=1", nil)),
		cacheKey(routeOnly, httptest.NewRequest(http.MethodGet, "/api/movies/1?a=2", nil)))
}

func TestBodyRecorderDropsOversizedBodies(t *testing.T) {
	rec := &bodyRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 4}
	_, err := rec.Write([]byte("abc"))
	require.NoError(t, err)
	assert.False(t, rec.overflow)
	assert.Equal(t, "abc", rec.buf.String())

	_, err = rec.Write([]byte("de"))
	require.NoError(t, err)
	assert.True(t, rec.overflow)
	assert.Zero(t, rec.buf.Len())
}

func TestReplayRestoresStoredResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)
	err := replay(c, cachedResponse{
		Status: http.StatusOK,
		Header: http.Header{
			"Content-Type":   {"application/json"},
			"Content-Length": {"999"},
			"X-Cache":        {"MISS"},
		},
		Body: []byte(`{"a":1}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEqual(t, "999", rec.Header().Get("Content-Length"))
	assert.JSONEq(t, `{"a":1}`, rec.Body.String())
}

func TestRateKeyUsesPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/rent", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/rent")
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:GET /api/rent", rateKey(cfg, c))
	setPrincipal(c, model.Principal{ID: "2", Type: model.PrincipalCustomer, Wallet: "0xabc"})
	assert.Equal(t, "rl:ip:10.0.0.1:user:0xabc:route:GET /api/rent", rateKey(cfg, c))
	setPrincipal(c, model.Principal{ID: "1", Type: model.PrincipalStaff})
	assert.Equal(t, "rl:user:staff-1", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
	assert.Equal(t, "rl:ip:10.0.0.1:user:staff-1:route:GET /api/rent",
		rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "bogus"}, c))
}
