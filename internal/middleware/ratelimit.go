package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/config"
)

// tokenBucketScript refills KEYS[1] by whole intervals elapsed since its
// last refill and takes one token.
// ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_seconds.
// Returns {allowed (0|1), tokens_left, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1]) or capacity
local ts = tonumber(state[2]) or now

if interval > 0 then
	local steps = math.floor(math.max(0, now - ts) / interval)
	if steps > 0 then
		tokens = math.min(capacity, tokens + steps * refill)
		ts = ts + steps * interval
	end
end

local allowed, wait = 0, 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
else
	wait = math.max(0, interval - (now - ts))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'ts', ts)
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[5]))
return {allowed, tokens, wait}
`)

type bucketDecision struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

func takeToken(ctx context.Context, rdb redis.Scripter, cfg config.RateLimitConfig, key string, now time.Time) (bucketDecision, error) {
	res, err := tokenBucketScript.Run(ctx, rdb, []string{key},
		now.UnixMilli(), cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval.Milliseconds(), int64(cfg.TTL/time.Second),
	).Int64Slice()
	if err != nil {
		return bucketDecision{}, err
	}
	if len(res) != 3 {
		return bucketDecision{}, fmt.Errorf("token bucket: unexpected result %v", res)
	}
	return bucketDecision{
		allowed:    res[0] == 1,
		remaining:  res[1],
		retryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}

// rateKeyFields maps a key strategy to the request parts it combines.
var rateKeyFields = map[string][]string{
	"ip":            {"ip"},
	"user":          {"user"},
	"route":         {"route"},
	"ip_user":       {"ip", "user"},
	"ip_route":      {"ip", "route"},
	"user_route":    {"user", "route"},
	"ip_user_route": {"ip", "user", "route"},
}

// rateKey builds the bucket key for c.  The user part is the principal
// resolved by OptionalBearer (see userID).
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	values := map[string]string{
		"ip":    ip,
		"user":  userID(c),
		"route": c.Request().Method + " " + c.Path(),
	}
	fields, ok := rateKeyFields[strings.ToLower(cfg.KeyStrategy)]
	if !ok {
		fields = rateKeyFields["ip_user_route"]
	}
	var b strings.Builder
	b.WriteString(cfg.Prefix)
	for _, f := range fields {
		b.WriteString(":" + f + ":" + values[f])
	}
	return b.String()
}

// NewTokenBucket limits requests per rateKey with a token bucket held in
// Redis.  Redis failures let the request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	limit := strconv.Itoa(cfg.Capacity)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			d, err := takeToken(c.Request().Context(), rdb, cfg, key, time.Now())
			if err != nil {
				log.Debug().Str("component", "ratelimit").Str("key", key).Err(err).Msg("limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if d.allowed {
				return next(c)
			}

			secs := int64(math.Ceil(d.retryAfter.Seconds()))
			h.Set("Retry-After", strconv.FormatInt(secs, 10))
			log.Debug().Str("component", "ratelimit").Str("key", key).Dur("retry_after", d.retryAfter).Msg("request blocked")
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":      "Too many requests",
				"retryAfter": secs,
			})
		}
	}
}
