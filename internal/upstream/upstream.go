// Package upstream talks to the third-party film API.  Every call walks an
// ordered list of endpoints and returns the first success; endpoints are
// tried sequentially, each exactly once, under its own timeout.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/metrics"
)

// ErrUpstreamUnavailable is returned when every endpoint failed.
var ErrUpstreamUnavailable = errors.New("all upstream endpoints failed")

// ErrTerminal marks an attempt error that must stop the sequence.
var ErrTerminal = errors.New("terminal upstream response")

// Terminal wraps err so FirstSuccess stops trying further endpoints.
func Terminal(err error) error {
	return fmt.Errorf("%w: %w", ErrTerminal, err)
}

// StatusError is returned for a non-2xx upstream response.
type StatusError struct {
	URL  string
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned HTTP %d", e.URL, e.Code)
}

// Attempt performs one request against endpoint.  ctx carries the
// per-attempt deadline.
type Attempt[T any] func(ctx context.Context, endpoint string) (T, error)

// FirstSuccess calls attempt for each endpoint in order and returns the
// first successful value together with the endpoint that produced it.
// When all endpoints fail the error wraps ErrUpstreamUnavailable and every
// per-endpoint error.  A terminal error is returned as is.
func FirstSuccess[T any](ctx context.Context, op string, timeout time.Duration, endpoints []string, attempt Attempt[T]) (T, string, error) {
	var zero T
	errs := make([]error, 0, len(endpoints)+1)
	errs = append(errs, ErrUpstreamUnavailable)
	for _, ep := range endpoints {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		v, err := try(ctx, timeout, ep, attempt)
		if err == nil {
			metrics.UpstreamAttempts.WithLabelValues(op, "success").Inc()
			log.Debug().Str("component", "upstream").Str("op", op).Str("endpoint", ep).Msg("upstream attempt succeeded")
			return v, ep, nil
		}
		if errors.Is(err, ErrTerminal) {
			metrics.UpstreamAttempts.WithLabelValues(op, "terminal").Inc()
			log.Warn().Str("component", "upstream").Str("op", op).Str("endpoint", ep).Err(err).Msg("upstream attempt terminal")
			return zero, ep, err
		}
		metrics.UpstreamAttempts.WithLabelValues(op, "failure").Inc()
		log.Warn().Str("component", "upstream").Str("op", op).Str("endpoint", ep).Err(err).Msg("upstream attempt failed")
		errs = append(errs, fmt.Errorf("%s: %w", ep, err))
	}
	return zero, "", errors.Join(errs...)
}

func try[T any](ctx context.Context, timeout time.Duration, ep string, attempt Attempt[T]) (T, error) {
	if timeout <= 0 {
		return attempt(ctx, ep)
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return attempt(actx, ep)
}
