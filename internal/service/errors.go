// Package service holds the business logic behind the HTTP handlers: the
// catalog, search, movie creation and staff profile gateways in front of
// the upstream film API, and the rental ledger.
package service

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthorized is returned when a credential or API key is missing
	// or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is wrapped by every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTokenRejected is joined with ErrUnauthorized when the upstream
	// search API refuses the forwarded authorization header.
	ErrTokenRejected = errors.New("invalid or expired authorization token")
)

// ValidationError describes rejected input.  Missing lists absent
// required fields; Reason is a human readable summary.
type ValidationError struct {
	Reason  string
	Missing []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "The following fields are required: " + strings.Join(e.Missing, ", ")
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(reason string) error { return &ValidationError{Reason: reason} }
