package repository

import (
	"context"

	"github.com/iliyamo/cinemavault/internal/model"
)

// RentalStore persists rentals.  Records are never deleted; List returns
// them in insertion order.  Stored status values are not authoritative.
type RentalStore interface {
	Append(ctx context.Context, r model.Rental) error
	// List returns every rental, or only those of owner when owner is
	// non-empty (exact match on the wallet address).
	List(ctx context.Context, owner string) ([]model.Rental, error)
	FindByID(ctx context.Context, id string) (model.Rental, error)
	Update(ctx context.Context, r model.Rental) error
}

// MovieStore keeps movies created while the upstream API was unreachable.
type MovieStore interface {
	Add(ctx context.Context, m model.LocalMovie) error
	All(ctx context.Context) ([]model.LocalMovie, error)
	FindByID(ctx context.Context, id string) (model.LocalMovie, bool, error)
}
