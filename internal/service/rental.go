package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/metrics"
	"github.com/iliyamo/cinemavault/internal/model"
	"github.com/iliyamo/cinemavault/internal/queue"
	"github.com/iliyamo/cinemavault/internal/repository"
)

// SnapshotTimeout bounds the movie lookup done while recording a rental.
// Past it the catalog answers from local and mock movies only.
const SnapshotTimeout = time.Second

// MovieLookup resolves the movie a rental refers to, for its snapshot.
type MovieLookup interface {
	LookupMovie(ctx context.Context, id string) (model.Movie, bool)
}

// Ledger records rentals.  Status is never read from the store: every
// returned rental has it recomputed against the injected clock.
type Ledger struct {
	store    repository.RentalStore
	movies   MovieLookup
	events   EventPublisher
	now      func() time.Time
	snapshot time.Duration
}

// NewLedger wires a ledger.  movies and events may be nil.
func NewLedger(store repository.RentalStore, movies MovieLookup, events EventPublisher, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	if events == nil {
		events = NoopPublisher{}
	}
	return &Ledger{store: store, movies: movies, events: events, now: now, snapshot: SnapshotTimeout}
}

// NewRental is the input of CreateRental.
type NewRental struct {
	MovieID         string  `json:"movieId"`
	Price           float64 `json:"price"`
	TransactionHash string  `json:"transactionHash"`
	WalletAddress   string  `json:"walletAddress"`
}

// CreateRental records a paid rental lasting model.RentalWindow from now.
// An empty wallet address defaults to the principal's wallet.
func (l *Ledger) CreateRental(ctx context.Context, p model.Principal, in NewRental) (model.Rental, error) {
	if p.Type == "" {
		return model.Rental{}, ErrUnauthorized
	}
	in.MovieID = strings.TrimSpace(in.MovieID)
	if in.MovieID == "" {
		return model.Rental{}, &ValidationError{Reason: "Missing required fields", Missing: []string{"movieId"}}
	}
	if in.WalletAddress == "" {
		in.WalletAddress = p.Wallet
	}

	now := l.now().UTC()
	r := model.Rental{
		ID:              "rental-" + uuid.NewString(),
		MovieID:         in.MovieID,
		Price:           in.Price,
		TransactionHash: in.TransactionHash,
		WalletAddress:   in.WalletAddress,
		StartTime:       now,
		EndTime:         now.Add(model.RentalWindow),
	}
	r.Movie = l.snapshotOf(ctx, in.MovieID)
	if err := l.store.Append(ctx, r); err != nil {
		return model.Rental{}, fmt.Errorf("append rental: %w", err)
	}
	metrics.Rentals.WithLabelValues("created").Inc()
	log.Info().Str("component", "rental").Str("rental_id", r.ID).Str("movie_id", r.MovieID).
		Str("wallet", r.WalletAddress).Msg("rental recorded")
	l.publish(ctx, queue.RentalCreated, r, now)
	return r.WithStatus(now), nil
}

func (l *Ledger) snapshotOf(ctx context.Context, movieID string) *model.MovieSnapshot {
	if l.movies == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, l.snapshot)
	defer cancel()
	m, ok := l.movies.LookupMovie(ctx, movieID)
	if !ok {
		return nil
	}
	return &model.MovieSnapshot{Title: m.Title, Poster: m.Poster, Price: m.Price}
}

// ListRentals returns every rental, or only owner's when owner is set.
func (l *Ledger) ListRentals(ctx context.Context, p model.Principal, owner string) ([]model.Rental, error) {
	if p.Type == "" {
		return nil, ErrUnauthorized
	}
	rentals, err := l.store.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	now := l.now()
	for i := range rentals {
		rentals[i] = rentals[i].WithStatus(now)
	}
	return rentals, nil
}

// ExtendRental moves the end of rental id to newEnd, or to the current
// end plus model.RentalWindow when newEnd is zero.  newEnd must be after
// the current end.  An empty transactionHash keeps the previous one.
func (l *Ledger) ExtendRental(ctx context.Context, p model.Principal, id string, newEnd time.Time, transactionHash string) (model.Rental, error) {
	if p.Type == "" {
		return model.Rental{}, ErrUnauthorized
	}
	r, err := l.store.FindByID(ctx, id)
	if err != nil {
		return model.Rental{}, err
	}
	if newEnd.IsZero() {
		newEnd = r.EndTime.Add(model.RentalWindow)
	}
	if !newEnd.After(r.EndTime) {
		return model.Rental{}, invalid("endTime must be after the current end of the rental")
	}
	r.EndTime = newEnd.UTC()
	if transactionHash != "" {
		r.TransactionHash = transactionHash
	}
	if err := l.store.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			return model.Rental{}, err
		}
		return model.Rental{}, fmt.Errorf("update rental: %w", err)
	}
	now := l.now().UTC()
	metrics.Rentals.WithLabelValues("extended").Inc()
	log.Info().Str("component", "rental").Str("rental_id", r.ID).Time("end", r.EndTime).Msg("rental extended")
	l.publish(ctx, queue.RentalExtended, r, now)
	return r.WithStatus(now), nil
}

func (l *Ledger) publish(ctx context.Context, kind string, r model.Rental, now time.Time) {
	ev := queue.RentalEvent{
		Type:            kind,
		RentalID:        r.ID,
		MovieID:         r.MovieID,
		WalletAddress:   r.WalletAddress,
		Price:           r.Price,
		TransactionHash: r.TransactionHash,
		StartTime:       r.StartTime.Format(time.RFC3339),
		EndTime:         r.EndTime.Format(time.RFC3339),
		RecordedAt:      now.Format(time.RFC3339),
	}
	if r.Movie != nil {
		ev.MovieTitle = r.Movie.Title
	}
	if err := l.events.PublishRental(ctx, ev); err != nil {
		log.Warn().Str("component", "rental").Str("rental_id", r.ID).Err(err).Msg("publishing rental event failed")
	}
}
