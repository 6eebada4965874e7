package model

import "time"

// RentalStatus is derived from a rental's end time and the current time.
// It is never stored as authoritative state.
type RentalStatus string

const (
	RentalActive     RentalStatus = "active"
	RentalEndingSoon RentalStatus = "ending-soon"
	RentalExpired    RentalStatus = "expired"
)

// RentalWindow is the length of a paid rental and of each extension.
const RentalWindow = 48 * time.Hour

// EndingSoonWindow is the remaining time under which a rental is ending soon.
const EndingSoonWindow = 24 * time.Hour

// StatusAt derives the lifecycle status of a rental ending at end,
// observed at now.  A rental whose end equals now is still ending soon.
func StatusAt(end, now time.Time) RentalStatus {
	left := end.Sub(now)
	switch {
	case left < 0:
		return RentalExpired
	case left < EndingSoonWindow:
		return RentalEndingSoon
	default:
		return RentalActive
	}
}

// MovieSnapshot is a denormalized copy of the rented movie kept on the
// rental so history stays readable when the catalog is unavailable.
type MovieSnapshot struct {
	Title  string  `json:"title"`
	Poster string  `json:"poster"`
	Price  float64 `json:"price"`
}

// Rental records a paid rental of a movie by a wallet.
//
// Fields:
//  ID              – rental identifier.
//  MovieID         – referenced movie id.
//  Price           – price paid.
//  TransactionHash – payment transaction reference.
//  WalletAddress   – owner wallet.
//  StartTime       – when the rental was recorded.
//  EndTime         – start + RentalWindow, pushed forward by extensions.
//  Status          – derived on read, see StatusAt.
//  Movie           – optional snapshot of title/poster/price.
type Rental struct {
	ID              string         `json:"id"`
	MovieID         string         `json:"movieId"`
	Price           float64        `json:"price"`
	TransactionHash string         `json:"transactionHash"`
	WalletAddress   string         `json:"walletAddress"`
	StartTime       time.Time      `json:"startTime"`
	EndTime         time.Time      `json:"endTime"`
	Status          RentalStatus   `json:"status"`
	Movie           *MovieSnapshot `json:"movie,omitempty"`
}

// WithStatus returns a copy of r with Status recomputed for now.
func (r Rental) WithStatus(now time.Time) Rental {
	r.Status = StatusAt(r.EndTime, now)
	return r
}
