// Package queue defines message payloads exchanged over the message broker.
package queue

// Rental event types.
const (
	RentalCreated  = "rental.created"
	RentalExtended = "rental.extended"
)

// RentalEvent is published whenever the rental ledger records or extends
// a rental.  It carries enough information for downstream consumers to
// log or notify without querying the store.
type RentalEvent struct {
	Type            string  `json:"type"`
	RentalID        string  `json:"rental_id"`
	MovieID         string  `json:"movie_id"`
	MovieTitle      string  `json:"movie_title,omitempty"`
	WalletAddress   string  `json:"wallet_address"`
	Price           float64 `json:"price"`
	TransactionHash string  `json:"transaction_hash"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	RecordedAt      string  `json:"recorded_at"`
}
