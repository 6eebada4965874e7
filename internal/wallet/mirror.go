package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MirrorEntry is the local view of one rental.
type MirrorEntry struct {
	MovieID         string
	Title           string
	TransactionHash string
	EndTime         time.Time
}

// Key identifies the entry: its transaction hash, or the movie id for
// entries loaded without one.
func (e MirrorEntry) Key() string {
	if e.TransactionHash != "" {
		return e.TransactionHash
	}
	return e.MovieID
}

// Mirror is the client's local copy of its rentals.
type Mirror struct {
	mu      sync.RWMutex
	entries []MirrorEntry
}

func NewMirror() *Mirror { return &Mirror{} }

// Add appends e, replacing an entry with the same key.
func (m *Mirror) Add(e MirrorEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.entries {
		if m.entries[i].Key() == e.Key() {
			m.entries[i] = e
			return
		}
	}
	m.entries = append(m.entries, e)
}

// Entries returns a copy of the mirrored rentals in insertion order.
func (m *Mirror) Entries() []MirrorEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]MirrorEntry(nil), m.entries...)
}

// Countdowns returns the remaining time of every entry keyed by Key.
func (m *Mirror) Countdowns(now time.Time) map[string]string {
	out := map[string]string{}
	for _, e := range m.Entries() {
		out[e.Key()] = Countdown(e.EndTime, now)
	}
	return out
}

// Watch calls fn with fresh countdowns every interval until ctx ends.
func (m *Mirror) Watch(ctx context.Context, interval time.Duration, now func() time.Time, fn func(map[string]string)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		fn(m.Countdowns(now()))
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Countdown formats the time left until end as "{h}h {m}m {s}s", or
// "Expired" once end is reached.
func Countdown(end, now time.Time) string {
	left := end.Sub(now)
	if left <= 0 {
		return "Expired"
	}
	h := int(left / time.Hour)
	m := int(left % time.Hour / time.Minute)
	s := int(left % time.Minute / time.Second)
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
