package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/model"
)

// DefaultCheckInterval is the notifier's cadence after its first check.
const DefaultCheckInterval = time.Hour

// Notification is an expiry warning for one rental.
type Notification struct {
	Key     string
	Title   string
	Message string
}

// Notifier warns once per rental when less than model.EndingSoonWindow
// remains.  It checks on Start and then every interval.
type Notifier struct {
	mirror   *Mirror
	interval time.Duration
	now      func() time.Time
	notify   func(Notification)

	mu      sync.Mutex
	warned  map[string]bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewNotifier builds a notifier over m.  interval <= 0 selects
// DefaultCheckInterval; now may be nil.
func NewNotifier(m *Mirror, interval time.Duration, now func() time.Time, notify func(Notification)) *Notifier {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{mirror: m, interval: interval, now: now, notify: notify, warned: map[string]bool{}}
}

// Start runs the check loop in the background until Stop or ctx ends.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.running {
		return
	}
	ctx, n.cancel = context.WithCancel(ctx)
	n.running = true
	n.wg.Add(1)
	go n.loop(ctx)
}

// Stop ends the loop and waits for it.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.cancel()
	n.running = false
	n.mu.Unlock()
	n.wg.Wait()
}

func (n *Notifier) loop(ctx context.Context) {
	defer n.wg.Done()
	t := time.NewTicker(n.interval)
	defer t.Stop()
	for {
		n.Check()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Check emits a warning for each rental inside the ending-soon window
// that has not been warned about yet.  It returns how many were emitted.
func (n *Notifier) Check() int {
	now := n.now()
	var due []Notification
	n.mu.Lock()
	for _, e := range n.mirror.Entries() {
		left := e.EndTime.Sub(now)
		if left <= 0 || left >= model.EndingSoonWindow || n.warned[e.Key()] {
			continue
		}
		n.warned[e.Key()] = true
		due = append(due, Notification{
			Key:     e.Key(),
			Title:   e.Title,
			Message: "Your rental of " + e.Title + " will expire in " + Countdown(e.EndTime, now),
		})
	}
	n.mu.Unlock()

	for _, nt := range due {
		log.Info().Str("component", "notifier").Str("rental", nt.Key).Msg("expiry warning")
		if n.notify != nil {
			n.notify(nt)
		}
	}
	return len(due)
}
