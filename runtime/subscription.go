package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"taskmarket/contract"
)

// FetchFunc reads the current results of a subscribed query.
type FetchFunc func(ctx context.Context) (contract.QuerySnapshot, error)

// Subscription is a worker delivering query snapshots to one callback.
//
// Notifications are coalesced: the signal channel holds at most one pending
// wake-up and every wake-up re-reads the store, so the callback always ends up
// with the latest state and never sees an older snapshot after a newer one.
// Snapshots identical to the last delivered one are skipped.
type Subscription struct {
	ID      string
	log     *slog.Logger
	fetch   FetchFunc
	deliver func(contract.QuerySnapshot)
	signal  chan struct{}
	closed  atomic.Bool
	last    []docVersion
	started bool
}

type docVersion struct {
	id      string
	version int64
}

func NewSubscription(id string, log *slog.Logger, fetch FetchFunc, deliver func(contract.QuerySnapshot)) *Subscription {
	return &Subscription{
		ID:      id,
		log:     log,
		fetch:   fetch,
		deliver: deliver,
		signal:  make(chan struct{}, 1),
	}
}

func (s *Subscription) Notify() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Close prevents any further delivery. A callback already running completes.
func (s *Subscription) Close() {
	s.closed.Store(true)
}

// Run fires once with the current state, then on every notification.
// A failed read is returned so the supervisor restarts the worker, which
// triggers a fresh read.
func (s *Subscription) Run(ctx context.Context) error {
	s.started = false
	s.Notify()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.signal:
			snapshot, err := s.fetch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("subscription %s: %w", s.ID, err)
			}
			s.push(snapshot)
		}
	}
}

func (s *Subscription) push(snapshot contract.QuerySnapshot) {
	current := make([]docVersion, len(snapshot.Documents))
	for i, d := range snapshot.Documents {
		current[i] = docVersion{id: d.ID, version: d.Version}
	}
	if s.started && sameVersions(s.last, current) {
		return
	}
	if s.closed.Load() {
		return
	}
	s.last = current
	s.started = true
	s.log.Debug("Delivering snapshot", "subscription_id", s.ID, "documents", len(current))
	s.deliver(snapshot)
}

func sameVersions(a, b []docVersion) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
