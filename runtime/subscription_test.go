package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"taskmarket/contract"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeSource mimics a store: every write bumps the version of one document.
type fakeSource struct {
	mu       sync.Mutex
	version  int64
	failures atomic.Int32
}

func (f *fakeSource) write() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version++
}

func (f *fakeSource) fetch(_ context.Context) (contract.QuerySnapshot, error) {
	if f.failures.Load() > 0 {
		f.failures.Add(-1)
		return contract.QuerySnapshot{}, fmt.Errorf("backend unavailable")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return contract.QuerySnapshot{Documents: []contract.Snapshot{{ID: "doc", Version: f.version}}}, nil
}

type recorder struct {
	mu        sync.Mutex
	snapshots []contract.QuerySnapshot
}

func (r *recorder) deliver(s contract.QuerySnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) versions() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []int64
	for _, s := range r.snapshots {
		res = append(res, s.Documents[0].Version)
	}
	return res
}

func TestSubscription_Fires_Immediately_Then_On_Changes(t *testing.T) {
	req := require.New(t)
	source := &fakeSource{version: 1}
	rec := &recorder{}
	sub := NewSubscription("s1", slog.Default(), source.fetch, rec.deliver)
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		sup.Wait()
	}()

	// When the subscription starts
	sup.Start(ctx, sub)

	// Then the current state is delivered once
	req.Eventually(func() bool { return len(rec.versions()) == 1 }, time.Second, 5*time.Millisecond)

	// When nothing changed, a notification delivers nothing new
	sub.Notify()
	time.Sleep(50 * time.Millisecond)
	req.Equal([]int64{1}, rec.versions())

	// When the document changes
	source.write()
	sub.Notify()

	// Then the new state is delivered
	req.Eventually(func() bool {
		v := rec.versions()
		return len(v) == 2 && v[1] == 2
	}, time.Second, 5*time.Millisecond)
}

func TestSubscription_Recovers_From_Read_Failures(t *testing.T) {
	req := require.New(t)
	source := &fakeSource{version: 7}
	source.failures.Store(2)
	rec := &recorder{}
	sub := NewSubscription("s2", slog.Default(), source.fetch, rec.deliver)
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		sup.Wait()
	}()

	sup.Start(ctx, sub)

	// The supervisor restarts the worker until the read succeeds
	req.Eventually(func() bool {
		v := rec.versions()
		return len(v) == 1 && v[0] == 7
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSubscription_Close_Stops_Deliveries(t *testing.T) {
	req := require.New(t)
	source := &fakeSource{version: 1}
	rec := &recorder{}
	sub := NewSubscription("s3", slog.Default(), source.fetch, rec.deliver)
	sup := NewSupervisor(slog.Default(), 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		sup.Wait()
	}()
	sup.Start(ctx, sub)
	req.Eventually(func() bool { return len(rec.versions()) == 1 }, time.Second, 5*time.Millisecond)

	// When the subscription is closed
	sub.Close()
	source.write()
	sub.Notify()
	time.Sleep(50 * time.Millisecond)

	// Then nothing else is delivered
	req.Equal([]int64{1}, rec.versions())
}
