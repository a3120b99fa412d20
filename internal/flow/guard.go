package flow

import (
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrBusy is returned when a flow operation is invoked while the same
	// operation is still in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrInvalidInput wraps client-side validation failures. These never
	// reach the network.
	ErrInvalidInput = errors.New("invalid input")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// inflight is a non-blocking single-flight guard.
type inflight struct {
	sem    *semaphore.Weighted
	active atomic.Bool
}

func newInflight() *inflight {
	return &inflight{sem: semaphore.NewWeighted(1)}
}

// begin claims the guard; false means another call holds it.
func (g *inflight) begin() bool {
	if !g.sem.TryAcquire(1) {
		return false
	}
	g.active.Store(true)
	return true
}

func (g *inflight) end() {
	g.active.Store(false)
	g.sem.Release(1)
}

func (g *inflight) busy() bool { return g.active.Load() }

// lifecycle tracks whether the view a flow backs is still mounted.
type lifecycle struct {
	unmounted atomic.Bool
}

// Unmount marks the view gone. Results that arrive afterwards still reach
// the session, but view state and navigation are left alone.
func (l *lifecycle) Unmount() { l.unmounted.Store(true) }

// Mounted reports whether the view is still live.
func (l *lifecycle) Mounted() bool { return !l.unmounted.Load() }
