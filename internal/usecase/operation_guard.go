package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/trebuchet-org/raffle-cli/internal/domain"
)

// OperationGuard tracks whether a mutating operation is in flight.
//
// The guard is advisory: it never rejects or queues a call. Callers read
// Busy (or subscribe) and disable whatever triggers new operations.
// Overlapping runs are counted, so Busy stays true until the last one
// returns. Status stays Pending while anything is in flight and then
// reports the outcome of the run that finished last.
type OperationGuard struct {
	mu       sync.Mutex
	inflight int
	status   domain.OperationStatus
	lastErr  error
	subs     map[int]chan domain.OperationStatus
	nextSub  int
}

// NewOperationGuard creates an idle guard
func NewOperationGuard() *OperationGuard {
	return &OperationGuard{
		status: domain.StatusIdle,
		subs:   make(map[int]chan domain.OperationStatus),
	}
}

// Run marks the guard busy, calls fn, and always clears the busy flag
// afterwards, including when fn fails or panics.
func (g *OperationGuard) Run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	g.begin()
	defer func() {
		if r := recover(); r != nil {
			g.finish(fmt.Errorf("operation panicked: %v", r))
			panic(r)
		}
		g.finish(err)
	}()

	return fn(ctx)
}

// Guard runs fn under g and returns its value
func Guard[T any](ctx context.Context, g *OperationGuard, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := g.Run(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// Busy reports whether any guarded operation is in flight
func (g *OperationGuard) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inflight > 0
}

// Status returns the current operation status
func (g *OperationGuard) Status() domain.OperationStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// LastErr returns the error of the most recent failed run, or nil
func (g *OperationGuard) LastErr() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

// Subscribe returns a channel receiving every status change. Slow readers
// miss intermediate values rather than blocking the guard.
func (g *OperationGuard) Subscribe() (<-chan domain.OperationStatus, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextSub
	g.nextSub++
	ch := make(chan domain.OperationStatus, 4)
	g.subs[id] = ch

	return ch, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if sub, ok := g.subs[id]; ok {
			delete(g.subs, id)
			close(sub)
		}
	}
}

func (g *OperationGuard) begin() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.inflight++
	g.setStatus(domain.StatusPending)
}

func (g *OperationGuard) finish(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inflight > 0 {
		g.inflight--
	}
	if err != nil {
		g.lastErr = err
	}
	if g.inflight > 0 {
		return
	}
	if err != nil {
		g.setStatus(domain.StatusFailed)
		return
	}
	g.lastErr = nil
	g.setStatus(domain.StatusSucceeded)
}

// setStatus must be called with mu held
func (g *OperationGuard) setStatus(status domain.OperationStatus) {
	g.status = status
	for _, ch := range g.subs {
		select {
		case ch <- status:
		default:
		}
	}
}
