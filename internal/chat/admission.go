package chat

import (
	"context"
	"errors"
	"time"
)

// ErrTooBusy signals queue timeout/overflow; the HTTP layer maps it to 429.
var ErrTooBusy = errors.New("too busy")

// IsTooBusy reports whether err indicates backpressure.
func IsTooBusy(err error) bool { return errors.Is(err, ErrTooBusy) }

// gate admits one generation at a time behind a bounded wait queue.
type gate struct {
	genCh   chan struct{} // size 1: single in-flight generation
	queueCh chan struct{} // buffered: queue slots
	maxWait time.Duration
}

func newGate(depth int, maxWait time.Duration) *gate {
	if depth <= 0 {
		depth = defaultQueueDepth
	}
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	return &gate{
		genCh:   make(chan struct{}, 1),
		queueCh: make(chan struct{}, depth),
		maxWait: maxWait,
	}
}

// acquire reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred.
func (g *gate) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(g.maxWait)
	defer timer.Stop()
	select {
	case g.queueCh <- struct{}{}:
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, ErrTooBusy
	}

	acquired := false
	defer func() {
		if !acquired {
			<-g.queueCh
		}
	}()
	timer2 := time.NewTimer(g.maxWait)
	defer timer2.Stop()
	select {
	case g.genCh <- struct{}{}:
		acquired = true
		return func() {
			<-g.genCh
			<-g.queueCh
		}, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, ErrTooBusy
	}
}

// queued returns the number of requests holding a queue slot, including the one generating.
func (g *gate) queued() int { return len(g.queueCh) }

// inflight returns 1 while a generation holds the slot.
func (g *gate) inflight() int { return len(g.genCh) }
