package main

import (
	"context"
	"sync"
	"time"
)

// Throttle limits outgoing requests to rateLimit per window with at most
// concurrency of them in flight.
type Throttle struct {
	rateLimit int
	window    time.Duration

	ticker *time.Ticker

	attempts     []time.Time
	attemptsLock sync.Mutex

	concurrentReqs chan struct{}
}

func NewThrottle(rateLimit int, window time.Duration, concurrency int) *Throttle {
	t := &Throttle{
		rateLimit:      rateLimit,
		window:         window,
		ticker:         time.NewTicker(window / time.Duration(rateLimit)),
		concurrentReqs: make(chan struct{}, concurrency),
	}

	for i := 0; i < concurrency; i++ {
		t.concurrentReqs <- struct{}{}
	}

	return t
}

// GetToken blocks until a request slot is free. The returned func releases it.
func (t *Throttle) GetToken(ctx context.Context) (func(), error) {
	select {
	case <-t.concurrentReqs:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return func() {
		t.concurrentReqs <- struct{}{}
	}, nil
}

// Wait blocks until another request fits in the rate limit window.
func (t *Throttle) Wait(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.ticker.C:
		}

		t.attemptsLock.Lock()
		att := t.attempts
		if len(att) < t.rateLimit || time.Since(att[0]) > t.window {
			att = append(att, time.Now())
			if len(att) > t.rateLimit {
				att = att[1:]
			}
			t.attempts = att
			t.attemptsLock.Unlock()
			return nil
		}
		t.attemptsLock.Unlock()
	}
}

func (t *Throttle) Stop() {
	t.ticker.Stop()
}
