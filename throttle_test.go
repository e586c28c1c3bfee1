package main

import (
	"context"
	"testing"
	"time"
)

func TestThrottleLimitsConcurrency(t *testing.T) {
	throttle := NewThrottle(100, time.Second, 1)
	defer throttle.Stop()

	done, err := throttle.GetToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := throttle.GetToken(ctx); err == nil {
		t.Fatal("second token granted while the first is held")
	}

	done()

	release, err := throttle.GetToken(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	release()
}

func TestThrottleRateLimit(t *testing.T) {
	throttle := NewThrottle(2, 200*time.Millisecond, 1)
	defer throttle.Stop()

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := throttle.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}

	// The window is full; a cancelled context gives up instead of waiting.
	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	if err := throttle.Wait(ctx); err == nil {
		t.Error("third request within the window was allowed")
	}
}
