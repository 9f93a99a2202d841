package utils

import (
	"context"
	"time"
)

// Poll invokes predicate every interval until it returns true, the timeout
// window closes, or ctx is cancelled. It returns true only when the
// predicate succeeded within the window. The predicate is always tried at
// least once.
func Poll(ctx context.Context, timeout, interval time.Duration, predicate func() bool) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if predicate() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
