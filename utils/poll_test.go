package utils

import (
	"context"
	"testing"
	"time"
)

func TestPollSucceedsWhenPredicateTurnsTrue(t *testing.T) {
	calls := 0
	ok := Poll(context.Background(), time.Second, 10*time.Millisecond, func() bool {
		calls++
		return calls >= 3
	})

	if !ok {
		t.Error("Poll should report success once the predicate returns true")
	}
	if calls != 3 {
		t.Errorf("predicate calls: got %d, want 3", calls)
	}
}

func TestPollTimesOut(t *testing.T) {
	start := time.Now()
	ok := Poll(context.Background(), 50*time.Millisecond, 10*time.Millisecond, func() bool {
		return false
	})

	if ok {
		t.Error("Poll should report failure when the predicate never succeeds")
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Poll returned after %v, before the window closed", elapsed)
	}
}

func TestPollStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok := Poll(ctx, time.Second, 10*time.Millisecond, func() bool { return false })
	if ok {
		t.Error("Poll should fail on a cancelled context")
	}
}
