package utils

import (
	"context"
	"testing"
	"time"
)

func TestSessionGateBoundsConcurrency(t *testing.T) {
	g := NewSessionGate(2)
	ctx := context.Background()

	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire: %v", err)
	}

	blocked, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := g.Acquire(blocked); err == nil {
		t.Error("third Acquire should block while the gate is full")
	}

	g.Release()
	if err := g.Acquire(ctx); err != nil {
		t.Errorf("Acquire after Release: %v", err)
	}
}

func TestSessionGateAcquireHonorsCancel(t *testing.T) {
	g := NewSessionGate(1)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Acquire(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Error("Acquire should fail once the context is cancelled")
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancel")
	}
}

func TestSessionGateMinimumCapacity(t *testing.T) {
	g := NewSessionGate(0)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("a zero-capacity gate should still admit one session: %v", err)
	}
	g.Release()
}
