package utils

import "context"

// SessionGate bounds how many browser sessions may run at the same time.
// A scrape request holds one slot for the lifetime of its session; further
// requests queue on Acquire until a slot frees or the caller gives up.
type SessionGate struct {
	slots chan struct{}
}

// NewSessionGate creates a gate allowing up to max concurrent sessions.
func NewSessionGate(max int) *SessionGate {
	if max < 1 {
		max = 1
	}
	return &SessionGate{slots: make(chan struct{}, max)}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *SessionGate) Acquire(ctx context.Context) error {
	select {
	case g.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (g *SessionGate) Release() {
	<-g.slots
}
