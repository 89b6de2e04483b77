package testutil

import (
	"context"
	"sync"
)

// FakeProber is a canned compute-environment probe. It satisfies the
// resolver's prober dependency without touching the network.
type FakeProber struct {
	OnGCE bool

	mu    sync.Mutex
	calls int
}

// NewFakeProber returns a prober that always answers onGCE.
func NewFakeProber(onGCE bool) *FakeProber {
	return &FakeProber{OnGCE: onGCE}
}

// OnComputeEngine returns the canned answer and records the call.
func (f *FakeProber) OnComputeEngine(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.OnGCE
}

// Calls reports how many times the probe ran.
func (f *FakeProber) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
