package internal

import (
	"sync"
	"time"
)

// DefaultRebuildDelay is the debounce window collapsing bursts of rebuild
// triggers into a single pass.
const DefaultRebuildDelay = 150 * time.Millisecond

// RebuildState is the scheduler's explicit state machine.
type RebuildState int

const (
	// StateIdle means no rebuild is pending or running.
	StateIdle RebuildState = iota
	// StatePendingDebounce means a rebuild is armed and waiting out the
	// debounce window.
	StatePendingDebounce
	// StateRebuilding means a rebuild pass is executing.
	StateRebuilding
)

// Rebuilder serializes rebuild requests from independent trigger sources
// into single, non-overlapping rebuild passes. A request resets the debounce
// timer, so rapid bursts coalesce; the in-progress flag refuses re-entry, so
// passes never run concurrently or nest. A failed or panicking pass is
// logged and suppressed, and the flag is released on every exit path.
type Rebuilder struct {
	mu         sync.Mutex
	timer      *time.Timer
	rebuilding bool
	delay      time.Duration
	run        func() error
}

// NewRebuilder creates a scheduler around the given rebuild pass.
func NewRebuilder(run func() error) *Rebuilder {
	return &Rebuilder{
		delay: DefaultRebuildDelay,
		run:   run,
	}
}

// Request schedules a rebuild after the debounce delay, cancelling any
// still-pending one. A pass already in flight is unaffected.
func (r *Rebuilder) Request() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.Rebuild)
}

// Rebuild runs one pass immediately. It returns without doing anything if a
// pass is already executing.
func (r *Rebuilder) Rebuild() {
	r.mu.Lock()
	if r.rebuilding {
		r.mu.Unlock()
		return
	}
	r.rebuilding = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.mu.Unlock()

	defer func() {
		if rec := recover(); rec != nil {
			LogError("rebuild panicked: %v", rec)
		}
		r.mu.Lock()
		r.rebuilding = false
		r.mu.Unlock()
	}()

	if err := r.run(); err != nil {
		LogWarn("rebuild failed: %v", err)
	}
}

// State reports the scheduler's current state.
func (r *Rebuilder) State() RebuildState {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.rebuilding:
		return StateRebuilding
	case r.timer != nil:
		return StatePendingDebounce
	default:
		return StateIdle
	}
}

// Stop cancels any pending rebuild.
func (r *Rebuilder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
