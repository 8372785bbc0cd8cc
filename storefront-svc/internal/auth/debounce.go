package auth

import (
	"sync"
	"time"

	"zomatify/storefront-svc/internal/domain"
)

// debouncer collapses a burst of events into the last one. The apply callback
// runs once the window has passed without a newer event.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	apply   func(domain.AuthEvent)
	timer   *time.Timer
	pending domain.AuthEvent
	gen     uint64
	stopped bool
}

func newDebouncer(window time.Duration, apply func(domain.AuthEvent)) *debouncer {
	return &debouncer{window: window, apply: apply}
}

func (d *debouncer) Push(event domain.AuthEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = event
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
}

func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	event := d.pending
	d.mu.Unlock()

	d.apply(event)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
