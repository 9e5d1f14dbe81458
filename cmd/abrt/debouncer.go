package main

import (
	"sync"
	"time"
)

// Debouncer batches rapid triggers into a single action after a quiet period.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
	action   func()
	seq      uint64 // invalidates timers that fire after a newer Trigger
	wg       sync.WaitGroup
}

// NewDebouncer returns a debouncer that calls action once duration has
// passed since the last trigger.
func NewDebouncer(duration time.Duration, action func()) *Debouncer {
	return &Debouncer{duration: duration, action: action}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil && d.timer.Stop() {
		d.wg.Done()
	}
	d.seq++
	seq := d.seq

	d.wg.Add(1)
	d.timer = time.AfterFunc(d.duration, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.seq != seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.action()
	})
}

// Cancel drops a pending action. It does not wait for a running one.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		if d.timer.Stop() {
			d.wg.Done()
		}
		d.timer = nil
	}
}

// CancelAndWait drops a pending action and waits for a running one.
func (d *Debouncer) CancelAndWait() {
	d.Cancel()
	d.wg.Wait()
}
