package telemetry

import (
	"sync"
	"time"
)

const fpsWindow = time.Second

var Timestamp = func() time.Time {
	return time.Now()
}

// Tracker keeps a rolling one second window of event timestamps to
// derive current throughput, plus the wall clock duration of the most
// recently measured unit of work. Timestamps come from the processing
// clock, not from frame presentation timestamps.
type Tracker struct {
	mu        sync.Mutex
	events    []time.Time
	latencyMs float64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) RecordEvent(at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.events = append(t.events, at)
	t.pruneOlderThan(at.Add(-fpsWindow))
}

func (t *Tracker) pruneOlderThan(cutoff time.Time) {
	retainFrom := 0
	for i, at := range t.events {
		if at.After(cutoff) {
			break
		}
		retainFrom = i + 1
	}
	t.events = t.events[retainFrom:]
}

// FPS is the count of events retained within the trailing window.
func (t *Tracker) FPS() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// Measure times work on the wall clock and records its duration in
// milliseconds, overwriting any previous measurement.
func (t *Tracker) Measure(work func()) float64 {
	start := Timestamp()
	work()
	elapsed := Timestamp().Sub(start)

	latencyMs := float64(elapsed) / float64(time.Millisecond)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.latencyMs = latencyMs
	return latencyMs
}

func (t *Tracker) LatencyMs() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latencyMs
}

func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
	t.latencyMs = 0
}
