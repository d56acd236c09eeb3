package board

import "time"

// Timer is the shared countdown shown on a board. Durations are milliseconds.
type Timer struct {
	DurationMs  int64      `json:"durationMs"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	Paused      bool       `json:"paused"`
	RemainingMs *int64     `json:"remainingMs,omitempty"`
}

// Running reports whether the timer is counting down.
func (t Timer) Running() bool {
	return t.StartedAt != nil && !t.Paused
}

// Remaining returns the time left at now.
func (t Timer) Remaining(now time.Time) time.Duration {
	switch {
	case t.Paused && t.RemainingMs != nil:
		return time.Duration(*t.RemainingMs) * time.Millisecond
	case t.StartedAt == nil:
		return time.Duration(t.DurationMs) * time.Millisecond
	}
	left := time.Duration(t.DurationMs)*time.Millisecond - now.Sub(*t.StartedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Start begins a fresh countdown of d.
func (t *Timer) Start(d time.Duration, now time.Time) {
	started := now
	ms := d.Milliseconds()
	t.DurationMs = ms
	t.StartedAt = &started
	t.Paused = false
	t.RemainingMs = &ms
}

// Pause freezes a running countdown. It reports whether anything changed.
func (t *Timer) Pause(now time.Time) bool {
	if !t.Running() {
		return false
	}
	remaining := t.Remaining(now).Milliseconds()
	t.Paused = true
	t.RemainingMs = &remaining
	return true
}

// Resume restarts a paused countdown from its remaining time. A paused timer
// with nothing left stays paused.
func (t *Timer) Resume(now time.Time) bool {
	if !t.Paused || t.RemainingMs == nil || *t.RemainingMs == 0 {
		return false
	}
	started := now
	t.DurationMs = *t.RemainingMs
	t.StartedAt = &started
	t.Paused = false
	return true
}

// Reset clears the countdown and leaves the timer paused at zero.
func (t *Timer) Reset() {
	*t = Timer{Paused: true}
}
