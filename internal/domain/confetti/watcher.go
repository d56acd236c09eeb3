package confetti

import "time"

// Watcher tracks which events a consumer has already played. Events the
// consumer fired itself were already played locally and are skipped.
type Watcher struct {
	userID    string
	watermark time.Time
	// IDs already seen at exactly the watermark, so bursts sharing a
	// millisecond are not lost.
	atMark map[string]struct{}
}

// NewWatcher starts watching after since. Pass the current time to ignore
// history present when the consumer connected.
func NewWatcher(userID string, since time.Time) *Watcher {
	return &Watcher{userID: userID, watermark: since, atMark: map[string]struct{}{}}
}

// Watermark returns the creation time of the newest event seen.
func (w *Watcher) Watermark() time.Time {
	return w.watermark
}

// Next returns events newer than the watermark that were fired by someone
// else, and advances the watermark past every event it saw. events must be
// ordered oldest first.
func (w *Watcher) Next(events []Event) []Event {
	var fresh []Event
	for _, e := range events {
		switch {
		case e.CreatedAt.Before(w.watermark):
			continue
		case e.CreatedAt.Equal(w.watermark):
			if _, seen := w.atMark[e.ID]; seen || len(w.atMark) == 0 {
				continue
			}
		default:
			w.watermark = e.CreatedAt
			clear(w.atMark)
		}
		w.atMark[e.ID] = struct{}{}
		if e.SenderID == w.userID {
			continue
		}
		fresh = append(fresh, e)
	}
	return fresh
}
