package confetti

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_SkipsHistoryAndOwnEvents(t *testing.T) {
	connected := time.UnixMilli(1_700_000_000_000)
	w := NewWatcher("me", connected)

	events := []Event{
		{ID: "old", SenderID: "other", CreatedAt: connected.Add(-time.Second)},
		{ID: "at-connect", SenderID: "other", CreatedAt: connected},
		{ID: "mine", SenderID: "me", CreatedAt: connected.Add(time.Second)},
		{ID: "theirs", SenderID: "other", CreatedAt: connected.Add(2 * time.Second)},
	}

	fresh := w.Next(events)
	require.Len(t, fresh, 1)
	require.Equal(t, "theirs", fresh[0].ID)
	require.Equal(t, connected.Add(2*time.Second), w.Watermark())

	require.Empty(t, w.Next(events), "replaying the same window yields nothing")
}

func TestWatcher_OwnEventAdvancesWatermark(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	w := NewWatcher("me", start)

	require.Empty(t, w.Next([]Event{{ID: "mine", SenderID: "me", CreatedAt: start.Add(time.Second)}}))
	require.Equal(t, start.Add(time.Second), w.Watermark())
}

func TestWatcher_SameMillisecond(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	at := start.Add(time.Second)
	w := NewWatcher("me", start)

	first := []Event{{ID: "a", SenderID: "x", CreatedAt: at}}
	require.Len(t, w.Next(first), 1)

	both := append(first, Event{ID: "b", SenderID: "y", CreatedAt: at})
	fresh := w.Next(both)
	require.Len(t, fresh, 1)
	require.Equal(t, "b", fresh[0].ID)
}
