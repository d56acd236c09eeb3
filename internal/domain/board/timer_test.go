package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimer_PauseResume(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)

	var timer Timer
	timer.Start(5*time.Minute, start)
	require.True(t, timer.Running())
	require.Equal(t, 5*time.Minute, timer.Remaining(start))

	require.True(t, timer.Pause(start.Add(90*time.Second)))
	require.True(t, timer.Paused)
	require.Equal(t, int64(210000), *timer.RemainingMs)

	// Time passing while paused changes nothing
	require.Equal(t, 210*time.Second, timer.Remaining(start.Add(time.Hour)))
	require.False(t, timer.Pause(start.Add(time.Hour)), "already paused")

	resumeAt := start.Add(time.Hour)
	require.True(t, timer.Resume(resumeAt))
	require.False(t, timer.Paused)
	require.Equal(t, int64(210000), timer.DurationMs)
	require.Equal(t, 200*time.Second, timer.Remaining(resumeAt.Add(10*time.Second)))
}

func TestTimer_PauseAfterExpiry(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)

	var timer Timer
	timer.Start(time.Minute, start)
	require.Equal(t, time.Duration(0), timer.Remaining(start.Add(2*time.Minute)))

	require.True(t, timer.Pause(start.Add(2*time.Minute)))
	require.Equal(t, int64(0), *timer.RemainingMs)
	require.False(t, timer.Resume(start.Add(3*time.Minute)), "nothing left to resume")
}

func TestTimer_Reset(t *testing.T) {
	var timer Timer
	timer.Start(time.Minute, time.Now())
	timer.Reset()

	require.Nil(t, timer.StartedAt)
	require.Nil(t, timer.RemainingMs)
	require.True(t, timer.Paused)
	require.Equal(t, int64(0), timer.DurationMs)
	require.False(t, timer.Pause(time.Now()))
	require.False(t, timer.Resume(time.Now()))
}
