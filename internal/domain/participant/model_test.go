package participant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsLive(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	require.True(t, IsLive(now, now))
	require.True(t, IsLive(now.Add(-29*time.Second), now))
	require.False(t, IsLive(now.Add(-LivenessWindow), now), "boundary is exclusive")
	require.False(t, IsLive(now.Add(-time.Minute), now))
}

func TestCursorColor(t *testing.T) {
	require.Len(t, CursorPalette, 16)
	// "a" is 97, 97 % 16 == 1
	require.Equal(t, "orange", CursorColor("a"))
	require.Equal(t, CursorColor("user-123"), CursorColor("user-123"))
	require.Equal(t, "red", CursorColor(""))
}
