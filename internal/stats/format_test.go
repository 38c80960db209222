package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500µs"},
		{999 * time.Microsecond, "999µs"},
		{1 * time.Millisecond, "1.0ms"},
		{12500 * time.Microsecond, "12.5ms"},
		{99900 * time.Microsecond, "99.9ms"},
		{100 * time.Millisecond, "100ms"},
		{1500 * time.Millisecond, "1500ms"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatDuration(tc.in), "input %v", tc.in)
	}
}

func TestFormatOptional(t *testing.T) {
	require.Equal(t, "-", FormatOptional(0, false))
	require.Equal(t, "1.0ms", FormatOptional(time.Millisecond, true))
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{time.Hour + 5*time.Minute, "1h 5m"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatElapsed(tc.in), "input %v", tc.in)
	}
}
