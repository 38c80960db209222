package stats

import (
	"fmt"
	"time"
)

// FormatDuration renders a latency compactly: sub-millisecond values in
// microseconds, values under 100ms with one decimal, the rest in whole ms.
func FormatDuration(d time.Duration) string {
	micros := d.Microseconds()
	switch {
	case micros < 1000:
		return fmt.Sprintf("%dµs", micros)
	case micros < 100_000:
		return fmt.Sprintf("%.1fms", float64(micros)/1000)
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// FormatOptional renders a possibly-absent latency, "-" when absent.
func FormatOptional(d time.Duration, ok bool) string {
	if !ok {
		return "-"
	}
	return FormatDuration(d)
}

// FormatElapsed renders an elapsed time as "30s", "1m 30s" or "1h 5m".
func FormatElapsed(d time.Duration) string {
	secs := int64(d.Seconds())
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm %ds", secs/60, secs%60)
	default:
		return fmt.Sprintf("%dh %dm", secs/3600, (secs%3600)/60)
	}
}
