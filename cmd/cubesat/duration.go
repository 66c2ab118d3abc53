package main

import (
	"fmt"
	"time"
)

// humanDuration formats d at whichever of ns/µs/ms/s is most readable,
// matching the tiering a human skimming a log line expects.
func humanDuration(d time.Duration) string {
	secs := d.Seconds()
	switch {
	case secs < 0.000_001:
		return fmt.Sprintf("%.1fns", secs*1_000_000_000)
	case secs < 0.001:
		return fmt.Sprintf("%.1fµs", secs*1_000_000)
	case secs < 1:
		return fmt.Sprintf("%.1fms", secs*1_000)
	default:
		return fmt.Sprintf("%.1fs", secs)
	}
}
