package engine

import (
	"fmt"
	"time"
)

// FormatClock renders a duration as HH:MM:SS with whole-second truncation
// and two-digit zero padding. The hour field widens past two digits above
// 99 hours instead of wrapping. Negative durations render as 00:00:00.
func FormatClock(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
