package badges

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DaysSince returns the number of started days between start and now,
// rounded up. Future starts count the same distance as past ones. A zero
// start yields 0.
func DaysSince(start, now time.Time) int {
	if start.IsZero() {
		return 0
	}
	diff := now.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}
