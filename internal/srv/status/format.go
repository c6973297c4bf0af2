package status

import (
	"fmt"
	"math"
	"time"
)

// FormatElapsed renders d as mm:ss, minutes keep growing past an hour.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// PulseLevels returns count bar heights in [0.1, 0.9], a wave moving with time.
func PulseLevels(now time.Time, count int) []float64 {
	t := float64(now.UnixNano()) / float64(time.Second)
	levels := make([]float64, count)
	for i := range levels {
		levels[i] = 0.5 + 0.4*math.Sin(t*2+float64(i)*0.3)
	}
	return levels
}
