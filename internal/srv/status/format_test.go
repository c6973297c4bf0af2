package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{59*time.Second + 900*time.Millisecond, "00:59"},
		{3*time.Minute + 7*time.Second, "03:07"},
		{75 * time.Minute, "75:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.elapsed), tt.elapsed.String())
	}
}

func TestPulseLevels(t *testing.T) {
	now := time.Unix(1700000000, 250000000)
	levels := PulseLevels(now, 32)
	assert.Len(t, levels, 32)
	for _, level := range levels {
		assert.GreaterOrEqual(t, level, 0.1-1e-9)
		assert.LessOrEqual(t, level, 0.9+1e-9)
	}
	assert.NotEqual(t, levels, PulseLevels(now.Add(300*time.Millisecond), 32))
}
