package speaker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBufferBytes(t *testing.T) {
	tests := []struct {
		rate     int
		duration time.Duration
		expected int
	}{
		{16000, 50 * time.Millisecond, 3200},
		{16000, time.Second, 64000},
		{44100, 10 * time.Millisecond, 1764},
		{16000, 0, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, BufferBytes(tt.rate, tt.duration), "%d Hz for %v", tt.rate, tt.duration)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	assert.Equal(t, 16000, c.SampleRate)
	assert.Equal(t, DefaultBufferDuration, c.BufferDuration)

	c = Config{SampleRate: 8000, BufferDuration: time.Second}.withDefaults()
	assert.Equal(t, 8000, c.SampleRate)
	assert.Equal(t, time.Second, c.BufferDuration)
}
