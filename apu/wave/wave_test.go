package wave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteFrequency(t *testing.T) {
	tests := []struct {
		note     int
		expected float64
	}{
		{0, 55},
		{12, 110},
		{24, 220},
		{36, 440},
		{3, 65.406},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, NoteFrequency(tt.note), 0.001, "note %d", tt.note)
	}
}

func TestOscillatorsStayInRange(t *testing.T) {
	oscillators := map[string]Oscillator{
		"square":   NewSquare(),
		"saw":      NewSaw(),
		"sine":     NewSine(),
		"triangle": NewTriangle(),
		"noise":    NewNoise(),
	}

	for name, osc := range oscillators {
		t.Run(name, func(t *testing.T) {
			osc.NoteSet(10)
			for range 5000 {
				v := osc.Sample()
				assert.GreaterOrEqual(t, v, -1.0)
				assert.LessOrEqual(t, v, 1.0)
			}
		})
	}
}

func TestSquareHalfDuty(t *testing.T) {
	sq := NewSquare()
	sq.SetFrequency(SampleRate / 100) // period of exactly 100 samples

	high, low := 0, 0
	for range 1000 {
		if sq.Sample() > 0 {
			high++
		} else {
			low++
		}
	}
	assert.Equal(t, 500, high)
	assert.Equal(t, 500, low)
}

func TestSquarePeriod(t *testing.T) {
	sq := NewSquare()
	sq.SetFrequency(SampleRate / 40)

	first := make([]float64, 40)
	for i := range first {
		first[i] = sq.Sample()
	}
	for i := range 40 {
		assert.Equal(t, first[i], sq.Sample(), "sample %d of second period", i)
	}
}

func TestSetFrequencyPreservesPhase(t *testing.T) {
	saw := NewSaw()
	saw.SetFrequency(100)
	for range 40 {
		saw.Sample()
	}
	before := saw.position

	saw.SetFrequency(400)
	assert.InDelta(t, before, saw.position, 1e-12)
	assert.InDelta(t, before*saw.length, saw.offset, 1e-9)
}

func TestSawRamp(t *testing.T) {
	saw := NewSaw()
	saw.SetFrequency(SampleRate / 4)

	assert.InDelta(t, -0.5, saw.Sample(), 1e-12)
	assert.InDelta(t, 0.0, saw.Sample(), 1e-12)
	assert.InDelta(t, 0.5, saw.Sample(), 1e-12)
	assert.InDelta(t, -1.0, saw.Sample(), 1e-12)
}

func TestTriangleShape(t *testing.T) {
	tri := NewTriangle()
	tri.SetFrequency(SampleRate / 4)

	assert.InDelta(t, 0.0, tri.Sample(), 1e-12)
	assert.InDelta(t, -1.0, tri.Sample(), 1e-12)
	assert.InDelta(t, 0.0, tri.Sample(), 1e-12)
	assert.InDelta(t, 1.0, tri.Sample(), 1e-12)
}

func TestSineQuarterPeriod(t *testing.T) {
	sine := NewSine()
	sine.SetFrequency(SampleRate / 4)
	assert.InDelta(t, 1.0, sine.Sample(), 1e-12)
	assert.InDelta(t, 0.0, sine.Sample(), 1e-12)
	assert.InDelta(t, -1.0, sine.Sample(), 1e-12)
}

func TestSquareSetDuty(t *testing.T) {
	tests := []struct {
		name         string
		position     float64
		newDuty      float64
		wantPosition float64
	}{
		{"high moving into low half jumps to new duty", 0.6, 0.75, 0.75},
		{"low moving into high half restarts", 0.3, 0.25, 0},
		{"high staying high", 0.8, 0.75, 0.8},
		{"low staying low", 0.1, 0.75, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sq := NewSquare()
			sq.SetFrequency(100)
			sq.position = tt.position
			sq.offset = tt.position * sq.length

			sq.SetDuty(tt.newDuty)
			assert.Equal(t, tt.newDuty, sq.Duty())
			assert.InDelta(t, tt.wantPosition, sq.position, 1e-12)
		})
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a, b := NewNoise(), NewNoise()
	a.NoteSet(3)
	b.NoteSet(3)
	for range 2000 {
		assert.Equal(t, a.Sample(), b.Sample())
	}
}

func TestNoiseStepPeriod(t *testing.T) {
	n := NewNoise()
	n.NoteSet(4) // step every 5 samples
	assert.Equal(t, 5, n.Period())
	assert.InDelta(t, SampleRate/5.0, n.Frequency(), 1e-9)

	steps := 0
	last := n.Register()
	for range 50 {
		n.Sample()
		if n.Register() != last {
			steps++
			last = n.Register()
		}
	}
	assert.Equal(t, 10, steps)
}

func TestNoiseMaximalLength(t *testing.T) {
	n := NewNoise()
	seen := 0
	for {
		n.step()
		seen++
		if n.Register() == lfsrInitialValue || seen > 1<<15 {
			break
		}
	}
	assert.Equal(t, 32767, seen)
}

func TestNoiseNotReseededOnNote(t *testing.T) {
	n := NewNoise()
	for range 100 {
		n.Sample()
	}
	reg := n.Register()
	n.NoteSet(NoiseNoteMax)
	assert.Equal(t, reg, n.Register())
}

func TestNoiseSetFrequency(t *testing.T) {
	n := NewNoise()
	n.SetFrequency(SampleRate / 8)
	assert.Equal(t, 8, n.Period())
	n.SetFrequency(math.Inf(1))
	assert.Equal(t, 1, n.Period())
}
