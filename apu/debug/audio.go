// Package debug captures read-only views of the processor for monitors and
// headless reports.
package debug

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/valerio/go-apu/apu/channel"
	"github.com/valerio/go-apu/apu/song"
	"github.com/valerio/go-apu/apu/wave"
)

type ChannelStatus struct {
	Index     int
	Waveform  string
	Enabled   bool
	Active    bool
	Frequency float64
	Volume    float64
	NoteIndex int
	Note      string
	Envelope  float64
	Node      int
	Live      bool
	Effect    channel.Effect
	DutyCycle float64

	// noise channel only
	NoisePeriod int
	LFSR        uint16
}

// Snapshot is a copy of the processor state taken between audio buffers.
type Snapshot struct {
	Loaded         bool
	Playing        bool
	Pattern        int
	Row            int
	BPS            int
	TPB            int
	SamplesPerRow  int
	SamplesPerTick int
	SongVolume     float64
	Channels       []ChannelStatus
	Peak           float64
	RMS            float64
	Waveform       []float32
	SampleRate     int
}

// Source is the part of the processor a snapshot reads.
type Source interface {
	Channels() []*channel.Channel
	Song() *song.Song
	Muted(index int) bool
}

// Capture copies src's state. window is the most recent output and is copied
// for the waveform view and level meter.
func Capture(src Source, window []float32) *Snapshot {
	var m Meter
	return m.Capture(src, window)
}

// Meter measures output levels, reusing its scratch buffer across calls.
// A Meter is not safe for concurrent use.
type Meter struct {
	scratch []float64
}

// Capture is like the package level Capture but measures with m.
func (m *Meter) Capture(src Source, window []float32) *Snapshot {
	snap := &Snapshot{
		SampleRate: wave.SampleRate,
		Waveform:   append([]float32(nil), window...),
	}
	snap.Peak, snap.RMS = m.Levels(window)

	if s := src.Song(); s != nil {
		snap.Loaded = true
		snap.Playing = s.Playing()
		snap.Pattern, snap.Row = s.Position()
		snap.BPS = s.BPS()
		snap.TPB = s.TPB()
		snap.SamplesPerRow = s.SamplesPerRow()
		snap.SamplesPerTick = s.SamplesPerTick()
		snap.SongVolume = s.Volume()
	}

	for i, ch := range src.Channels() {
		snap.Channels = append(snap.Channels, channelStatus(i, ch, !src.Muted(i)))
	}
	return snap
}

func channelStatus(index int, ch *channel.Channel, enabled bool) ChannelStatus {
	osc := ch.Oscillator()
	status := ChannelStatus{
		Index:     index,
		Waveform:  WaveformName(osc),
		Enabled:   enabled,
		Frequency: osc.Frequency(),
		Volume:    ch.Volume(),
		NoteIndex: -1,
		Note:      "--",
		Node:      -1,
		Effect:    ch.Effect(),
	}
	switch o := osc.(type) {
	case *wave.Square:
		status.DutyCycle = o.Duty()
	case *wave.Noise:
		status.NoisePeriod = o.Period()
		status.LFSR = o.Register()
	}

	note := ch.Note()
	if note == nil {
		return status
	}
	status.Active = !note.Finished() && !note.Silenced()
	status.NoteIndex = note.Value()
	status.Envelope = note.Volume()
	status.Node = note.Node()
	status.Live = note.Live()
	if _, noise := osc.(*wave.Noise); noise {
		status.Note = "Noise"
	} else {
		status.Note = frequencyToNote(status.Frequency)
	}
	return status
}

// WaveformName names the oscillator kind.
func WaveformName(osc wave.Oscillator) string {
	switch osc.(type) {
	case *wave.Square:
		return "square"
	case *wave.Saw:
		return "saw"
	case *wave.Sine:
		return "sine"
	case *wave.Triangle:
		return "triangle"
	case *wave.Noise:
		return "noise"
	default:
		return "custom"
	}
}

// Levels returns the peak and RMS amplitude of window.
func Levels(window []float32) (peak, rms float64) {
	var m Meter
	return m.Levels(window)
}

// Levels returns the peak and RMS amplitude of window. It only allocates when
// window is longer than any window measured before.
func (m *Meter) Levels(window []float32) (peak, rms float64) {
	if len(window) == 0 {
		return 0, 0
	}
	if cap(m.scratch) < len(window) {
		m.scratch = make([]float64, len(window))
	}
	samples := m.scratch[:len(window)]
	for i, v := range window {
		samples[i] = float64(v)
	}
	peak = floats.Norm(samples, math.Inf(1))
	rms = floats.Norm(samples, 2) / math.Sqrt(float64(len(samples)))
	return peak, rms
}

// frequencyToNote names the equal-tempered pitch closest to freq, e.g. "A4" for 440 Hz.
func frequencyToNote(freq float64) string {
	if !(freq >= 20 && freq <= 20000) {
		return "--"
	}

	notes := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	a4 := 440.0

	midi := int(math.Floor(12*math.Log2(freq/a4) + 69.5))
	noteIndex := midi % 12
	octave := midi/12 - 1

	if octave < 0 || octave > 9 {
		return "--"
	}

	return notes[noteIndex] + strconv.Itoa(octave)
}
