// Package wave implements the periodic signal sources behind each channel.
package wave

import "math"

// SampleRate is the fixed output rate of every oscillator, in Hz.
const SampleRate = 16000

// BaseFrequency is the frequency of note 0 (A1).
const BaseFrequency = 55.0

// Oscillator produces one sample in [-1, 1] per call.
type Oscillator interface {
	Sample() float64
	SetFrequency(frequency float64)
	NoteSet(note int)
	Frequency() float64
}

var (
	_ Oscillator = (*Square)(nil)
	_ Oscillator = (*Saw)(nil)
	_ Oscillator = (*Sine)(nil)
	_ Oscillator = (*Triangle)(nil)
	_ Oscillator = (*Noise)(nil)
)

// NoteFrequency maps a note index to Hz on the equal-tempered scale rooted at A1.
func NoteFrequency(note int) float64 {
	return BaseFrequency * math.Pow(2, float64(note)/12)
}

// phase is a normalized phase accumulator in [0, 1) shared by the tonal oscillators.
type phase struct {
	position  float64
	offset    float64
	length    float64
	frequency float64
}

func newPhase() phase {
	p := phase{}
	p.setFrequency(1)
	return p
}

// setFrequency changes the period while keeping the normalized position, so the
// waveform continues without a discontinuity.
func (p *phase) setFrequency(frequency float64) {
	if frequency <= 0 {
		return
	}
	p.frequency = frequency
	p.length = SampleRate / frequency
	p.offset = p.position * p.length
}

func (p *phase) advance() float64 {
	p.offset = math.Mod(p.offset+1, p.length)
	p.position = p.offset / p.length
	return p.position
}

// Square is a pulse wave with adjustable duty cycle.
type Square struct {
	phase
	duty float64
}

func NewSquare() *Square {
	return &Square{phase: newPhase(), duty: 0.5}
}

func (s *Square) Sample() float64 {
	if s.advance() >= s.duty {
		return 1
	}
	return -1
}

func (s *Square) SetFrequency(frequency float64) { s.setFrequency(frequency) }
func (s *Square) NoteSet(note int)               { s.setFrequency(NoteFrequency(note)) }
func (s *Square) Frequency() float64             { return s.frequency }
func (s *Square) Duty() float64                  { return s.duty }

// SetDuty moves the high/low boundary. When the change would flip the current
// output level, the phase is moved so the output stays where it is.
func (s *Square) SetDuty(duty float64) {
	switch {
	case s.position >= s.duty && s.position < duty:
		s.position = duty
		s.offset = s.position * s.length
	case s.position < s.duty && s.position >= duty:
		s.position = 0
		s.offset = 0
	}
	s.duty = duty
}

// Saw ramps linearly from -1 to 1 every period.
type Saw struct {
	phase
}

func NewSaw() *Saw {
	return &Saw{phase: newPhase()}
}

func (s *Saw) Sample() float64                { return s.advance()*2 - 1 }
func (s *Saw) SetFrequency(frequency float64) { s.setFrequency(frequency) }
func (s *Saw) NoteSet(note int)               { s.setFrequency(NoteFrequency(note)) }
func (s *Saw) Frequency() float64             { return s.frequency }

type Sine struct {
	phase
}

func NewSine() *Sine {
	return &Sine{phase: newPhase()}
}

func (s *Sine) Sample() float64                { return math.Sin(s.advance() * 2 * math.Pi) }
func (s *Sine) SetFrequency(frequency float64) { s.setFrequency(frequency) }
func (s *Sine) NoteSet(note int)               { s.setFrequency(NoteFrequency(note)) }
func (s *Sine) Frequency() float64             { return s.frequency }

type Triangle struct {
	phase
}

func NewTriangle() *Triangle {
	return &Triangle{phase: newPhase()}
}

func (t *Triangle) Sample() float64                { return math.Abs(t.advance()*4-2) - 1 }
func (t *Triangle) SetFrequency(frequency float64) { t.setFrequency(frequency) }
func (t *Triangle) NoteSet(note int)               { t.setFrequency(NoteFrequency(note)) }
func (t *Triangle) Frequency() float64             { return t.frequency }
