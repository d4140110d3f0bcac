package song

import (
	"github.com/valerio/go-apu/apu/cell"
	"github.com/valerio/go-apu/apu/wave"
)

const (
	SampleRate = wave.SampleRate

	Channels     = 5
	NoiseChannel = 4

	BPSDefault = 8
	BPSMax     = 63
	TPBDefault = 4
	TPBMax     = 15

	VolumeMax = cell.VolumeMax

	PatternsMax      = 16
	PatternLengthMax = 256
	InstrumentsMax   = cell.InstrumentMax + 1
	NoiseNoteMax     = wave.NoiseNoteMax
)
