// Package cell packs and unpacks the 32-bit words that make up pattern data.
//
// Layout, most significant bit first:
//
//	31     note present
//	30     instrument present
//	29     volume present
//	28     effect present
//	27..22 note (6 bits)
//	21..18 instrument (4 bits)
//	17..12 volume (6 bits)
//	11..0  effect (12 bits)
//
// A zero word is an empty cell.
package cell

import (
	"fmt"

	"github.com/valerio/go-apu/apu/bit"
)

// Cell is one channel's slot in one pattern row.
type Cell uint32

const (
	flagNote       = 31
	flagInstrument = 30
	flagVolume     = 29
	flagEffect     = 28

	noteOffset       = 22
	noteWidth        = 6
	instrumentOffset = 18
	instrumentWidth  = 4
	volumeOffset     = 12
	volumeWidth      = 6
	effectOffset     = 0
	effectWidth      = 12
)

const (
	// NoteStop in the note field releases the playing note instead of starting one.
	NoteStop = 63
	// NoteMax is the highest playable note index.
	NoteMax = 62
	// InstrumentMax is the highest addressable instrument index.
	InstrumentMax = 15
	// VolumeMax is the largest volume field value, normalized to 1.0.
	VolumeMax = 63
)

// Empty is the cell with no fields present.
const Empty Cell = 0

// Optional holds a field value together with its presence flag.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// Fields is the decoded form of a Cell.
type Fields struct {
	Note       Optional[uint8]
	Instrument Optional[uint8]
	Volume     Optional[uint8]
	Effect     Optional[Effect]
}

// Encode packs fields into a Cell. Values wider than their field are truncated.
func Encode(f Fields) Cell {
	var word uint32
	if f.Note.Valid {
		word = bit.Set32(flagNote, word) | bit.Place(uint32(f.Note.Value), noteOffset, noteWidth)
	}
	if f.Instrument.Valid {
		word = bit.Set32(flagInstrument, word) | bit.Place(uint32(f.Instrument.Value), instrumentOffset, instrumentWidth)
	}
	if f.Volume.Valid {
		word = bit.Set32(flagVolume, word) | bit.Place(uint32(f.Volume.Value), volumeOffset, volumeWidth)
	}
	if f.Effect.Valid {
		word = bit.Set32(flagEffect, word) | bit.Place(uint32(f.Effect.Value), effectOffset, effectWidth)
	}
	return Cell(word)
}

// Decode unpacks a Cell. Fields whose flag is clear are absent, whatever their bits hold.
func Decode(c Cell) Fields {
	word := uint32(c)
	var f Fields
	if bit.IsSet32(flagNote, word) {
		f.Note = Some(uint8(bit.Field(word, noteOffset, noteWidth)))
	}
	if bit.IsSet32(flagInstrument, word) {
		f.Instrument = Some(uint8(bit.Field(word, instrumentOffset, instrumentWidth)))
	}
	if bit.IsSet32(flagVolume, word) {
		f.Volume = Some(uint8(bit.Field(word, volumeOffset, volumeWidth)))
	}
	if bit.IsSet32(flagEffect, word) {
		f.Effect = Some(Effect(bit.Field(word, effectOffset, effectWidth)))
	}
	return f
}

// Fields decodes c.
func (c Cell) Fields() Fields {
	return Decode(c)
}

// IsEmpty reports whether no field is present.
func (c Cell) IsEmpty() bool {
	return uint32(c)>>flagEffect == 0
}

// String renders the cell the way a tracker column shows it, e.g. "C-3 01 3F 7A0".
func (c Cell) String() string {
	f := c.Fields()

	note := "..."
	if v, ok := f.Note.Get(); ok {
		note = NoteName(int(v))
	}

	instrument := ".."
	if v, ok := f.Instrument.Get(); ok {
		instrument = fmt.Sprintf("%02X", v)
	}

	volume := ".."
	if v, ok := f.Volume.Get(); ok {
		volume = fmt.Sprintf("%02X", v)
	}

	effect := "..."
	if v, ok := f.Effect.Get(); ok {
		effect = fmt.Sprintf("%03X", uint16(v))
	}

	return note + " " + instrument + " " + volume + " " + effect
}

var noteNames = [12]string{"A-", "A#", "B-", "C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#"}

// NoteName names a note index. Index 0 is A-1 (55 Hz); the stop sentinel renders as "===".
func NoteName(note int) string {
	if note == NoteStop {
		return "==="
	}
	if note < 0 {
		return "???"
	}
	octave := 1 + (note+9)/12
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}
