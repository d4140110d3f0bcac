package song

import (
	"github.com/valerio/go-apu/apu/cell"
	"github.com/valerio/go-apu/apu/envelope"
)

// Pattern is a row-major grid of cells, Channels cells per row.
type Pattern []cell.Cell

// Rows returns the number of complete rows.
func (p Pattern) Rows() int {
	return len(p) / Channels
}

// Row returns the cells of row r, one per channel.
func (p Pattern) Row(r int) []cell.Cell {
	return p[r*Channels : (r+1)*Channels]
}

// Data is everything needed to build a Song.
type Data struct {
	// Volume is the song volume in 0..VolumeMax; nil leaves it at full.
	Volume *int
	// BPS and TPB are only applied when non-zero.
	BPS int
	TPB int

	Patterns    []Pattern
	Instruments []*envelope.Instrument
}
