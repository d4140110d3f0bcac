// Package channel binds an oscillator to the note currently playing on it.
package channel

import (
	"github.com/valerio/go-apu/apu/envelope"
	"github.com/valerio/go-apu/apu/wave"
)

// Bookmark remembers where a row loop starts and how many times it has repeated.
type Bookmark struct {
	Row   int
	Count int
}

// Channel is one voice: a fixed oscillator, a volume, at most one sounding note,
// at most one per-tick effect and an optional loop bookmark.
type Channel struct {
	oscillator wave.Oscillator
	volume     float64
	effect     Effect

	// notes alternates between two slots so a note-on replaces the previous
	// note without allocating.
	notes   [2]envelope.Note
	current int
	playing bool

	bookmark    Bookmark
	hasBookmark bool
}

// New creates a channel around osc, at full volume and without a note.
func New(osc wave.Oscillator) *Channel {
	return &Channel{
		oscillator: osc,
		volume:     1,
	}
}

// Sample mixes the oscillator with the channel volume and the note envelope.
// The oscillator only advances while a note is attached.
func (c *Channel) Sample() float64 {
	if !c.playing {
		return 0
	}
	note := &c.notes[c.current]
	return c.oscillator.Sample() * c.volume * note.Sample()
}

// NotePlay starts a note, replacing any current one. The new envelope starts
// from the previous note's volume so the transition does not click.
func (c *Channel) NotePlay(value int, instrument *envelope.Instrument) {
	c.effect = Effect{}
	c.oscillator.NoteSet(value)

	carried := 0.0
	if c.playing {
		carried = c.notes[c.current].Volume()
	}

	c.current ^= 1
	c.notes[c.current] = envelope.MakeNote(instrument, value, carried)
	c.playing = true
}

// NoteEnd releases the current note, letting its envelope run out.
func (c *Channel) NoteEnd() {
	if c.playing {
		c.notes[c.current].Cut()
	}
}

// Note returns the attached note, or nil.
func (c *Channel) Note() *envelope.Note {
	if !c.playing {
		return nil
	}
	return &c.notes[c.current]
}

// VolumeSet sets the channel volume, already normalized to [0, 1].
func (c *Channel) VolumeSet(volume float64) {
	c.volume = volume
}

func (c *Channel) Volume() float64 {
	return c.volume
}

func (c *Channel) Oscillator() wave.Oscillator {
	return c.oscillator
}

// Bookmark returns the loop bookmark and whether one is set.
func (c *Channel) Bookmark() (Bookmark, bool) {
	return c.bookmark, c.hasBookmark
}

func (c *Channel) SetBookmark(b Bookmark) {
	c.bookmark = b
	c.hasBookmark = true
}

func (c *Channel) ClearBookmark() {
	c.bookmark = Bookmark{}
	c.hasBookmark = false
}

// Reset returns the channel to its initial state: full volume, no note, no
// effect and no loop bookmark. The oscillator keeps its phase.
func (c *Channel) Reset() {
	c.volume = 1
	c.playing = false
	c.effect = Effect{}
	c.ClearBookmark()
}
