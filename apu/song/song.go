// Package song sequences pattern data onto the channels at row and tick
// granularity, driven one sample at a time.
package song

import (
	"log/slog"
	"math"

	"github.com/valerio/go-apu/apu/cell"
	"github.com/valerio/go-apu/apu/channel"
	"github.com/valerio/go-apu/apu/envelope"
)

// Notifier receives playback progress. Calls happen on the sample path and
// must not block.
type Notifier interface {
	PatternRow(pattern, row int)
	SongEnd()
}

// Song is the playback state of one loaded song.
type Song struct {
	channels    []*channel.Channel
	notify      Notifier
	patterns    []Pattern
	instruments []*envelope.Instrument

	playing     bool
	pattern     int
	row         int
	sampleIndex int

	volume         float64
	bps            int
	tpb            int
	samplesPerRow  int
	samplesPerTick int
}

// New builds a paused song at pattern 0, row 0. channels must hold one channel
// per column of the pattern data.
func New(channels []*channel.Channel, data Data, notify Notifier) *Song {
	s := &Song{
		channels:       channels,
		notify:         notify,
		patterns:       data.Patterns,
		instruments:    data.Instruments,
		volume:         1,
		bps:            1,
		tpb:            1,
		samplesPerRow:  1,
		samplesPerTick: 1,
	}

	if data.Volume != nil {
		s.SetVolume(*data.Volume)
	}
	if data.BPS != 0 {
		s.SetBPS(data.BPS)
	}
	if data.TPB != 0 {
		s.SetTPB(data.TPB)
	}

	return s
}

// Sample advances the sequencer clock by one sample, applying a row at each row
// boundary and running channel effects at each tick boundary. It does nothing
// while paused.
func (s *Song) Sample() {
	if !s.playing {
		return
	}

	jumped := false
	if s.sampleIndex%s.samplesPerRow == 0 {
		s.sampleIndex = 0
		jumped = s.playRow()
		if jumped {
			s.sampleIndex = 0
			s.playRow()
			s.tickAdvance(0)
		}
		if !s.playing {
			// ended while applying the row; the next Play starts on a row boundary
			s.sampleIndex = 0
			return
		}
	}
	if !jumped && s.sampleIndex%s.samplesPerTick == 0 {
		s.tickAdvance(s.sampleIndex / s.samplesPerTick)
	}
	s.sampleIndex++
}

// playRow applies the row under the cursor and reports whether an effect moved
// the cursor. Without a jump the cursor moves to the next row.
func (s *Song) playRow() bool {
	for s.pattern < len(s.patterns) && s.row >= s.patterns[s.pattern].Rows() {
		s.pattern++
		s.row = 0
	}
	if s.pattern >= len(s.patterns) {
		s.end()
		return false
	}

	s.notify.PatternRow(s.pattern, s.row)

	jump := false
	cells := s.patterns[s.pattern].Row(s.row)
	for index, c := range cells {
		if c.IsEmpty() || index >= len(s.channels) {
			continue
		}
		if s.applyCell(index, c) {
			jump = true
		}
	}

	if !jump {
		s.row++
	}
	return jump
}

// applyCell applies volume, then note, then effect.
func (s *Song) applyCell(index int, c cell.Cell) bool {
	ch := s.channels[index]
	f := c.Fields()

	if v, ok := f.Volume.Get(); ok {
		ch.VolumeSet(float64(v) / VolumeMax)
	}

	if note, ok := f.Note.Get(); ok {
		if note == cell.NoteStop {
			ch.NoteEnd()
		} else if inst := s.instrument(f.Instrument); inst != nil {
			ch.NotePlay(int(note), inst)
		}
	}

	if code, ok := f.Effect.Get(); ok {
		return s.dispatch(index, code)
	}
	return false
}

func (s *Song) instrument(index cell.Optional[uint8]) *envelope.Instrument {
	i, ok := index.Get()
	if !ok || int(i) >= len(s.instruments) {
		return nil
	}
	return s.instruments[i]
}

func (s *Song) tickAdvance(tick int) {
	for _, ch := range s.channels {
		ch.TickAdvance(tick)
	}
}

func (s *Song) end() {
	s.playing = false
	s.pattern = 0
	s.row = 0
	slog.Debug("Song ended")
	s.notify.SongEnd()
	for _, ch := range s.channels {
		ch.Reset()
	}
}

// Play starts or resumes the sequencer from the current cursor.
func (s *Song) Play() {
	s.playing = true
}

// Pause stops the sequencer and releases every channel's note, keeping the cursor.
func (s *Song) Pause() {
	s.playing = false
	for _, ch := range s.channels {
		ch.NoteEnd()
	}
}

// SetVolume sets the song volume from 0..VolumeMax; larger values clamp.
func (s *Song) SetVolume(volume int) {
	s.volume = float64(clamp(volume, 0, VolumeMax)) / VolumeMax
}

// SetBPS sets beats (rows) per second, clamped to 1..BPSMax.
func (s *Song) SetBPS(bps int) {
	s.bps = clamp(bps, 1, BPSMax)
	s.updateTempo()
}

// SetTPB sets ticks per beat, clamped to 1..TPBMax.
func (s *Song) SetTPB(tpb int) {
	s.tpb = clamp(tpb, 1, TPBMax)
	s.updateTempo()
}

func (s *Song) updateTempo() {
	s.samplesPerRow = int(math.Ceil(float64(SampleRate) / float64(s.bps)))
	s.samplesPerTick = int(math.Ceil(float64(s.samplesPerRow) / float64(s.tpb)))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (s *Song) Playing() bool       { return s.playing }
func (s *Song) Volume() float64     { return s.volume }
func (s *Song) BPS() int            { return s.bps }
func (s *Song) TPB() int            { return s.tpb }
func (s *Song) SamplesPerRow() int  { return s.samplesPerRow }
func (s *Song) SamplesPerTick() int { return s.samplesPerTick }
func (s *Song) Patterns() []Pattern { return s.patterns }

// Position returns the cursor: the pattern and row that will be applied next.
func (s *Song) Position() (pattern, row int) {
	return s.pattern, s.row
}
