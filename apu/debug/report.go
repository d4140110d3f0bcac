package debug

import (
	"fmt"
	"io"

	"github.com/valerio/go-apu/apu/cell"
)

// WriteText writes a plain-text dump of the snapshot, one line per channel.
func (s *Snapshot) WriteText(w io.Writer) error {
	state := "paused"
	switch {
	case !s.Loaded:
		state = "empty"
	case s.Playing:
		state = "playing"
	}

	if _, err := fmt.Fprintf(w, "# Processor snapshot\n# State: %s, Pattern: %d, Row: %d\n", state, s.Pattern, s.Row); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# Tempo: %d bps x %d tpb (%d samples/row, %d samples/tick), Volume: %.2f\n",
		s.BPS, s.TPB, s.SamplesPerRow, s.SamplesPerTick, s.SongVolume); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# Level: peak %.3f, rms %.3f\n#\n", s.Peak, s.RMS); err != nil {
		return err
	}

	for _, ch := range s.Channels {
		if _, err := fmt.Fprintln(w, ch.String()); err != nil {
			return err
		}
	}
	return nil
}

func (c ChannelStatus) String() string {
	mute := " "
	if !c.Enabled {
		mute = "M"
	}
	note := "..."
	if c.NoteIndex >= 0 {
		note = cell.NoteName(c.NoteIndex)
	}
	live := "-"
	if c.Live {
		live = "L"
	}
	line := fmt.Sprintf("%d%s %-8s %s %-5s %8.2fHz vol %.2f env %.2f node %2d %s fx %s %X %X",
		c.Index, mute, c.Waveform, note, c.Note, c.Frequency, c.Volume, c.Envelope, c.Node, live,
		c.Effect.Kind, c.Effect.Arg1, c.Effect.Arg2)
	if c.NoisePeriod > 0 {
		line += fmt.Sprintf(" lfsr %04X/%d", c.LFSR, c.NoisePeriod)
	}
	return line
}
