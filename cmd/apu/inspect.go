package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli"

	"github.com/valerio/go-apu/apu/cell"
	"github.com/valerio/go-apu/apu/song"
	"github.com/valerio/go-apu/apu/songfile"
)

var (
	headerColor = color.New(color.FgYellow, color.Bold)
	rowColor    = color.New(color.FgHiBlack)
	emptyColor  = color.New(color.FgHiBlack)
	noteColor   = color.New(color.FgCyan)
	stopColor   = color.New(color.FgRed)
	effectColor = color.New(color.FgMagenta)
	labelColor  = color.New(color.FgGreen)
)

func disableColor() {
	color.NoColor = true
}

func runInspect(c *cli.Context) error {
	_, payload, err := loadSong(c)
	if err != nil {
		return err
	}
	return writeSong(c.App.Writer, payload)
}

func writeSong(w io.Writer, p *songfile.Payload) error {
	name := p.Name
	if name == "" {
		name = "(untitled)"
	}
	headerColor.Fprintf(w, "%s", name)
	if p.Author != "" {
		fmt.Fprintf(w, " by %s", p.Author)
	}
	fmt.Fprintln(w)

	data := p.Data()
	s := song.New(nil, data, nil)
	fmt.Fprintf(w, "Tempo: %d bps x %d tpb (%d samples/row, %d samples/tick), volume %.2f\n",
		s.BPS(), s.TPB(), s.SamplesPerRow(), s.SamplesPerTick(), s.Volume())

	headerColor.Fprintf(w, "Instruments (%d)\n", len(p.Instruments))
	for i, inst := range p.Instruments {
		fmt.Fprintf(w, "  %02X %-10s nodes %d  sustain %s  loop %s\n",
			i, inst.Name, len(inst.EnvelopeVolume), optionalIndex(inst.Sustain), loopRange(inst))
	}

	for i, pattern := range data.Patterns {
		headerColor.Fprintf(w, "Pattern %02X (%d rows)\n", i, pattern.Rows())
		for r := 0; r < pattern.Rows(); r++ {
			rowColor.Fprintf(w, "  %03X", r)
			for _, word := range pattern.Row(r) {
				fmt.Fprint(w, " | ")
				writeCell(w, word)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func writeCell(w io.Writer, c cell.Cell) {
	switch {
	case c.IsEmpty():
		emptyColor.Fprint(w, c.String())
	case isStop(c):
		stopColor.Fprint(w, c.String())
	case c.Fields().Note.Valid:
		noteColor.Fprint(w, c.String())
	default:
		effectColor.Fprint(w, c.String())
	}
}

func isStop(c cell.Cell) bool {
	note, ok := c.Fields().Note.Get()
	return ok && note == cell.NoteStop
}

func optionalIndex(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

func loopRange(inst songfile.InstrumentData) string {
	if inst.LoopStart == nil || inst.LoopEnd == nil {
		return "-"
	}
	return fmt.Sprintf("%d..%d", *inst.LoopStart, *inst.LoopEnd)
}
