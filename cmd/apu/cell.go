package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-apu/apu/cell"
)

func cellFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "note",
			Usage: "Note index 0-62, 63 releases the note",
			Value: -1,
		},
		cli.IntFlag{
			Name:  "instrument",
			Usage: "Instrument index 0-15",
			Value: -1,
		},
		cli.IntFlag{
			Name:  "volume",
			Usage: "Channel volume 0-63",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "effect",
			Usage: "Effect code as three hex digits: kind, arg1, arg2 (e.g. 047)",
		},
	}
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, bits)
}

func runCellDecode(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowCommandHelp(c, c.Command.Name)
		return errors.New("no cell word provided")
	}
	for _, arg := range c.Args() {
		word, err := parseHex(arg, 32)
		if err != nil {
			return fmt.Errorf("invalid cell word %q: %w", arg, err)
		}
		writeDecoded(c.App.Writer, cell.Cell(word))
	}
	return nil
}

func writeDecoded(w io.Writer, c cell.Cell) {
	fmt.Fprintf(w, "%08X  ", uint32(c))
	writeCell(w, c)
	fmt.Fprintln(w)

	f := c.Fields()
	if v, ok := f.Note.Get(); ok {
		labelColor.Fprint(w, "  note       ")
		fmt.Fprintf(w, "%d (%s)\n", v, cell.NoteName(int(v)))
	}
	if v, ok := f.Instrument.Get(); ok {
		labelColor.Fprint(w, "  instrument ")
		fmt.Fprintf(w, "%d\n", v)
	}
	if v, ok := f.Volume.Get(); ok {
		labelColor.Fprint(w, "  volume     ")
		fmt.Fprintf(w, "%d (%.2f)\n", v, float64(v)/cell.VolumeMax)
	}
	if v, ok := f.Effect.Get(); ok {
		labelColor.Fprint(w, "  effect     ")
		fmt.Fprintf(w, "%s\n", v)
	}
}

func runCellEncode(c *cli.Context) error {
	var f cell.Fields

	fields := []struct {
		name   string
		max    int
		target *cell.Optional[uint8]
	}{
		{"note", cell.NoteStop, &f.Note},
		{"instrument", cell.InstrumentMax, &f.Instrument},
		{"volume", cell.VolumeMax, &f.Volume},
	}
	for _, field := range fields {
		v := c.Int(field.name)
		if v < 0 {
			continue
		}
		if v > field.max {
			return fmt.Errorf("%s %d out of range 0-%d", field.name, v, field.max)
		}
		*field.target = cell.Some(uint8(v))
	}

	if s := c.String("effect"); s != "" {
		code, err := parseHex(s, 12)
		if err != nil {
			return fmt.Errorf("invalid effect %q: %w", s, err)
		}
		f.Effect = cell.Some(cell.Effect(code))
	}

	word := cell.Encode(f)
	fmt.Fprintf(c.App.Writer, "0x%08X\n", uint32(word))
	return nil
}
