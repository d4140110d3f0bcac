// Package songfile reads song documents (JSON or YAML) and turns them into
// sequencer data.
package songfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-apu/apu/cell"
	"github.com/valerio/go-apu/apu/envelope"
	"github.com/valerio/go-apu/apu/song"
)

var (
	ErrUnknownFormat   = errors.New("unknown song format")
	ErrNoPatterns      = errors.New("song has no patterns")
	ErrTooManyPatterns = errors.New("too many patterns")
	ErrPatternShape    = errors.New("malformed pattern")
	ErrInstrumentShape = errors.New("malformed instrument")
)

// Format is a song document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Payload is a song document as stored on disk and carried by a LoadSong command.
type Payload struct {
	Name        string           `json:"name,omitempty" yaml:"name,omitempty"`
	Author      string           `json:"author,omitempty" yaml:"author,omitempty"`
	Volume      *int             `json:"volume,omitempty" yaml:"volume,omitempty"`
	BPS         int              `json:"bps,omitempty" yaml:"bps,omitempty"`
	TPB         int              `json:"tpb,omitempty" yaml:"tpb,omitempty"`
	Patterns    []PatternData    `json:"patterns" yaml:"patterns"`
	Instruments []InstrumentData `json:"instruments" yaml:"instruments"`
}

// PatternData holds packed cell words, row-major, five per row.
type PatternData struct {
	Cells []uint32 `json:"cells" yaml:"cells"`
}

// InstrumentData is a volume envelope. Sustain and loop points are optional.
type InstrumentData struct {
	Name             string    `json:"name,omitempty" yaml:"name,omitempty"`
	Sustain          *int      `json:"sustain,omitempty" yaml:"sustain,omitempty"`
	LoopStart        *int      `json:"loopStart,omitempty" yaml:"loopStart,omitempty"`
	LoopEnd          *int      `json:"loopEnd,omitempty" yaml:"loopEnd,omitempty"`
	EnvelopeVolume   []float64 `json:"envelopeVolume" yaml:"envelopeVolume"`
	EnvelopeDuration []float64 `json:"envelopeDuration" yaml:"envelopeDuration"`
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%q: %w", path, ErrUnknownFormat)
	}
}

// Load reads and validates a song file.
func Load(path string) (*Payload, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open song: %w", err)
	}
	defer f.Close()

	p, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode parses and validates a song document.
func Decode(r io.Reader, format Format) (*Payload, error) {
	p := &Payload{}
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(p); err != nil {
			return nil, fmt.Errorf("failed to decode json song: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(p); err != nil {
			return nil, fmt.Errorf("failed to decode yaml song: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the structural rules the sequencer relies on.
func (p *Payload) Validate() error {
	if len(p.Patterns) == 0 {
		return ErrNoPatterns
	}
	if len(p.Patterns) > song.PatternsMax {
		return fmt.Errorf("%d patterns, limit is %d: %w", len(p.Patterns), song.PatternsMax, ErrTooManyPatterns)
	}

	for i, pattern := range p.Patterns {
		cells := len(pattern.Cells)
		switch {
		case cells == 0:
			return fmt.Errorf("pattern %d is empty: %w", i, ErrPatternShape)
		case cells%song.Channels != 0:
			return fmt.Errorf("pattern %d has %d cells, not a multiple of %d: %w", i, cells, song.Channels, ErrPatternShape)
		case cells/song.Channels > song.PatternLengthMax:
			return fmt.Errorf("pattern %d has %d rows, limit is %d: %w", i, cells/song.Channels, song.PatternLengthMax, ErrPatternShape)
		}
	}

	if len(p.Instruments) > song.InstrumentsMax {
		return fmt.Errorf("%d instruments, limit is %d: %w", len(p.Instruments), song.InstrumentsMax, ErrInstrumentShape)
	}
	for i, inst := range p.Instruments {
		if err := inst.validate(); err != nil {
			return fmt.Errorf("instrument %d: %w", i, err)
		}
	}
	return nil
}

func (d InstrumentData) validate() error {
	nodes := len(d.EnvelopeVolume)
	if nodes != len(d.EnvelopeDuration) {
		return fmt.Errorf("%d volumes but %d durations: %w", nodes, len(d.EnvelopeDuration), ErrInstrumentShape)
	}
	for _, v := range d.EnvelopeVolume {
		if v < 0 || v > 1 {
			return fmt.Errorf("envelope volume %v outside 0..1: %w", v, ErrInstrumentShape)
		}
	}
	for _, dur := range d.EnvelopeDuration {
		if dur < 0 {
			return fmt.Errorf("negative envelope duration %v: %w", dur, ErrInstrumentShape)
		}
	}

	inRange := func(name string, node *int) error {
		if node != nil && (*node < 0 || *node >= nodes) {
			return fmt.Errorf("%s %d outside envelope of %d nodes: %w", name, *node, nodes, ErrInstrumentShape)
		}
		return nil
	}
	if err := inRange("sustain", d.Sustain); err != nil {
		return err
	}
	if err := inRange("loopStart", d.LoopStart); err != nil {
		return err
	}
	if err := inRange("loopEnd", d.LoopEnd); err != nil {
		return err
	}

	if (d.LoopStart == nil) != (d.LoopEnd == nil) {
		return fmt.Errorf("loopStart and loopEnd must be set together: %w", ErrInstrumentShape)
	}
	if d.LoopStart != nil && *d.LoopStart > *d.LoopEnd {
		return fmt.Errorf("loopStart %d after loopEnd %d: %w", *d.LoopStart, *d.LoopEnd, ErrInstrumentShape)
	}
	return nil
}

// Data converts the payload into sequencer data. It does not validate.
func (p *Payload) Data() song.Data {
	data := song.Data{
		Volume:      p.Volume,
		BPS:         p.BPS,
		TPB:         p.TPB,
		Patterns:    make([]song.Pattern, len(p.Patterns)),
		Instruments: make([]*envelope.Instrument, len(p.Instruments)),
	}

	for i, pattern := range p.Patterns {
		cells := make(song.Pattern, len(pattern.Cells))
		for j, word := range pattern.Cells {
			cells[j] = cell.Cell(word)
		}
		data.Patterns[i] = cells
	}

	for i, inst := range p.Instruments {
		data.Instruments[i] = inst.Instrument()
	}
	return data
}

// Instrument converts to an envelope instrument, with NoNode for absent points.
func (d InstrumentData) Instrument() *envelope.Instrument {
	node := func(v *int) int {
		if v == nil {
			return envelope.NoNode
		}
		return *v
	}
	return &envelope.Instrument{
		Name:      d.Name,
		Sustain:   node(d.Sustain),
		LoopStart: node(d.LoopStart),
		LoopEnd:   node(d.LoopEnd),
		Volume:    append([]float64(nil), d.EnvelopeVolume...),
		Duration:  append([]float64(nil), d.EnvelopeDuration...),
	}
}

// Rows returns the number of rows in the pattern.
func (p PatternData) Rows() int {
	return len(p.Cells) / song.Channels
}
