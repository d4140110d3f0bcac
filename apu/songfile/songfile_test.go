package songfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-apu/apu/cell"
	"github.com/valerio/go-apu/apu/envelope"
)

func intPtr(v int) *int { return &v }

func TestLoadBlank(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "blank.json"))
	require.NoError(t, err)

	assert.Equal(t, "Blank", p.Name)
	assert.Equal(t, "asdf", p.Author)
	require.NotNil(t, p.Volume)
	assert.Equal(t, 4, *p.Volume)
	assert.Zero(t, p.BPS)
	assert.Zero(t, p.TPB)
	require.Len(t, p.Patterns, 1)
	assert.Equal(t, 1, p.Patterns[0].Rows())
	require.Len(t, p.Instruments, 1)
	assert.Equal(t, 0, *p.Instruments[0].Sustain)
	assert.Nil(t, p.Instruments[0].LoopStart)
}

func TestLoadDemoYAML(t *testing.T) {
	p, err := Load(filepath.Join("testdata", "demo.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Demo", p.Name)
	assert.Equal(t, 8, p.BPS)
	assert.Equal(t, 4, p.TPB)
	require.Len(t, p.Patterns, 2)
	assert.Equal(t, 8, p.Patterns[0].Rows())
	assert.Equal(t, 5, p.Patterns[1].Rows())
	require.Len(t, p.Instruments, 4)

	first := cell.Cell(p.Patterns[0].Cells[0]).Fields()
	assert.Equal(t, uint8(15), first.Note.Value)
	assert.Equal(t, uint8(0), first.Instrument.Value)
	assert.Equal(t, cell.MakeEffect(cell.EffectArpeggio, 4, 7), first.Effect.Value)

	pad := p.Instruments[3].Instrument()
	assert.Equal(t, "pad", pad.Name)
	assert.True(t, pad.HasLoop())
	assert.Equal(t, envelope.NoNode, pad.Sustain)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		format  Format
		wantErr bool
	}{
		{"song.json", FormatJSON, false},
		{"SONG.JSON", FormatJSON, false},
		{"song.yaml", FormatYAML, false},
		{"dir/song.yml", FormatYAML, false},
		{"song.mod", 0, true},
		{"song", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			format, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader("{"), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("patterns: [}"), FormatYAML)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("{}"), Format(9))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func validPayload() *Payload {
	return &Payload{
		Patterns: []PatternData{{Cells: make([]uint32, 10)}},
		Instruments: []InstrumentData{{
			Sustain:          intPtr(0),
			EnvelopeVolume:   []float64{0.5, 0},
			EnvelopeDuration: []float64{0, 100},
		}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Payload)
		wantErr error
	}{
		{"valid", func(p *Payload) {}, nil},
		{"no patterns", func(p *Payload) { p.Patterns = nil }, ErrNoPatterns},
		{"too many patterns", func(p *Payload) {
			p.Patterns = make([]PatternData, 17)
		}, ErrTooManyPatterns},
		{"empty pattern", func(p *Payload) { p.Patterns[0].Cells = nil }, ErrPatternShape},
		{"partial row", func(p *Payload) { p.Patterns[0].Cells = make([]uint32, 7) }, ErrPatternShape},
		{"too many rows", func(p *Payload) { p.Patterns[0].Cells = make([]uint32, 5*257) }, ErrPatternShape},
		{"longest pattern", func(p *Payload) { p.Patterns[0].Cells = make([]uint32, 5*256) }, nil},
		{"too many instruments", func(p *Payload) {
			p.Instruments = make([]InstrumentData, 17)
		}, ErrInstrumentShape},
		{"length mismatch", func(p *Payload) {
			p.Instruments[0].EnvelopeDuration = []float64{0}
		}, ErrInstrumentShape},
		{"loud node", func(p *Payload) { p.Instruments[0].EnvelopeVolume[0] = 1.5 }, ErrInstrumentShape},
		{"negative duration", func(p *Payload) { p.Instruments[0].EnvelopeDuration[1] = -1 }, ErrInstrumentShape},
		{"sustain out of range", func(p *Payload) { p.Instruments[0].Sustain = intPtr(2) }, ErrInstrumentShape},
		{"half loop", func(p *Payload) { p.Instruments[0].LoopStart = intPtr(0) }, ErrInstrumentShape},
		{"inverted loop", func(p *Payload) {
			p.Instruments[0].LoopStart = intPtr(1)
			p.Instruments[0].LoopEnd = intPtr(0)
		}, ErrInstrumentShape},
		{"loop", func(p *Payload) {
			p.Instruments[0].LoopStart = intPtr(0)
			p.Instruments[0].LoopEnd = intPtr(1)
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestData(t *testing.T) {
	word := uint32(cell.Encode(cell.Fields{Note: cell.Some[uint8](7), Instrument: cell.Some[uint8](0)}))
	p := &Payload{
		Volume: intPtr(32),
		BPS:    9,
		Patterns: []PatternData{
			{Cells: []uint32{word, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
		},
		Instruments: []InstrumentData{{
			Name:             "lead",
			LoopStart:        intPtr(0),
			LoopEnd:          intPtr(1),
			EnvelopeVolume:   []float64{0.2, 0.4},
			EnvelopeDuration: []float64{0, 10},
		}},
	}

	data := p.Data()
	assert.Equal(t, 32, *data.Volume)
	assert.Equal(t, 9, data.BPS)
	assert.Zero(t, data.TPB)
	require.Len(t, data.Patterns, 1)
	assert.Equal(t, 2, data.Patterns[0].Rows())
	assert.Equal(t, cell.Cell(word), data.Patterns[0].Row(0)[0])

	require.Len(t, data.Instruments, 1)
	inst := data.Instruments[0]
	assert.Equal(t, envelope.NoNode, inst.Sustain)
	assert.Equal(t, 0, inst.LoopStart)
	assert.Equal(t, 1, inst.LoopEnd)
	assert.Equal(t, []float64{0.2, 0.4}, inst.Volume)

	// the instrument owns its envelope
	p.Instruments[0].EnvelopeVolume[0] = 1
	assert.Equal(t, 0.2, inst.Volume[0])
}

func TestJSONAndYAMLAgree(t *testing.T) {
	jsonDoc := `{"volume": 10, "bps": 4, "patterns": [{"cells": [2147483648, 0, 0, 0, 0]}],
		"instruments": [{"envelopeVolume": [1], "envelopeDuration": [0], "sustain": 0}]}`
	yamlDoc := `
volume: 10
bps: 4
patterns:
  - cells: [2147483648, 0, 0, 0, 0]
instruments:
  - envelopeVolume: [1]
    envelopeDuration: [0]
    sustain: 0
`
	fromJSON, err := Decode(strings.NewReader(jsonDoc), FormatJSON)
	require.NoError(t, err)
	fromYAML, err := Decode(strings.NewReader(yamlDoc), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, "yaml", FormatYAML.String())
}
