package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		word   Cell
	}{
		{
			name:   "empty",
			fields: Fields{},
			word:   0,
		},
		{
			name:   "note only",
			fields: Fields{Note: Some[uint8](12)},
			word:   0x80000000 | 12<<22,
		},
		{
			name: "all fields",
			fields: Fields{
				Note:       Some[uint8](24),
				Instrument: Some[uint8](3),
				Volume:     Some[uint8](63),
				Effect:     Some(MakeEffect(EffectArpeggio, 4, 7)),
			},
			word: 0xF0000000 | 24<<22 | 3<<18 | 63<<12 | 0x047,
		},
		{
			name:   "stop note",
			fields: Fields{Note: Some[uint8](NoteStop)},
			word:   0x8FC00000,
		},
		{
			name:   "effect only",
			fields: Fields{Effect: Some(MakeEffect(EffectRowJump, 0, 0))},
			word:   0x10000300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.word, Encode(tt.fields))
			assert.Equal(t, tt.fields, Decode(tt.word))
		})
	}
}

func TestDecodeIgnoresBitsWithoutFlag(t *testing.T) {
	// note bits set, note flag clear
	f := Decode(Cell(0x3F << 22))
	assert.False(t, f.Note.Valid)
	assert.False(t, f.Instrument.Valid)
	assert.False(t, f.Volume.Valid)
	assert.False(t, f.Effect.Valid)
}

func TestZeroIsAValidPresentValue(t *testing.T) {
	word := Encode(Fields{Volume: Some[uint8](0), Instrument: Some[uint8](0)})
	assert.NotEqual(t, Empty, word)

	f := Decode(word)
	v, ok := f.Volume.Get()
	assert.True(t, ok)
	assert.Equal(t, uint8(0), v)
	assert.True(t, f.Instrument.Valid)
	assert.False(t, f.Note.Valid)
}

func TestEncodeTruncatesWideValues(t *testing.T) {
	word := Encode(Fields{Instrument: Some[uint8](0x1F), Note: Some[uint8](1)})
	f := Decode(word)
	assert.Equal(t, uint8(0xF), f.Instrument.Value)
	assert.Equal(t, uint8(1), f.Note.Value, "instrument overflow must not leak into the note field")
}

func TestRoundTripAllNotes(t *testing.T) {
	for n := range uint8(64) {
		f := Decode(Encode(Fields{Note: Some(n)}))
		assert.Equal(t, n, f.Note.Value)
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, Empty.IsEmpty())
	assert.True(t, Cell(0x00000FFF).IsEmpty())
	assert.False(t, Encode(Fields{Effect: Some[Effect](0)}).IsEmpty())
}

func TestString(t *testing.T) {
	c := Encode(Fields{
		Note:       Some[uint8](3),
		Instrument: Some[uint8](1),
		Volume:     Some[uint8](0x3F),
		Effect:     Some(MakeEffect(EffectSongBPS, 0xA, 0)),
	})
	assert.Equal(t, "C-2 01 3F 7A0", c.String())
	assert.Equal(t, "... .. .. ...", Empty.String())
	assert.Equal(t, "=== .. .. ...", Encode(Fields{Note: Some[uint8](NoteStop)}).String())
}

func TestNoteName(t *testing.T) {
	tests := []struct {
		note int
		name string
	}{
		{0, "A-1"},
		{2, "B-1"},
		{3, "C-2"},
		{12, "A-2"},
		{15, "C-3"},
		{62, "B-6"},
		{NoteStop, "==="},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.name, NoteName(tt.note), "note %d", tt.note)
	}
}

func TestEffectSplit(t *testing.T) {
	e := MakeEffect(EffectSongTPB, 0x2, 0xF)
	kind, a1, a2 := e.Split()
	assert.Equal(t, EffectSongTPB, kind)
	assert.Equal(t, uint8(0x2), a1)
	assert.Equal(t, uint8(0xF), a2)
	assert.Equal(t, uint8(0x2F), e.Operand())
	assert.Equal(t, Effect(0x82F), e)
	assert.Equal(t, "song-tpb 2 F", e.String())
	assert.Equal(t, "reserved-C", EffectKind(0xC).String())
}
