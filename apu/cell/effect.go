package cell

import (
	"fmt"

	"github.com/valerio/go-apu/apu/bit"
)

// Effect is the 12-bit effect field: kind in the high nibble, two argument nibbles below.
type Effect uint16

// EffectKind selects what an effect does.
type EffectKind uint8

const (
	EffectArpeggio    EffectKind = 0x0
	EffectLoop        EffectKind = 0x1
	EffectPatternJump EffectKind = 0x2
	EffectRowJump     EffectKind = 0x3
	EffectRetrigger   EffectKind = 0x4
	EffectDelay       EffectKind = 0x5
	EffectSongVolume  EffectKind = 0x6
	EffectSongBPS     EffectKind = 0x7
	EffectSongTPB     EffectKind = 0x8
)

var effectKindNames = map[EffectKind]string{
	EffectArpeggio:    "arpeggio",
	EffectLoop:        "loop",
	EffectPatternJump: "pattern-jump",
	EffectRowJump:     "row-jump",
	EffectRetrigger:   "retrigger",
	EffectDelay:       "delay",
	EffectSongVolume:  "song-volume",
	EffectSongBPS:     "song-bps",
	EffectSongTPB:     "song-tpb",
}

func (k EffectKind) String() string {
	if name, ok := effectKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("reserved-%X", uint8(k))
}

// MakeEffect builds an effect code from its three nibbles.
func MakeEffect(kind EffectKind, arg1, arg2 uint8) Effect {
	return Effect(uint16(kind&0xF)<<8 | uint16(bit.Byte(arg1, arg2)))
}

// Split returns kind, arg1 and arg2.
func (e Effect) Split() (EffectKind, uint8, uint8) {
	kind, arg1, arg2 := bit.Nibbles(uint16(e))
	return EffectKind(kind), arg1, arg2
}

// Kind returns the high nibble.
func (e Effect) Kind() EffectKind {
	kind, _, _ := e.Split()
	return kind
}

// Operand returns both argument nibbles combined, arg1 being the most significant.
func (e Effect) Operand() uint8 {
	_, arg1, arg2 := e.Split()
	return bit.Byte(arg1, arg2)
}

func (e Effect) String() string {
	kind, arg1, arg2 := e.Split()
	return fmt.Sprintf("%s %X %X", kind, arg1, arg2)
}
