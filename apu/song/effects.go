package song

import (
	"github.com/valerio/go-apu/apu/cell"
	"github.com/valerio/go-apu/apu/channel"
)

// dispatch applies an effect code found on channel index. Per-tick kinds are
// installed on the channel after tearing down whatever was there; the rest act
// immediately. It reports whether the cursor jumped.
func (s *Song) dispatch(index int, code cell.Effect) bool {
	ch := s.channels[index]
	if ch.Effect().Kind != channel.EffectNone {
		ch.TickAdvance(channel.TickTeardown)
	}

	kind, arg1, arg2 := code.Split()
	switch kind {
	case cell.EffectArpeggio:
		ch.EffectSet(channel.EffectArpeggio, arg1, arg2)
	case cell.EffectRetrigger:
		ch.EffectSet(channel.EffectRetrigger, arg1, arg2)
	case cell.EffectDelay:
		ch.EffectSet(channel.EffectDelay, arg1, arg2)
	case cell.EffectLoop:
		return s.loop(ch, int(arg2))
	case cell.EffectPatternJump:
		s.pattern = int(code.Operand())
		s.row = 0
		return true
	case cell.EffectRowJump:
		s.row = int(code.Operand())
		return true
	case cell.EffectSongVolume:
		s.SetVolume(int(code.Operand()))
	case cell.EffectSongBPS:
		s.SetBPS(int(code.Operand()))
	case cell.EffectSongTPB:
		s.SetTPB(int(arg2))
	}
	return false
}

// loop with a zero count marks the current row as the loop start. With a
// non-zero count it jumps back to the mark until it has repeated count times,
// then forgets the mark.
func (s *Song) loop(ch *channel.Channel, count int) bool {
	mark, ok := ch.Bookmark()
	if count == 0 {
		if !ok {
			mark = channel.Bookmark{}
		}
		mark.Row = s.row
		ch.SetBookmark(mark)
		return false
	}

	if mark.Count < count {
		mark.Count++
		ch.SetBookmark(mark)
		s.row = mark.Row
		return true
	}

	ch.ClearBookmark()
	return false
}
