package channel

import "fmt"

// EffectKind is the per-tick behaviour installed on a channel.
type EffectKind uint8

const (
	EffectNone EffectKind = iota
	EffectArpeggio
	EffectRetrigger
	EffectDelay
)

func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectArpeggio:
		return "arpeggio"
	case EffectRetrigger:
		return "retrigger"
	case EffectDelay:
		return "delay"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Effect is an installed per-tick effect and its two nibble arguments.
type Effect struct {
	Kind EffectKind
	Arg1 uint8
	Arg2 uint8
}

// TickTeardown is passed to TickAdvance when an effect is about to be replaced,
// so it can undo whatever it changed.
const TickTeardown = -1

// EffectSet installs a per-tick effect, replacing the current one.
func (c *Channel) EffectSet(kind EffectKind, arg1, arg2 uint8) {
	c.effect = Effect{Kind: kind, Arg1: arg1, Arg2: arg2}
}

// Effect returns the installed effect.
func (c *Channel) Effect() Effect {
	return c.effect
}

// TickAdvance runs the installed effect for tick (0-based within the row), or
// tears it down when tick is TickTeardown.
func (c *Channel) TickAdvance(tick int) {
	switch c.effect.Kind {
	case EffectArpeggio:
		c.arpeggio(tick)
	case EffectRetrigger:
		c.retrigger(tick)
	case EffectDelay:
		c.delay(tick)
	}
}

// arpeggio cycles base, base+arg1, base+arg2 on successive ticks.
func (c *Channel) arpeggio(tick int) {
	note := c.Note()
	if note == nil {
		return
	}
	base := note.Value()
	if tick == TickTeardown {
		c.oscillator.NoteSet(base)
		return
	}
	switch tick % 3 {
	case 0:
		c.oscillator.NoteSet(base)
	case 1:
		c.oscillator.NoteSet(base + int(c.effect.Arg1))
	case 2:
		c.oscillator.NoteSet(base + int(c.effect.Arg2))
	}
}

// retrigger restarts the envelope every arg2 ticks; an interval of 0 retriggers
// on every tick.
func (c *Channel) retrigger(tick int) {
	note := c.Note()
	if tick == TickTeardown || note == nil {
		return
	}
	interval := int(c.effect.Arg2)
	if interval == 0 || tick%interval == 0 {
		note.Retrigger()
	}
}

// delay holds the note silent from tick 0 until tick arg2. With arg2 = 0 the
// note stays silent for the rest of the row.
func (c *Channel) delay(tick int) {
	note := c.Note()
	if note == nil {
		return
	}
	switch tick {
	case 0:
		note.Silence()
	case int(c.effect.Arg2):
		note.Restart()
	}
}
