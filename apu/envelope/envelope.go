// Package envelope shapes a note's amplitude over time from an instrument's
// piecewise-linear volume curve.
package envelope

import "math"

// NoNode marks an absent sustain or loop point.
const NoNode = -1

// Instrument is a volume envelope: Volume[i] is reached after Duration[i] samples.
// Sustain holds the envelope at a node while the note is live, and LoopStart..LoopEnd
// repeats while the note is live. Either may be NoNode.
type Instrument struct {
	Name      string
	Sustain   int
	LoopStart int
	LoopEnd   int
	Volume    []float64
	Duration  []float64
}

// Len returns the number of envelope nodes.
func (i *Instrument) Len() int {
	return min(len(i.Volume), len(i.Duration))
}

// HasLoop reports whether the instrument defines a loop region.
func (i *Instrument) HasLoop() bool {
	return i.LoopStart >= 0 && i.LoopEnd >= 0
}

// Note is one sounding note: a pitch plus its envelope walk.
type Note struct {
	instrument *Instrument
	value      int
	node       int
	duration   float64
	volume     float64
	volumeGoal float64
	live       bool
	silenced   bool
}

// MakeNote starts a note at node 0, seeded with the volume of the note it replaces.
func MakeNote(instrument *Instrument, value int, volume float64) Note {
	n := Note{
		instrument: instrument,
		value:      value,
		live:       true,
	}
	n.rewind()
	n.volume = volume
	return n
}

func (n *Note) rewind() {
	n.silenced = false
	n.node = 0
	n.duration = 0
	n.volumeGoal = n.nodeVolume(0)
	n.volume = n.volumeGoal
}

func (n *Note) nodeVolume(node int) float64 {
	if node < 0 || node >= n.instrument.Len() {
		return 0
	}
	return n.instrument.Volume[node]
}

// Sample advances the envelope by one sample and returns the current amplitude.
func (n *Note) Sample() float64 {
	inst := n.instrument
	if n.node >= inst.Len() || n.silenced {
		return 0
	}
	if n.live && n.node == inst.Sustain {
		return inst.Volume[n.node]
	}

	remaining := n.duration
	n.duration--
	if remaining <= 0 {
		n.node++
		if n.live && inst.HasLoop() && n.node > inst.LoopEnd {
			n.node = inst.LoopStart
		}
		if n.node >= inst.Len() {
			n.duration = math.Inf(1)
			return 0
		}
		n.volume = n.volumeGoal
		n.volumeGoal = inst.Volume[n.node]
		n.duration = inst.Duration[n.node]
	}

	n.volume += (n.volumeGoal - n.volume) / max(1, n.duration)
	return n.volume
}

// Cut releases the note: sustain and loop points no longer hold it.
func (n *Note) Cut() {
	n.live = false
}

// Retrigger restarts the envelope from node 0 without touching the pitch. A
// note silenced by Silence becomes audible again.
func (n *Note) Retrigger() {
	n.rewind()
}

// Silence parks the envelope on its last node at zero volume until Restart.
func (n *Note) Silence() {
	n.node = max(0, n.instrument.Len()-1)
	n.duration = math.Inf(1)
	n.volumeGoal = 0
	n.volume = 0
	n.silenced = true
}

// Restart undoes Silence and replays the envelope from node 0.
func (n *Note) Restart() {
	n.rewind()
}

// Finished reports whether the envelope has walked past its last node.
func (n *Note) Finished() bool {
	return n.node >= n.instrument.Len()
}

func (n *Note) Value() int              { return n.value }
func (n *Note) Node() int               { return n.node }
func (n *Note) Volume() float64         { return n.volume }
func (n *Note) Live() bool              { return n.live }
func (n *Note) Silenced() bool          { return n.silenced }
func (n *Note) Instrument() *Instrument { return n.instrument }
