package wave

const (
	lfsrInitialValue = 1
	// NoiseNoteMax is the slowest useful noise note; higher notes only stretch the step period.
	NoiseNoteMax = 15
)

// Noise is a 15-bit linear-feedback shift register clocked every period samples.
// The register is seeded once and never reseeded, so the sequence is deterministic
// across notes.
type Noise struct {
	register uint16
	counter  int
	period   int
}

func NewNoise() *Noise {
	return &Noise{register: lfsrInitialValue, period: 1}
}

func (n *Noise) Sample() float64 {
	n.counter = (n.counter + 1) % n.period
	if n.counter == 0 {
		n.step()
	}
	return float64(n.register&1)*2 - 1
}

func (n *Noise) step() {
	feedbackBit := (n.register ^ (n.register >> 1)) & 1
	n.register = (feedbackBit << 14) | (n.register >> 1)
}

// NoteSet sets the step period: note n clocks the register every n+1 samples.
func (n *Noise) NoteSet(note int) {
	n.setPeriod(note + 1)
}

// SetFrequency sets the clock rate of the register in Hz.
func (n *Noise) SetFrequency(frequency float64) {
	if frequency <= 0 {
		return
	}
	n.setPeriod(int(SampleRate/frequency + 0.5))
}

func (n *Noise) setPeriod(period int) {
	n.period = max(1, period)
	n.counter %= n.period
}

// Frequency returns the register clock rate in Hz.
func (n *Noise) Frequency() float64 {
	return SampleRate / float64(n.period)
}

func (n *Noise) Period() int      { return n.period }
func (n *Noise) Register() uint16 { return n.register }
