package apu

// Provider fills output buffers with mono samples at wave.SampleRate.
type Provider interface {
	Process(out []float32)

	// Monitoring controls

	ToggleChannel(channel int)
	SoloChannel(channel int)
	Muted(channel int) bool
}

var _ Provider = (*Processor)(nil)
