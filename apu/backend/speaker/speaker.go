// Package speaker plays a PCM stream on the default audio device.
package speaker

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/valerio/go-apu/apu/wave"
)

const bytesPerSample = 4

// Config describes the device stream. The source must produce mono
// little-endian float32 samples at SampleRate.
type Config struct {
	SampleRate     int
	BufferDuration time.Duration
}

// DefaultBufferDuration is used when Config leaves BufferDuration unset.
const DefaultBufferDuration = 50 * time.Millisecond

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = wave.SampleRate
	}
	if c.BufferDuration <= 0 {
		c.BufferDuration = DefaultBufferDuration
	}
	return c
}

// BufferBytes returns the device buffer size in bytes for d of mono float32 audio.
func BufferBytes(sampleRate int, d time.Duration) int {
	samples := int(time.Duration(sampleRate) * d / time.Second)
	return max(1, samples) * bytesPerSample
}

// Player pulls from a reader on the audio device's goroutine.
type Player struct {
	ctx     *oto.Context
	player  *oto.Player
	config  Config
	started bool
	mutex   sync.Mutex
}

// New opens the audio device. Only one Player may exist per process.
func New(config Config, source io.Reader) (*Player, error) {
	config = config.withDefaults()

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   config.BufferDuration,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(source)
	player.SetBufferSize(BufferBytes(config.SampleRate, config.BufferDuration))

	slog.Info("Audio device opened", "sample_rate", config.SampleRate, "buffer", config.BufferDuration)
	return &Player{ctx: ctx, player: player, config: config}, nil
}

func (p *Player) Start() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if !p.started && p.player != nil {
		p.player.Play()
		p.started = true
	}
}

func (p *Player) Stop() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.started && p.player != nil {
		p.player.Pause()
		p.started = false
	}
}

// Close stops playback and releases the device player.
func (p *Player) Close() error {
	p.Stop()

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}

// Err reports an error raised on the device goroutine, if any.
func (p *Player) Err() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.player == nil {
		return nil
	}
	return p.player.Err()
}
