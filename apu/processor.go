// Package apu wires five synthesis channels to the song sequencer and exposes
// them to audio hosts through an ordered command and notification stream.
package apu

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-apu/apu/channel"
	"github.com/valerio/go-apu/apu/events"
	"github.com/valerio/go-apu/apu/song"
	"github.com/valerio/go-apu/apu/wave"
)

var ErrNoPayload = errors.New("load command without a song")

// Processor owns the channels and the current song. It is not safe for
// concurrent use: commands reach it through the command bus and are applied
// on the audio path, between buffers.
type Processor struct {
	channels      []*channel.Channel
	muted         [song.Channels]bool
	song          *song.Song
	commands      *events.Bus[events.Command]
	notifications *events.Bus[events.Notification]
}

// New creates a processor with the standard channel layout and announces it
// with a Ready notification.
func New(commands *events.Bus[events.Command], notifications *events.Bus[events.Notification]) *Processor {
	p := &Processor{
		channels: []*channel.Channel{
			channel.New(wave.NewSquare()),
			channel.New(wave.NewSquare()),
			channel.New(wave.NewSaw()),
			channel.New(wave.NewTriangle()),
			channel.New(wave.NewNoise()),
		},
		commands:      commands,
		notifications: notifications,
	}
	p.notifications.Publish(events.Notification{Type: events.Ready})
	return p
}

// Sample produces one output value: the channel mix scaled by song volume.
func (p *Processor) Sample() float64 {
	if p.song == nil {
		return 0
	}
	p.song.Sample()

	mix := 0.0
	for i, ch := range p.channels {
		v := ch.Sample()
		if !p.muted[i] {
			mix += v
		}
	}
	return mix * p.song.Volume()
}

// Process applies pending commands, then fills out.
func (p *Processor) Process(out []float32) {
	p.DrainCommands()
	for i := range out {
		out[i] = float32(p.Sample())
	}
}

// DrainCommands applies every queued command in order.
func (p *Processor) DrainCommands() {
	for {
		cmd, ok := p.commands.Poll()
		if !ok {
			return
		}
		if err := p.Handle(cmd); err != nil {
			slog.Error("Command failed", "command", cmd.Type, "error", err)
		}
	}
}

// Handle applies one command immediately.
func (p *Processor) Handle(cmd events.Command) error {
	switch cmd.Type {
	case events.LoadSong:
		return p.load(cmd)
	case events.Play:
		if p.song == nil {
			slog.Warn("Play ignored, no song loaded")
			return nil
		}
		p.song.Play()
		slog.Debug("Playback started")
	case events.Stop:
		if p.song == nil {
			return nil
		}
		p.song.Pause()
		slog.Debug("Playback stopped")
	case events.ToggleChannel:
		p.ToggleChannel(cmd.Channel)
	case events.SoloChannel:
		p.SoloChannel(cmd.Channel)
	default:
		return fmt.Errorf("unknown command %v", cmd.Type)
	}
	return nil
}

func (p *Processor) load(cmd events.Command) error {
	if cmd.Payload == nil {
		return ErrNoPayload
	}
	if err := cmd.Payload.Validate(); err != nil {
		return fmt.Errorf("rejected song: %w", err)
	}

	for _, ch := range p.channels {
		ch.Reset()
	}
	p.song = song.New(p.channels, cmd.Payload.Data(), notifier{p.notifications})

	slog.Info("Song loaded",
		"name", cmd.Payload.Name,
		"patterns", len(cmd.Payload.Patterns),
		"instruments", len(cmd.Payload.Instruments),
		"bps", p.song.BPS(),
		"tpb", p.song.TPB())
	return nil
}

// ToggleChannel flips muting for one channel. Muted channels keep running.
func (p *Processor) ToggleChannel(channel int) {
	if channel >= 0 && channel < len(p.muted) {
		p.muted[channel] = !p.muted[channel]
	}
}

// SoloChannel mutes every other channel, or unmutes all if channel is already soloed.
func (p *Processor) SoloChannel(channel int) {
	if channel < 0 || channel >= len(p.muted) {
		return
	}

	soloed := !p.muted[channel]
	for i := range p.muted {
		if i != channel && !p.muted[i] {
			soloed = false
		}
	}

	for i := range p.muted {
		p.muted[i] = !soloed && i != channel
	}
}

func (p *Processor) Muted(channel int) bool {
	return channel >= 0 && channel < len(p.muted) && p.muted[channel]
}

func (p *Processor) Channels() []*channel.Channel {
	return p.channels
}

// Song returns the loaded song, or nil.
func (p *Processor) Song() *song.Song {
	return p.song
}

// notifier forwards sequencer progress onto the notification bus.
type notifier struct {
	bus *events.Bus[events.Notification]
}

func (n notifier) PatternRow(pattern, row int) {
	n.bus.Publish(events.Notification{Type: events.PatternRow, Pattern: pattern, Row: row})
}

func (n notifier) SongEnd() {
	n.bus.Publish(events.Notification{Type: events.SongEnd})
}
