package backend

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-apu/apu/debug"
	"github.com/valerio/go-apu/apu/events"
	"github.com/valerio/go-apu/apu/timing"
)

// SnapshotSource provides the latest processor state.
type SnapshotSource interface {
	Snapshot() *debug.Snapshot
}

// Session runs a backend against a processor: one Update per frame, actions
// translated to commands, notifications consumed between frames.
type Session struct {
	Backend       Backend
	Source        SnapshotSource
	Commands      *events.Bus[events.Command]
	Notifications *events.Bus[events.Notification]
	Limiter       timing.Limiter

	// Pump renders audio for one frame when nothing else pulls the processor
	// (offline rendering). Leave nil when an audio device drives the stream.
	Pump func() error

	// Loop restarts the song when it ends; otherwise EndOnSongEnd stops the session.
	Loop         bool
	EndOnSongEnd bool
}

// Stats summarises a finished session.
type Stats struct {
	Frames    int
	Rows      int
	SongEnds  int
	PeakLevel float64
}

// Run drives the session until the backend quits, or the song ends when
// EndOnSongEnd is set.
func (s *Session) Run() (Stats, error) {
	var stats Stats
	limiter := s.Limiter
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	for {
		limiter.WaitForNextFrame()
		stats.Frames++

		if s.Pump != nil {
			if err := s.Pump(); err != nil {
				return stats, fmt.Errorf("failed to render audio: %w", err)
			}
		}

		ended := s.consumeNotifications(&stats)

		snap := s.Source.Snapshot()
		stats.PeakLevel = max(stats.PeakLevel, snap.Peak)

		actions, err := s.Backend.Update(snap)
		if err != nil {
			return stats, err
		}
		for _, act := range actions {
			if s.apply(act, snap) {
				return stats, nil
			}
		}

		if ended {
			switch {
			case s.Loop:
				slog.Info("Song ended, looping")
				s.Commands.Publish(events.Command{Type: events.Play})
			case s.EndOnSongEnd:
				slog.Info("Song ended")
				return stats, nil
			}
		}
	}
}

func (s *Session) consumeNotifications(stats *Stats) bool {
	ended := false
	for {
		n, ok := s.Notifications.Poll()
		if !ok {
			return ended
		}
		switch n.Type {
		case events.Ready:
			slog.Debug("Processor ready")
		case events.PatternRow:
			stats.Rows++
		case events.SongEnd:
			stats.SongEnds++
			ended = true
		}
	}
}

// apply turns an action into commands and reports whether to quit.
func (s *Session) apply(act Action, snap *debug.Snapshot) bool {
	switch act.Type {
	case ActionQuit:
		return true
	case ActionPlayToggle:
		if snap.Playing {
			s.Commands.Publish(events.Command{Type: events.Stop})
		} else {
			s.Commands.Publish(events.Command{Type: events.Play})
		}
	case ActionChannelToggle:
		s.Commands.Publish(events.Command{Type: events.ToggleChannel, Channel: act.Channel})
	case ActionChannelSolo:
		s.Commands.Publish(events.Command{Type: events.SoloChannel, Channel: act.Channel})
	}
	return false
}
