package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"

	"github.com/valerio/go-apu/apu"
	"github.com/valerio/go-apu/apu/backend"
	"github.com/valerio/go-apu/apu/backend/headless"
	"github.com/valerio/go-apu/apu/backend/speaker"
	"github.com/valerio/go-apu/apu/backend/terminal"
	"github.com/valerio/go-apu/apu/events"
	"github.com/valerio/go-apu/apu/songfile"
	"github.com/valerio/go-apu/apu/timing"
	"github.com/valerio/go-apu/apu/wave"
)

func playFlags() []cli.Flag {
	return append(tempoFlags(),
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Render offline without an audio device or monitor",
		},
		cli.IntFlag{
			Name:  "seconds",
			Usage: "Seconds of audio to render in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save state snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save state snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "no-monitor",
			Usage: "Play through the speaker without the terminal monitor",
		},
		cli.BoolFlag{
			Name:  "loop",
			Usage: "Restart the song when it ends",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show debug log messages in the monitor",
		},
		cli.IntFlag{
			Name:  "fps",
			Usage: "Monitor refresh rate",
			Value: timing.DefaultFPS,
		},
	)
}

func songArg(c *cli.Context) (string, error) {
	path := c.Args().First()
	if path == "" {
		cli.ShowCommandHelp(c, c.Command.Name)
		return "", errors.New("no song path provided")
	}
	return path, nil
}

func loadSong(c *cli.Context) (string, *songfile.Payload, error) {
	path, err := songArg(c)
	if err != nil {
		return "", nil, err
	}
	payload, err := songfile.Load(path)
	if err != nil {
		return "", nil, err
	}
	if bps := c.Int("bps"); bps > 0 {
		payload.BPS = bps
	}
	if tpb := c.Int("tpb"); tpb > 0 {
		payload.TPB = tpb
	}
	return path, payload, nil
}

func runPlay(c *cli.Context) error {
	if c.Bool("headless") {
		// Set up debug logging for headless mode
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
	}

	path, payload, err := loadSong(c)
	if err != nil {
		return err
	}

	fps := max(1, c.Int("fps"))
	commands := events.NewBusWithOverflow[events.Command]("commands", 64, events.RejectNewest)
	notifications := events.NewBus[events.Notification]("notifications", 1024)
	processor := apu.New(commands, notifications)
	stream := apu.NewStream(processor)

	if !commands.Publish(events.Command{Type: events.LoadSong, Payload: payload}) ||
		!commands.Publish(events.Command{Type: events.Play}) {
		return errors.New("failed to queue song for playback")
	}

	session := &backend.Session{
		Source:        stream,
		Commands:      commands,
		Notifications: notifications,
		Loop:          c.Bool("loop"),
		EndOnSongEnd:  true,
	}

	songName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if payload.Name != "" {
		songName = payload.Name
	}
	config := backend.BackendConfig{
		Title:     "apu",
		SongName:  songName,
		FPS:       fps,
		ShowDebug: c.Bool("debug"),
	}

	if c.Bool("headless") {
		seconds := c.Int("seconds")
		if seconds <= 0 {
			return errors.New("headless mode requires --seconds option with a positive value")
		}
		snapshotConfig, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), path)
		if err != nil {
			return err
		}

		frame := make([]byte, timing.SamplesPerFrame(fps)*4)
		session.Backend = headless.New(seconds*fps, snapshotConfig)
		session.Limiter = timing.NewNoOpLimiter()
		session.Pump = func() error {
			_, err := io.ReadFull(stream, frame)
			return err
		}
		return runSession(session, config)
	}

	player, err := speaker.New(speaker.Config{SampleRate: wave.SampleRate}, stream)
	if err != nil {
		return err
	}
	defer player.Close()

	limiter := timing.NewTickerLimiter(fps)
	defer limiter.Stop()
	session.Limiter = limiter

	if c.Bool("no-monitor") {
		session.Backend = headless.New(0, headless.SnapshotConfig{})
	} else {
		session.Backend = terminal.New()
	}

	player.Start()
	if err := runSession(session, config); err != nil {
		return err
	}
	return player.Err()
}

func runSession(session *backend.Session, config backend.BackendConfig) error {
	// the terminal monitor takes over the default logger until cleanup
	previous := slog.Default()
	defer slog.SetDefault(previous)

	if err := session.Backend.Init(config); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	stats, err := session.Run()
	cleanupErr := session.Backend.Cleanup()
	slog.SetDefault(previous)
	if cleanupErr != nil {
		slog.Warn("Backend cleanup failed", "error", cleanupErr)
	}
	if err != nil {
		return err
	}

	slog.Info("Playback finished",
		"frames", stats.Frames,
		"rows", stats.Rows,
		"song_ends", stats.SongEnds,
		"peak", fmt.Sprintf("%.3f", stats.PeakLevel))
	return nil
}
