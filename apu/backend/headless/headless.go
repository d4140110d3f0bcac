package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-apu/apu/backend"
	"github.com/valerio/go-apu/apu/debug"
)

// Backend implements the Backend interface for offline rendering and batch runs
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	lastPattern    int
	lastRow        int
	snapshotConfig SnapshotConfig
}

// SnapshotConfig holds configuration for state dumps
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	SongName  string // Song name for snapshot filenames
}

// New creates a headless backend that quits after maxFrames frames; zero runs
// until the session ends it.
func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
		lastPattern:    -1,
		lastRow:        -1,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	slog.Info("Running headless mode",
		"song", config.SongName,
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update logs row progress and writes state dumps
func (h *Backend) Update(snapshot *debug.Snapshot) ([]backend.Action, error) {
	var actions []backend.Action

	h.frameCount++

	if snapshot.Playing && (snapshot.Pattern != h.lastPattern || snapshot.Row != h.lastRow) {
		h.lastPattern, h.lastRow = snapshot.Pattern, snapshot.Row
		slog.Debug("Row", "pattern", snapshot.Pattern, "row", snapshot.Row, "peak", snapshot.Peak)
	}

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(snapshot)
	}

	if h.config.FPS > 0 && h.frameCount%h.config.FPS == 0 {
		slog.Info("Render progress", "seconds", h.frameCount/h.config.FPS, "frames", h.frameCount)
	}

	if h.maxFrames > 0 && h.frameCount >= h.maxFrames {
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(snapshot)
		}
		slog.Info("Headless run completed", "frames", h.frameCount)
		actions = append(actions, backend.Action{Type: backend.ActionQuit})
	}

	return actions, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns how many frames have been rendered.
func (h *Backend) Frames() int {
	return h.frameCount
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, songPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "apu-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.SongName = filepath.Base(songPath)
	config.SongName = strings.TrimSuffix(config.SongName, filepath.Ext(config.SongName))

	return config, nil
}

func (h *Backend) saveSnapshot(snapshot *debug.Snapshot) {
	path := filepath.Join(h.snapshotConfig.Directory, fmt.Sprintf("%s_frame_%d.txt", h.snapshotConfig.SongName, h.frameCount))

	file, err := os.Create(path)
	if err != nil {
		slog.Error("Failed to save snapshot", "frame", h.frameCount, "error", err)
		return
	}
	defer file.Close()

	if err := snapshot.WriteText(file); err != nil {
		slog.Error("Failed to write snapshot", "frame", h.frameCount, "error", err)
	}
}
