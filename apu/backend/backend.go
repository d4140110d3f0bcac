package backend

import (
	"github.com/valerio/go-apu/apu/debug"
)

// Backend presents playback to the user and collects their requests.
// Backends are responsible for:
// - Rendering processor snapshots to their output (terminal, log, files)
// - Translating platform input to Actions
type Backend interface {
	// Init configures the backend. This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the snapshot and returns the actions requested since
	// the previous call.
	Update(snapshot *debug.Snapshot) ([]Action, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	SongName  string
	FPS       int
	ShowDebug bool
	Callbacks BackendCallbacks
}

// BackendCallbacks allows backends to communicate with the host
type BackendCallbacks struct {
	OnQuit         func()
	OnDebugMessage func(message string)
}

// ActionType is a user request produced by a backend.
type ActionType int

const (
	ActionQuit ActionType = iota
	ActionPlayToggle
	ActionChannelToggle
	ActionChannelSolo
)

func (a ActionType) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionPlayToggle:
		return "play-toggle"
	case ActionChannelToggle:
		return "channel-toggle"
	case ActionChannelSolo:
		return "channel-solo"
	default:
		return "unknown"
	}
}

// Action is a request from the user. Channel is used by the channel actions.
type Action struct {
	Type    ActionType
	Channel int
}
