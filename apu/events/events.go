package events

import (
	"fmt"

	"github.com/valerio/go-apu/apu/songfile"
)

// CommandType is an inbound request to the processor.
type CommandType int

const (
	LoadSong CommandType = iota
	Play
	Stop
	ToggleChannel
	SoloChannel
)

func (c CommandType) String() string {
	switch c {
	case LoadSong:
		return "load-song"
	case Play:
		return "play"
	case Stop:
		return "stop"
	case ToggleChannel:
		return "toggle-channel"
	case SoloChannel:
		return "solo-channel"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Command is one inbound message. Payload is only set for LoadSong, Channel
// only for the channel commands.
type Command struct {
	Type    CommandType
	Payload *songfile.Payload
	Channel int
}

// NotificationType is an outbound progress report from the processor.
type NotificationType int

const (
	Ready NotificationType = iota
	PatternRow
	SongEnd
)

func (n NotificationType) String() string {
	switch n {
	case Ready:
		return "ready"
	case PatternRow:
		return "pattern-row"
	case SongEnd:
		return "song-end"
	default:
		return fmt.Sprintf("notification(%d)", int(n))
	}
}

// Notification is one outbound message. Pattern and Row are only meaningful
// for PatternRow.
type Notification struct {
	Type    NotificationType
	Pattern int
	Row     int
}
