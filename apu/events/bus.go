package events

import (
	"log/slog"
	"sync/atomic"
)

// Overflow decides what Publish does when the buffer is full.
type Overflow int

const (
	// DropOldest discards the oldest pending message to make room. Used for
	// notifications.
	DropOldest Overflow = iota
	// RejectNewest refuses the new message and keeps the queue intact: every
	// accepted message is delivered, in order. Used for commands.
	RejectNewest
)

// Bus is a one-way, ordered, buffered message stream between the host and
// the audio path. Publishing never blocks.
type Bus[T any] struct {
	name     string
	messages chan T
	overflow Overflow
	running  atomic.Bool
	dropped  atomic.Uint64
}

// NewBus creates a started bus holding up to bufferSize pending messages that
// drops the oldest message when full.
func NewBus[T any](name string, bufferSize int) *Bus[T] {
	return NewBusWithOverflow[T](name, bufferSize, DropOldest)
}

// NewBusWithOverflow creates a started bus with the given overflow policy.
func NewBusWithOverflow[T any](name string, bufferSize int, overflow Overflow) *Bus[T] {
	b := &Bus[T]{
		name:     name,
		messages: make(chan T, max(1, bufferSize)),
		overflow: overflow,
	}
	b.running.Store(true)
	return b
}

// Publish enqueues msg. It reports false if the bus is stopped, or if it is
// full and rejects new messages.
func (b *Bus[T]) Publish(msg T) bool {
	if !b.running.Load() {
		return false
	}

	for {
		select {
		case b.messages <- msg:
			return true
		default:
		}

		if b.overflow == RejectNewest {
			b.dropped.Add(1)
			slog.Warn("Message bus full, message rejected", "bus", b.name)
			return false
		}

		// full: drop the oldest and retry
		select {
		case <-b.messages:
			if b.dropped.Add(1) == 1 {
				slog.Warn("Message bus overflow, dropping oldest messages", "bus", b.name)
			}
		default:
		}
	}
}

// Poll returns the next pending message without blocking.
func (b *Bus[T]) Poll() (T, bool) {
	select {
	case msg := <-b.messages:
		return msg, true
	default:
		var zero T
		return zero, false
	}
}

// Start resumes accepting messages after Stop.
func (b *Bus[T]) Start() {
	b.running.Store(true)
}

// Stop rejects further messages and drains the queue.
func (b *Bus[T]) Stop() {
	b.running.Store(false)

	for {
		select {
		case <-b.messages:
		default:
			return
		}
	}
}

// Pending returns the number of queued messages.
func (b *Bus[T]) Pending() int {
	return len(b.messages)
}

// Dropped returns how many messages were discarded or rejected on overflow.
func (b *Bus[T]) Dropped() uint64 {
	return b.dropped.Load()
}
