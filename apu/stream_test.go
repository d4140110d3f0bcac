package apu

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-apu/apu/events"
)

var _ io.Reader = (*Stream)(nil)

func TestStreamEncodesFloat32LE(t *testing.T) {
	p, commands, _ := newProcessor()
	stream := NewStream(p)

	commands.Publish(events.Command{Type: events.LoadSong, Payload: toneSong()})
	commands.Publish(events.Command{Type: events.Play})

	buf := make([]byte, 4*128+3)
	n, err := stream.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4*128, n)

	for i := range 128 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		assert.InDelta(t, 0.5, math.Abs(float64(v)), 1e-6)
	}
}

func TestStreamSnapshot(t *testing.T) {
	p, commands, _ := newProcessor()
	stream := NewStream(p)

	initial := stream.Snapshot()
	require.NotNil(t, initial)
	assert.False(t, initial.Loaded)
	assert.Len(t, initial.Channels, 5)

	commands.Publish(events.Command{Type: events.LoadSong, Payload: toneSong()})
	commands.Publish(events.Command{Type: events.Play})
	_, err := io.ReadFull(stream, make([]byte, 4*2001))
	require.NoError(t, err)

	snap := stream.Snapshot()
	assert.True(t, snap.Loaded)
	assert.True(t, snap.Playing)
	assert.Equal(t, 2, snap.Row, "second row applied, cursor on the third")
	assert.Equal(t, 8, snap.BPS)
	assert.InDelta(t, 0.5, snap.Peak, 1e-6)
	assert.InDelta(t, 0.5, snap.RMS, 1e-6)
	assert.Equal(t, "square", snap.Channels[0].Waveform)
	assert.Equal(t, 24, snap.Channels[0].NoteIndex)
	assert.Equal(t, "A3", snap.Channels[0].Note)
	assert.Equal(t, "noise", snap.Channels[4].Waveform)
	assert.Len(t, snap.Waveform, 2001)
}

func TestStreamSnapshotRate(t *testing.T) {
	p, commands, _ := newProcessor()
	stream := NewStream(p)
	initial := stream.Snapshot()

	commands.Publish(events.Command{Type: events.LoadSong, Payload: toneSong()})
	commands.Publish(events.Command{Type: events.Play})

	small := make([]byte, 4*(SnapshotInterval/4))
	for range 3 {
		_, err := stream.Read(small)
		require.NoError(t, err)
		assert.Same(t, initial, stream.Snapshot(), "no capture below the interval")
	}

	_, err := stream.Read(small)
	require.NoError(t, err)
	snap := stream.Snapshot()
	assert.NotSame(t, initial, snap)
	assert.True(t, snap.Playing)
	assert.Len(t, snap.Waveform, SnapshotInterval/4)

	_, err = stream.Read(small)
	require.NoError(t, err)
	assert.Same(t, snap, stream.Snapshot())
}

func TestStreamShortRead(t *testing.T) {
	p, _, _ := newProcessor()
	n, err := NewStream(p).Read(make([]byte, 3))
	assert.NoError(t, err)
	assert.Zero(t, n)
}
