package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusOrder(t *testing.T) {
	bus := NewBus[Notification]("test", 8)

	for row := range 5 {
		require.True(t, bus.Publish(Notification{Type: PatternRow, Row: row}))
	}
	assert.Equal(t, 5, bus.Pending())

	for row := range 5 {
		n, ok := bus.Poll()
		require.True(t, ok)
		assert.Equal(t, row, n.Row)
	}

	_, ok := bus.Poll()
	assert.False(t, ok)
}

func TestBusDropsOldestWhenFull(t *testing.T) {
	bus := NewBus[int]("test", 3)
	for i := range 5 {
		assert.True(t, bus.Publish(i))
	}

	assert.Equal(t, uint64(2), bus.Dropped())
	var got []int
	for {
		v, ok := bus.Poll()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{2, 3, 4}, got)
}

func TestBusStopDrains(t *testing.T) {
	bus := NewBus[Command]("test", 4)
	bus.Publish(Command{Type: Play})
	bus.Publish(Command{Type: Stop})

	bus.Stop()
	assert.Equal(t, 0, bus.Pending())
	assert.False(t, bus.Publish(Command{Type: Play}))

	bus.Start()
	assert.True(t, bus.Publish(Command{Type: Play}))
	cmd, ok := bus.Poll()
	require.True(t, ok)
	assert.Equal(t, Play, cmd.Type)
}

func TestBusRejectsNewestWhenFull(t *testing.T) {
	bus := NewBusWithOverflow[Command]("commands", 2, RejectNewest)
	require.True(t, bus.Publish(Command{Type: LoadSong}))
	require.True(t, bus.Publish(Command{Type: Play}))

	assert.False(t, bus.Publish(Command{Type: Stop}))
	assert.Equal(t, uint64(1), bus.Dropped())

	var got []CommandType
	for {
		cmd, ok := bus.Poll()
		if !ok {
			break
		}
		got = append(got, cmd.Type)
	}
	assert.Equal(t, []CommandType{LoadSong, Play}, got, "accepted commands are never lost")

	assert.True(t, bus.Publish(Command{Type: Stop}))
}

func TestBusConcurrentPublish(t *testing.T) {
	bus := NewBus[int]("test", 1024)

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				bus.Publish(w*100 + i)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, bus.Pending())
	assert.Zero(t, bus.Dropped())
}

func TestTypeNames(t *testing.T) {
	assert.Equal(t, "load-song", LoadSong.String())
	assert.Equal(t, "stop", Stop.String())
	assert.Equal(t, "song-end", SongEnd.String())
	assert.Equal(t, "notification(9)", NotificationType(9).String())
}
