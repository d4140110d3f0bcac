package apu

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/valerio/go-apu/apu/debug"
	"github.com/valerio/go-apu/apu/timing"
)

const bytesPerSample = 4

// SnapshotInterval is how many samples a Stream renders between snapshots:
// one monitor frame at the default refresh rate.
var SnapshotInterval = timing.SamplesPerFrame(timing.DefaultFPS)

// Stream adapts a Processor to io.Reader, producing mono little-endian
// float32 PCM. Audio devices call Read from their own goroutine, so the
// processor must only be reached through its command bus once a Stream is
// in use. Snapshot is safe to call from any goroutine.
type Stream struct {
	processor *Processor
	buffer    []float32
	meter     debug.Meter
	interval  int
	pending   int
	snapshot  atomic.Pointer[debug.Snapshot]
}

func NewStream(p *Processor) *Stream {
	s := &Stream{processor: p, interval: max(1, SnapshotInterval)}
	s.snapshot.Store(s.meter.Capture(p, nil))
	return s
}

// Read fills b with whole samples. A trailing partial sample is left unwritten.
// A new snapshot is taken once at least SnapshotInterval samples were rendered
// since the previous one.
func (s *Stream) Read(b []byte) (int, error) {
	n := len(b) / bytesPerSample
	if n == 0 {
		return 0, nil
	}
	if cap(s.buffer) < n {
		s.buffer = make([]float32, n)
	}
	out := s.buffer[:n]

	s.processor.Process(out)
	for i, v := range out {
		binary.LittleEndian.PutUint32(b[i*bytesPerSample:], math.Float32bits(v))
	}

	s.pending += n
	if s.pending >= s.interval {
		s.pending = 0
		s.snapshot.Store(s.meter.Capture(s.processor, out))
	}
	return n * bytesPerSample, nil
}

// Snapshot returns the processor state as of the last capture.
func (s *Stream) Snapshot() *debug.Snapshot {
	return s.snapshot.Load()
}
