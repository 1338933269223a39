// Package monitor lets a remote listener hear the instrument: it taps the
// rendered output, cuts it into 20 ms PCM frames and serves them over WebRTC
// (Opus) and plain HTTP, next to a JSON status endpoint.
package monitor

import (
	"sync/atomic"
	"time"
)

// Channels is the number of interleaved channels in a frame
const Channels = 2

// FrameDuration is the length of one PCM frame
const FrameDuration = 20 * time.Millisecond

// ringFrames is how many frames the tap cycles through. A frame is reused
// after this many newer frames, so consumers must keep up within ~5 s.
const ringFrames = 256

// tapQueue is the depth of the completed-frame channel
const tapQueue = 16

// Tap converts output blocks into interleaved int16 frames without blocking
// or allocating on the audio goroutine. Frames are dropped when the
// consumer falls behind.
type Tap struct {
	frameSamples int // per channel
	ring         [][]int16
	slot         int
	fill         int // samples per channel written into the current frame

	frames  chan []int16
	dropped atomic.Uint64
}

// NewTap creates a tap for output rendered at sampleRate
func NewTap(sampleRate int) *Tap {
	n := sampleRate * int(FrameDuration/time.Millisecond) / 1000
	t := &Tap{
		frameSamples: n,
		ring:         make([][]int16, ringFrames),
		frames:       make(chan []int16, tapQueue),
	}
	for i := range t.ring {
		t.ring[i] = make([]int16, n*Channels)
	}
	return t
}

// Frames returns the channel of completed frames
func (t *Tap) Frames() <-chan []int16 { return t.frames }

// FrameSamples returns the samples per channel in one frame
func (t *Tap) FrameSamples() int { return t.frameSamples }

// Dropped returns how many frames were discarded because nobody was reading
func (t *Tap) Dropped() uint64 { return t.dropped.Load() }

// Write appends one stereo block
func (t *Tap) Write(left, right []float32) {
	n := min(len(left), len(right))
	for i := 0; i < n; i++ {
		frame := t.ring[t.slot]
		frame[t.fill*Channels] = toInt16(left[i])
		frame[t.fill*Channels+1] = toInt16(right[i])
		t.fill++
		if t.fill == t.frameSamples {
			select {
			case t.frames <- frame:
			default:
				t.dropped.Add(1)
			}
			t.fill = 0
			t.slot = (t.slot + 1) % len(t.ring)
		}
	}
}

func toInt16(v float32) int16 {
	if v >= 1 {
		return 32767
	}
	if v <= -1 {
		return -32768
	}
	return int16(v * 32767)
}
