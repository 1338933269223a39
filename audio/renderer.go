// Package audio drives the block scheduler from the host's audio device.
package audio

import (
	"context"
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"
)

// bytesPerFrame is one interleaved stereo float32 frame
const bytesPerFrame = 8

// BlockProcessor renders one block: in[0] is the mono input, out[0] and
// out[1] the two outputs
type BlockProcessor interface {
	Process(in, out [][]float32, size int)
}

// Input supplies the exciter signal, one block at a time
type Input interface {
	Read(buf []float32)
}

// Silence is the input used when nothing is patched
type Silence struct{}

func (Silence) Read(buf []float32) { clear(buf) }

// Tap receives every rendered block. It runs on the audio goroutine and must
// not block.
type Tap interface {
	Write(left, right []float32)
}

// Renderer adapts block processing to a byte stream of interleaved
// float32 little-endian stereo, the format oto pulls.
type Renderer struct {
	proc      BlockProcessor
	input     Input
	tap       atomic.Pointer[Tap]
	blockSize int

	in  [][]float32
	out [][]float32

	pending []byte // the current block, interleaved
	pos     int    // bytes of pending already handed out

	blocks atomic.Uint64
}

// NewRenderer creates a renderer pulling blockSize blocks from proc.
// A nil input means silence.
func NewRenderer(proc BlockProcessor, blockSize int, input Input) *Renderer {
	if input == nil {
		input = Silence{}
	}
	r := &Renderer{
		proc:      proc,
		input:     input,
		blockSize: blockSize,
		in:        [][]float32{make([]float32, blockSize), make([]float32, blockSize)},
		out:       [][]float32{make([]float32, blockSize), make([]float32, blockSize)},
		pending:   make([]byte, blockSize*bytesPerFrame),
	}
	r.pos = len(r.pending)
	return r
}

// SetTap installs (or with nil removes) the block tap
func (r *Renderer) SetTap(t Tap) {
	if t == nil {
		r.tap.Store(nil)
		return
	}
	r.tap.Store(&t)
}

// Blocks returns how many blocks have been rendered
func (r *Renderer) Blocks() uint64 { return r.blocks.Load() }

// Read fills p with whole frames, rendering blocks as needed. It never fails.
func (r *Renderer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.pos == len(r.pending) {
			r.render()
		}
		c := copy(p[n:], r.pending[r.pos:])
		n += c
		r.pos += c
	}
	return n, nil
}

func (r *Renderer) render() {
	r.input.Read(r.in[0])
	r.proc.Process(r.in, r.out, r.blockSize)

	left, right := r.out[0], r.out[1]
	for i := 0; i < r.blockSize; i++ {
		binary.LittleEndian.PutUint32(r.pending[i*bytesPerFrame:], math.Float32bits(left[i]))
		binary.LittleEndian.PutUint32(r.pending[i*bytesPerFrame+4:], math.Float32bits(right[i]))
	}
	r.pos = 0
	r.blocks.Add(1)

	if t := r.tap.Load(); t != nil {
		(*t).Write(left, right)
	}
}

// RunClock renders in real time without an audio device, for headless runs
// with the "none" backend. It blocks until ctx is done.
func RunClock(ctx context.Context, r *Renderer, sampleRate int) {
	const blocksPerTick = 10
	buf := make([]byte, r.blockSize*bytesPerFrame*blocksPerTick)
	period := time.Duration(float64(time.Second) * float64(r.blockSize*blocksPerTick) / float64(sampleRate))

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Read(buf)
		}
	}
}
