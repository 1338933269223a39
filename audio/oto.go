//go:build !headless

package audio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays a stereo float32 stream through the default output device
type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	source  atomic.Pointer[Renderer] // Atomic for lock-free Read()
	started bool
	mutex   sync.Mutex // Only for setup/control operations
}

// NewOtoPlayer opens the default audio device
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &OtoPlayer{ctx: ctx}, nil
}

func (op *OtoPlayer) SetupPlayer(r *Renderer) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.source.Store(r)
	op.player = op.ctx.NewPlayer(op)
}

var _ io.Reader = (*OtoPlayer)(nil)

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load renderer pointer atomically - no lock needed for the hot path
	r := op.source.Load()
	if r == nil {
		clear(p)
		return len(p), nil
	}
	return r.Read(p)
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Close() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
	op.started = false
}
