//go:build headless

package audio

import "errors"

// ErrNoDevice is returned by builds without audio device support
var ErrNoDevice = errors.New("audio: built without device support (headless tag)")

type OtoPlayer struct{}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return nil, ErrNoDevice
}

func (op *OtoPlayer) SetupPlayer(r *Renderer) {}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	return len(p), nil
}

func (op *OtoPlayer) Start() {}

func (op *OtoPlayer) Close() {}
