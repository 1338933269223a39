package monitor

import (
	"context"
	"sync"
	"sync/atomic"
)

// listenerFrames is how many frames one stream may queue (~3 s). Frames are
// borrowed from the tap's ring, so a frame queued here must be consumed
// before the tap cycles back to its slot.
const listenerFrames = 150

// Compile-time check: tap queue + listener queue + the frame being filled
// must fit in the ring.
const _ = uint(ringFrames - tapQueue - listenerFrames - 1)

// Broadcaster hands every frame the tap completes to each connected stream.
// A stream that falls behind skips frames; the broadcast never waits.
type Broadcaster struct {
	tap *Tap

	mu        sync.RWMutex
	listeners map[*Listener]struct{}

	skipped atomic.Uint64 // frames skipped across all streams
}

// Listener is one stream's view of the broadcast
type Listener struct {
	C <-chan []int16 // 20 ms frames, valid until the tap reuses the slot

	c       chan []int16
	done    chan struct{}
	once    sync.Once
	skipped atomic.Uint64
}

// Done is closed when the listener is unsubscribed
func (l *Listener) Done() <-chan struct{} { return l.done }

// Skipped returns the frames this listener missed by falling behind
func (l *Listener) Skipped() uint64 { return l.skipped.Load() }

// NewBroadcaster creates a broadcaster over tap's frames
func NewBroadcaster(tap *Tap) *Broadcaster {
	return &Broadcaster{
		tap:       tap,
		listeners: make(map[*Listener]struct{}),
	}
}

// Subscribe adds a stream
func (b *Broadcaster) Subscribe() *Listener {
	c := make(chan []int16, listenerFrames)
	l := &Listener{C: c, c: c, done: make(chan struct{})}
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
	return l
}

// Unsubscribe removes a stream. Calling it twice is safe.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	b.mu.Lock()
	delete(b.listeners, l)
	b.mu.Unlock()
	l.once.Do(func() { close(l.done) })
}

// ListenerCount returns the number of connected streams
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// Skipped returns the frames skipped by slow streams since start
func (b *Broadcaster) Skipped() uint64 { return b.skipped.Load() }

// Run forwards the tap's frames until ctx is done
func (b *Broadcaster) Run(ctx context.Context) {
	frames := b.tap.Frames()
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-frames:
			b.publish(frame)
		}
	}
}

func (b *Broadcaster) publish(frame []int16) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for l := range b.listeners {
		select {
		case l.c <- frame:
		default:
			l.skipped.Add(1)
			b.skipped.Add(1)
		}
	}
}
