package monitor

import (
	"context"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster(NewTap(48000))

	l1 := b.Subscribe()
	l2 := b.Subscribe()
	if b.ListenerCount() != 2 {
		t.Errorf("After 2 subscribes: ListenerCount = %d, want 2", b.ListenerCount())
	}

	b.Unsubscribe(l1)
	b.Unsubscribe(l1)
	select {
	case <-l1.Done():
	default:
		t.Error("Done not closed after Unsubscribe")
	}
	if b.ListenerCount() != 1 {
		t.Errorf("After 1 unsubscribe: ListenerCount = %d, want 1", b.ListenerCount())
	}

	b.Unsubscribe(l2)
	if b.ListenerCount() != 0 {
		t.Errorf("After all unsubscribed: ListenerCount = %d, want 0", b.ListenerCount())
	}
}

func TestBroadcastTapFrames(t *testing.T) {
	tap := NewTap(48000)
	b := NewBroadcaster(tap)
	listeners := make([]*Listener, 3)
	for i := range listeners {
		listeners[i] = b.Subscribe()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	tap.Write(ramp(960, 0.5), ramp(960, -0.5))

	for i, l := range listeners {
		select {
		case got := <-l.C:
			if got[0] != 16383 || got[1] != -16383 {
				t.Errorf("Listener %d got %d/%d, want 16383/-16383", i, got[0], got[1])
			}
		case <-time.After(time.Second):
			t.Errorf("Listener %d timed out", i)
		}
	}
}

func TestBroadcastSkipsForSlowListener(t *testing.T) {
	b := NewBroadcaster(NewTap(48000))
	slow := b.Subscribe()
	fast := b.Subscribe()

	for i := 0; i < listenerFrames+10; i++ {
		b.publish([]int16{int16(i)})
		<-fast.C
	}

	if len(slow.C) != listenerFrames {
		t.Errorf("slow listener holds %d frames, want %d", len(slow.C), listenerFrames)
	}
	if got := <-slow.C; got[0] != 0 {
		t.Errorf("first kept frame = %d, want 0", got[0])
	}
	if slow.Skipped() != 10 || fast.Skipped() != 0 {
		t.Errorf("Skipped = %d/%d, want 10/0", slow.Skipped(), fast.Skipped())
	}
	if b.Skipped() != 10 {
		t.Errorf("Broadcaster.Skipped = %d, want 10", b.Skipped())
	}
}

// A full listener queue must still hold frames the tap has not reused yet
func TestListenerQueueFitsTapRing(t *testing.T) {
	tap := NewTap(48000)
	b := NewBroadcaster(tap)
	l := b.Subscribe()

	block := ramp(960, 0)
	for i := 0; i < listenerFrames; i++ {
		block[0] = float32(i%100) / 100
		tap.Write(block, block)
		b.publish(<-tap.Frames())
	}
	// The tap queue can fill up too before anything is drained
	for i := 0; i < tapQueue; i++ {
		tap.Write(ramp(960, -1), ramp(960, -1))
	}

	for i := 0; i < listenerFrames; i++ {
		f := <-l.C
		if want := toInt16(float32(i%100) / 100); f[0] != want {
			t.Fatalf("frame %d = %d, want %d (slot reused too early)", i, f[0], want)
		}
	}
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	b := NewBroadcaster(NewTap(48000))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
