package monitor

import "testing"

func ramp(n int, v float32) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestTapFrameSize(t *testing.T) {
	tap := NewTap(48000)
	if tap.FrameSamples() != 960 {
		t.Errorf("FrameSamples = %d, want 960", tap.FrameSamples())
	}
}

func TestTapEmitsWholeFrames(t *testing.T) {
	tap := NewTap(48000)

	// 20 blocks of 48 = exactly one frame
	for i := 0; i < 19; i++ {
		tap.Write(ramp(48, 0.5), ramp(48, -0.5))
	}
	select {
	case <-tap.Frames():
		t.Fatal("frame emitted before it was full")
	default:
	}

	tap.Write(ramp(48, 0.5), ramp(48, -0.5))
	select {
	case f := <-tap.Frames():
		if len(f) != 960*Channels {
			t.Fatalf("frame length = %d, want %d", len(f), 960*Channels)
		}
		if f[0] != 16383 || f[1] != -16383 {
			t.Errorf("first frame = %d/%d, want 16383/-16383", f[0], f[1])
		}
	default:
		t.Fatal("no frame after 20 blocks")
	}
}

func TestTapClamps(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{2, 32767},
		{-1, -32768},
		{-3, -32768},
	}
	for _, tt := range tests {
		if got := toInt16(tt.in); got != tt.want {
			t.Errorf("toInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTapDropsWhenNobodyReads(t *testing.T) {
	tap := NewTap(48000)
	block := ramp(960, 0.1)
	for i := 0; i < 20; i++ {
		tap.Write(block, block)
	}
	if tap.Dropped() != 4 {
		t.Errorf("Dropped = %d, want 4 (channel holds 16)", tap.Dropped())
	}
}

func TestTapUsesDistinctSlots(t *testing.T) {
	tap := NewTap(48000)
	tap.Write(ramp(960, 0.1), ramp(960, 0.1))
	tap.Write(ramp(960, 0.2), ramp(960, 0.2))
	a := <-tap.Frames()
	b := <-tap.Frames()
	if a[0] == b[0] {
		t.Error("second frame overwrote the first")
	}
}
