package dsp

import "testing"

func TestDroneStaysBounded(t *testing.T) {
	d := NewDroneModulator(7)
	for i := 0; i < 200_000; i++ {
		mod := d.Next()
		if c := d.Current(); c < -1 || c > 1 {
			t.Fatalf("block %d: current %v out of [-1,1]", i, c)
		}
		if mod < 0.5 || mod > 1.5 {
			t.Fatalf("block %d: modValue %v out of [0.5,1.5]", i, mod)
		}
	}
}

func TestDroneRetargetsOnlyWhenClose(t *testing.T) {
	d := NewDroneModulator(42)
	retargets := 0

	for i := 0; i < 100_000; i++ {
		prevCurrent, prevTarget := d.Current(), d.Target()
		d.Next()

		if d.Target() != prevTarget {
			retargets++
			diff := prevCurrent - prevTarget
			if diff < 0 {
				diff = -diff
			}
			if diff >= DroneEpsilon {
				t.Fatalf("block %d: retargeted with |current-target| = %v", i, diff)
			}
			continue
		}

		// Between retargets current moves monotonically toward target
		before := abs32(prevTarget - prevCurrent)
		after := abs32(d.Target() - d.Current())
		if after > before {
			t.Fatalf("block %d: moved away from target (%v -> %v)", i, before, after)
		}
	}

	if retargets < 2 {
		t.Errorf("only %d retargets in 100000 blocks", retargets)
	}
}

func TestDroneFirstBlockDrawsTarget(t *testing.T) {
	d := NewDroneModulator(3)
	d.Next()
	if d.Target() == 0 {
		t.Error("first block did not draw a target")
	}
	if d.Current() == 0 {
		t.Error("current did not move on the first block")
	}
}

func TestDroneProcessScalesUniformly(t *testing.T) {
	d := NewDroneModulator(9)
	buf := []float32{1, -1, 0.5, 0}
	mod := d.Process(buf)

	want := []float32{mod, -mod, 0.5 * mod, 0}
	for i := range buf {
		if buf[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, buf[i], want[i])
		}
	}
}

func TestDroneSeedIsDeterministic(t *testing.T) {
	a := NewDroneModulator(11)
	b := NewDroneModulator(11)
	for i := 0; i < 1000; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("block %d diverged for equal seeds", i)
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
