package synth

import (
	"testing"

	"go-resonate/patch"
)

func newTestStrummer() *Strummer {
	var s Strummer
	s.Init(0.01, 1000) // 10-block inhibit
	return &s
}

func quiet() []float32 { return make([]float32, 48) }

func loud() []float32 {
	buf := make([]float32, 48)
	for i := range buf {
		buf[i] = 0.5
	}
	return buf
}

// onsetPerf leaves the strum to onset detection on an external exciter
func onsetPerf() patch.PerformanceState {
	return patch.PerformanceState{InternalStrum: true, InternalNote: true}
}

func TestStrummerOnsetTriggers(t *testing.T) {
	s := newTestStrummer()
	for i := 0; i < 20; i++ {
		perf := onsetPerf()
		s.Process(quiet(), &perf)
		if perf.Strum {
			t.Fatalf("block %d: strum on silence", i)
		}
	}

	perf := onsetPerf()
	s.Process(loud(), &perf)
	if !perf.Strum {
		t.Error("no strum on a loud onset")
	}
}

func TestStrummerInhibitWindow(t *testing.T) {
	s := newTestStrummer()
	perf := patch.PerformanceState{InternalNote: true, InternalExciter: true}
	perf.Strum = true
	s.Process(quiet(), &perf)
	if !perf.Strum {
		t.Fatal("external strum was dropped")
	}

	for i := 0; i < 10; i++ {
		perf := patch.PerformanceState{Strum: true, InternalNote: true, InternalExciter: true}
		s.Process(quiet(), &perf)
		if perf.Strum {
			t.Fatalf("block %d: strum inside the inhibit window", i)
		}
	}

	perf = patch.PerformanceState{Strum: true, InternalNote: true, InternalExciter: true}
	s.Process(quiet(), &perf)
	if !perf.Strum {
		t.Error("strum still inhibited after the window")
	}
}

func TestStrummerNoteChange(t *testing.T) {
	s := newTestStrummer()
	perf := patch.PerformanceState{InternalStrum: true, InternalExciter: true, Note: 0}
	s.Process(nil, &perf)
	if perf.Strum {
		t.Fatal("strum without a note change")
	}

	for i := 0; i < 10; i++ {
		perf := patch.PerformanceState{InternalStrum: true, InternalExciter: true, Note: 0.2}
		s.Process(nil, &perf)
		if perf.Strum {
			t.Fatal("strum on a change below threshold")
		}
	}

	perf = patch.PerformanceState{InternalStrum: true, InternalExciter: true, Note: 5}
	s.Process(nil, &perf)
	if !perf.Strum {
		t.Error("no strum on a note change")
	}
}

func TestStrummerNilInputNeverOnsets(t *testing.T) {
	s := newTestStrummer()
	for i := 0; i < 5; i++ {
		perf := onsetPerf()
		s.Process(nil, &perf)
		if perf.Strum {
			t.Fatalf("block %d: strum without input", i)
		}
	}
}

func TestStrummerAllInternalOverridesGate(t *testing.T) {
	s := newTestStrummer()
	perf := patch.PerformanceState{Strum: true, InternalStrum: true, InternalNote: true, InternalExciter: true}
	s.Process(loud(), &perf)
	if perf.Strum {
		t.Error("strum kept with every source internal")
	}
}
