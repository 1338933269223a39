package resonate

import (
	"testing"

	"go-resonate/patch"
)

func newTestMapper() (*Mapper, *fakeBackend, *fakeBackend) {
	a := &fakeBackend{name: "A"}
	b := &fakeBackend{name: "B"}
	return NewMapper(a, b), a, b
}

func TestMapperChannelIndirection(t *testing.T) {
	m, _, _ := newTestMapper()
	c := &fakeControls{knobs: [4]float32{0.1, 0.2, 0.3, 0.4}}

	snap := patch.Snapshot{ChannelMap: patch.ChannelMap{patch.Position, patch.Damping, patch.Brightness, patch.Frequency}}
	var p patch.Patch
	var perf patch.PerformanceState
	m.Process(&snap, c, &p, &perf)

	want := patch.Patch{Frequency: 0.4, Brightness: 0.3, Damping: 0.2, Position: 0.1}
	if p != want {
		t.Errorf("patch = %+v, want %+v", p, want)
	}
}

func TestMapperDuplicateAssignment(t *testing.T) {
	m, _, _ := newTestMapper()
	c := &fakeControls{knobs: [4]float32{0.1, 0.2, 0.3, 0.9}}

	snap := patch.Snapshot{ChannelMap: patch.ChannelMap{patch.Structure, patch.Structure, patch.Structure, patch.Structure}}
	var p patch.Patch
	var perf patch.PerformanceState
	m.Process(&snap, c, &p, &perf)

	if p.Structure != 0.9 {
		t.Errorf("Structure = %v, want the last knob's value 0.9", p.Structure)
	}
	if p.Frequency != 0 || p.Position != 0 {
		t.Errorf("unassigned params changed: %+v", p)
	}
}

func TestMapperPolyphonyChangeOnce(t *testing.T) {
	m, a, b := newTestMapper()
	c := &fakeControls{}
	snap := patch.Snapshot{ChannelMap: patch.DefaultChannelMap()}

	run := func(blocks int) {
		for i := 0; i < blocks; i++ {
			var p patch.Patch
			var perf patch.PerformanceState
			m.Process(&snap, c, &p, &perf)
		}
	}

	run(5)
	if len(a.polyCalls) != 0 || len(b.polyCalls) != 0 {
		t.Fatalf("unchanged polyphony reconfigured: A=%v B=%v", a.polyCalls, b.polyCalls)
	}

	snap.PolyphonyIndex = 1
	run(1)
	if len(a.polyCalls) != 1 || a.polyCalls[0] != 2 {
		t.Errorf("A reconfig calls = %v, want [2]", a.polyCalls)
	}
	if len(b.polyCalls) != 1 || b.polyCalls[0] != 2 {
		t.Errorf("B reconfig calls = %v, want [2]", b.polyCalls)
	}

	run(10)
	if len(a.polyCalls) != 1 || len(b.polyCalls) != 1 {
		t.Errorf("steady polyphony reconfigured again: A=%v B=%v", a.polyCalls, b.polyCalls)
	}
}

func TestMapperClampsPolyphony(t *testing.T) {
	m, a, _ := newTestMapper()
	c := &fakeControls{}
	var p patch.Patch
	var perf patch.PerformanceState

	snap := patch.Snapshot{PolyphonyIndex: 9}
	m.Process(&snap, c, &p, &perf)
	if len(a.polyCalls) != 1 || a.polyCalls[0] != patch.MaxVoices {
		t.Fatalf("calls = %v, want [%d]", a.polyCalls, patch.MaxVoices)
	}

	// Another out-of-range index that clamps to the same level is not a change
	snap.PolyphonyIndex = 12
	m.Process(&snap, c, &p, &perf)
	if len(a.polyCalls) != 1 {
		t.Errorf("calls = %v, want no further reconfiguration", a.polyCalls)
	}

	snap.PolyphonyIndex = -4
	m.Process(&snap, c, &p, &perf)
	if len(a.polyCalls) != 2 || a.polyCalls[1] != 1 {
		t.Errorf("calls = %v, want [4 1]", a.polyCalls)
	}
}

func TestMapperSelectionEveryBlock(t *testing.T) {
	m, a, b := newTestMapper()
	c := &fakeControls{}
	snap := patch.Snapshot{Model: 4, Fx: 99}

	for i := 0; i < 3; i++ {
		var p patch.Patch
		var perf patch.PerformanceState
		m.Process(&snap, c, &p, &perf)
	}
	if len(a.models) != 3 || a.models[2] != patch.ModelChord {
		t.Errorf("models = %v, want 3x CHRD", a.models)
	}
	if len(b.fxs) != 3 || b.fxs[0] != patch.FxReverb2 {
		t.Errorf("fx = %v, want 3x clamped Cathedral", b.fxs)
	}
}

func TestMapperSourceFlagsNegateCheckboxes(t *testing.T) {
	m, _, _ := newTestMapper()
	c := &fakeControls{}

	for mask := 0; mask < 8; mask++ {
		snap := patch.Snapshot{
			ExciterIn: mask&1 != 0,
			StrumIn:   mask&2 != 0,
			NoteIn:    mask&4 != 0,
		}
		var p patch.Patch
		var perf patch.PerformanceState
		m.Process(&snap, c, &p, &perf)

		if perf.InternalExciter != !snap.ExciterIn {
			t.Errorf("mask %d: InternalExciter = %v", mask, perf.InternalExciter)
		}
		if perf.InternalStrum != !snap.StrumIn {
			t.Errorf("mask %d: InternalStrum = %v", mask, perf.InternalStrum)
		}
		if perf.InternalNote != !snap.NoteIn {
			t.Errorf("mask %d: InternalNote = %v", mask, perf.InternalNote)
		}
	}
}

func TestMapperStrumCheckboxScenario(t *testing.T) {
	m, _, _ := newTestMapper()
	c := &fakeControls{}
	var p patch.Patch

	var perf patch.PerformanceState
	m.Process(&patch.Snapshot{StrumIn: true}, c, &p, &perf)
	if perf.InternalStrum {
		t.Error("Strum checked: InternalStrum = true, want false")
	}

	perf = patch.PerformanceState{}
	m.Process(&patch.Snapshot{StrumIn: false}, c, &p, &perf)
	if !perf.InternalStrum {
		t.Error("Strum unchecked: InternalStrum = false, want true")
	}
}

func TestMapperStrumFollowsGateEdge(t *testing.T) {
	m, _, _ := newTestMapper()
	c := &fakeControls{}
	snap := patch.Snapshot{}
	var p patch.Patch

	edges := []bool{false, true, false, false, true, false}
	for i, edge := range edges {
		c.gate = edge
		var perf patch.PerformanceState
		m.Process(&snap, c, &p, &perf)
		if perf.Strum != edge {
			t.Errorf("block %d: Strum = %v, want %v", i, perf.Strum, edge)
		}
	}
}

func TestMapperAmbientIgnoresGate(t *testing.T) {
	m, _, _ := newTestMapper()
	c := &fakeControls{gate: true}
	snap := patch.Snapshot{Mode: patch.ModeAmbient}

	var p patch.Patch
	var perf patch.PerformanceState
	m.Process(&snap, c, &p, &perf)
	if perf.Strum {
		t.Error("ambient mode read the gate input")
	}
}
