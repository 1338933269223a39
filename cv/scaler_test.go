package cv

import (
	"testing"

	"go-resonate/patch"
)

type fakeInputs struct {
	cv   [patch.NumParams]float32
	note float32
}

func (f *fakeInputs) CV(p patch.Param) float32 { return f.cv[p] }
func (f *fakeInputs) NoteCV() float32          { return f.note }

func TestReadAddsAndClamps(t *testing.T) {
	in := &fakeInputs{}
	in.cv[patch.Structure] = 0.25
	in.cv[patch.Damping] = 0.9
	in.cv[patch.Position] = -0.8

	p := patch.Patch{Structure: 0.5, Damping: 0.5, Position: 0.3, Brightness: 0.4}
	var perf patch.PerformanceState
	NewScaler(in).Read(&p, &perf)

	want := patch.Patch{Structure: 0.75, Damping: 1, Position: 0, Brightness: 0.4}
	if p != want {
		t.Errorf("patch = %+v, want %+v", p, want)
	}
}

func TestReadTonic(t *testing.T) {
	tests := []struct {
		freq float32
		want float32
	}{
		{0, 12},
		{0.5, 42},
		{1, 72},
	}
	for _, tt := range tests {
		p := patch.Patch{Frequency: tt.freq}
		var perf patch.PerformanceState
		NewScaler(&fakeInputs{}).Read(&p, &perf)
		if perf.Tonic != tt.want {
			t.Errorf("frequency %v: Tonic = %v, want %v", tt.freq, perf.Tonic, tt.want)
		}
	}
}

func TestReadNoteOnlyWhenExternal(t *testing.T) {
	in := &fakeInputs{note: 0.5}

	var p patch.Patch
	perf := patch.PerformanceState{InternalNote: true}
	NewScaler(in).Read(&p, &perf)
	if perf.Note != 0 {
		t.Errorf("internal note: Note = %v, want 0", perf.Note)
	}

	perf = patch.PerformanceState{}
	NewScaler(in).Read(&p, &perf)
	if perf.Note != 30 {
		t.Errorf("external note: Note = %v, want 30", perf.Note)
	}

	in.note = 3
	NewScaler(in).Read(&p, &perf)
	if perf.Note != 60 {
		t.Errorf("over-range note CV: Note = %v, want 60", perf.Note)
	}
}
