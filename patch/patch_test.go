package patch

import "testing"

func TestPatchSetGet(t *testing.T) {
	var p Patch
	for i := Param(0); i < NumParams; i++ {
		p.Set(i, float32(i+1)/10)
	}
	for i := Param(0); i < NumParams; i++ {
		if got, want := p.Get(i), float32(i+1)/10; got != want {
			t.Errorf("Get(%v) = %v, want %v", i, got, want)
		}
	}

	before := p
	p.Set(NumParams, 0.99)
	p.Set(-1, 0.99)
	if p != before {
		t.Errorf("Set with invalid param changed patch: %+v", p)
	}
}

func TestParamString(t *testing.T) {
	if Brightness.String() != "Brightness" {
		t.Errorf("Brightness.String() = %q", Brightness.String())
	}
	if Param(42).String() != "Unknown" {
		t.Errorf("Param(42).String() = %q, want Unknown", Param(42).String())
	}
}

func TestClampPolyphonyIndex(t *testing.T) {
	tests := []struct {
		idx    int
		want   int
		voices int
	}{
		{-3, 0, 1},
		{0, 0, 1},
		{1, 1, 2},
		{2, 2, 4},
		{7, 2, 4},
	}
	for _, tt := range tests {
		if got := ClampPolyphonyIndex(tt.idx); got != tt.want {
			t.Errorf("ClampPolyphonyIndex(%d) = %d, want %d", tt.idx, got, tt.want)
		}
		if got := Voices(tt.idx); got != tt.voices {
			t.Errorf("Voices(%d) = %d, want %d", tt.idx, got, tt.voices)
		}
	}
	if len(PolyphonyNames) != MaxPolyphonyIndex+1 {
		t.Errorf("PolyphonyNames has %d entries, want %d", len(PolyphonyNames), MaxPolyphonyIndex+1)
	}
}

func TestClampModelAndFx(t *testing.T) {
	if ClampModel(-1) != ModelModal {
		t.Errorf("ClampModel(-1) = %v", ClampModel(-1))
	}
	if ClampModel(99) != ModelStringReverb {
		t.Errorf("ClampModel(99) = %v", ClampModel(99))
	}
	if ClampFx(3) != FxFormant2 {
		t.Errorf("ClampFx(3) = %v", ClampFx(3))
	}
	if ClampFx(6) != FxReverb2 {
		t.Errorf("ClampFx(6) = %v", ClampFx(6))
	}
	if len(ModelNames) != int(NumModels) || len(FxNames) != int(NumFx) {
		t.Error("name tables out of sync with enumerations")
	}
}

func TestSettingsSnapshot(t *testing.T) {
	s := NewSettings()
	snap := s.Snapshot()
	if snap.ChannelMap != DefaultChannelMap() {
		t.Errorf("default ChannelMap = %v, want %v", snap.ChannelMap, DefaultChannelMap())
	}
	if snap.Mode != ModeNormal {
		t.Errorf("default Mode = %v, want Normal", snap.Mode)
	}

	s.SetChannel(0, Position)
	s.SetChannel(1, Position)
	s.SetChannel(4, Damping)   // no such knob
	s.SetChannel(2, Param(17)) // no such param
	s.SetPolyphonyIndex(1)
	s.SetModel(3)
	s.SetFx(5)
	s.SetStrumIn(true)
	s.SetAmbient(true)

	snap = s.Snapshot()
	want := ChannelMap{Position, Position, Brightness, Damping}
	if snap.ChannelMap != want {
		t.Errorf("ChannelMap = %v, want %v", snap.ChannelMap, want)
	}
	if snap.PolyphonyIndex != 1 || snap.Model != 3 || snap.Fx != 5 {
		t.Errorf("selectors = %d/%d/%d, want 1/3/5", snap.PolyphonyIndex, snap.Model, snap.Fx)
	}
	if !snap.StrumIn || snap.ExciterIn || snap.NoteIn {
		t.Errorf("checkboxes = %v/%v/%v, want false/true/false", snap.ExciterIn, snap.StrumIn, snap.NoteIn)
	}
	if snap.Mode != ModeAmbient {
		t.Errorf("Mode = %v, want Ambient", snap.Mode)
	}
}

func TestClamp01(t *testing.T) {
	for _, tt := range []struct{ in, want float32 }{{-0.5, 0}, {0.25, 0.25}, {1.5, 1}} {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
