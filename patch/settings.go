package patch

import "sync/atomic"

// Settings is the configuration shared between the menu and the audio block.
//
// The menu is the only writer and the audio block the only reader. Every field
// is an independent atomic, so a block may see one field from before a menu
// edit and another from after it; a change can arrive up to one block late.
// No lock is ever taken, so the audio block never waits on the menu.
type Settings struct {
	channelMap [NumKnobs]atomic.Int32
	polyphony  atomic.Int32
	model      atomic.Int32
	fx         atomic.Int32

	// Normalization checkboxes: checked means the input is patched externally
	exciterIn atomic.Bool
	strumIn   atomic.Bool
	noteIn    atomic.Bool

	ambient atomic.Bool
}

// Snapshot is a plain copy of Settings taken once at the start of a block
type Snapshot struct {
	ChannelMap     ChannelMap
	PolyphonyIndex int
	Model          int
	Fx             int

	ExciterIn bool
	StrumIn   bool
	NoteIn    bool

	Mode Mode
}

// NewSettings creates settings with the power-on defaults
func NewSettings() *Settings {
	s := &Settings{}
	for i, p := range DefaultChannelMap() {
		s.channelMap[i].Store(int32(p))
	}
	return s
}

// Snapshot reads every field once
func (s *Settings) Snapshot() Snapshot {
	snap := Snapshot{
		PolyphonyIndex: int(s.polyphony.Load()),
		Model:          int(s.model.Load()),
		Fx:             int(s.fx.Load()),
		ExciterIn:      s.exciterIn.Load(),
		StrumIn:        s.strumIn.Load(),
		NoteIn:         s.noteIn.Load(),
	}
	for i := range s.channelMap {
		snap.ChannelMap[i] = Param(s.channelMap[i].Load())
	}
	if s.ambient.Load() {
		snap.Mode = ModeAmbient
	}
	return snap
}

// SetChannel assigns a parameter to a knob. Invalid knobs or params are ignored.
func (s *Settings) SetChannel(knob int, p Param) {
	if knob < 0 || knob >= NumKnobs || !p.Valid() {
		return
	}
	s.channelMap[knob].Store(int32(p))
}

// Channel returns the parameter assigned to a knob
func (s *Settings) Channel(knob int) Param {
	if knob < 0 || knob >= NumKnobs {
		return Frequency
	}
	return Param(s.channelMap[knob].Load())
}

// SetPolyphonyIndex stores the raw menu index; the mapper clamps it
func (s *Settings) SetPolyphonyIndex(idx int) { s.polyphony.Store(int32(idx)) }
func (s *Settings) PolyphonyIndex() int       { return int(s.polyphony.Load()) }

func (s *Settings) SetModel(idx int) { s.model.Store(int32(idx)) }
func (s *Settings) Model() int       { return int(s.model.Load()) }

func (s *Settings) SetFx(idx int) { s.fx.Store(int32(idx)) }
func (s *Settings) Fx() int       { return int(s.fx.Load()) }

func (s *Settings) SetExciterIn(v bool) { s.exciterIn.Store(v) }
func (s *Settings) ExciterIn() bool     { return s.exciterIn.Load() }

func (s *Settings) SetStrumIn(v bool) { s.strumIn.Store(v) }
func (s *Settings) StrumIn() bool     { return s.strumIn.Load() }

func (s *Settings) SetNoteIn(v bool) { s.noteIn.Store(v) }
func (s *Settings) NoteIn() bool     { return s.noteIn.Load() }

// SetAmbient toggles the ambient ("Easter Egg") operating mode
func (s *Settings) SetAmbient(v bool) { s.ambient.Store(v) }
func (s *Settings) Ambient() bool     { return s.ambient.Load() }
