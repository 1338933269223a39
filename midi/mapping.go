package midi

import "go-resonate/patch"

// Mapping tells the surface which messages drive which control.
// Controller numbers of 0 leave the control unpatched.
type Mapping struct {
	PortName string `json:"portName"` // case-insensitive substring of the input port name
	Channel  int    `json:"channel"`  // 1-16, 0 listens on all channels

	Knobs [patch.NumKnobs]uint8  `json:"knobs"` // absolute CCs, 0..127 -> 0..1
	CV    [patch.NumParams]uint8 `json:"cv"`    // bipolar CCs, 64 is no offset

	// GateNote triggers the gate; 0 lets every note trigger it. Other
	// note-ons set the note CV relative to NoteBase unless NoteCC is patched.
	GateNote uint8 `json:"gateNote"`
	NoteCC   uint8 `json:"noteCC"`
	NoteBase uint8 `json:"noteBase"`

	EncoderCC     uint8 `json:"encoderCC"`     // relative, two's complement
	EncoderButton uint8 `json:"encoderButton"` // >= 64 pressed
}

// DefaultMapping suits a generic controller with eight knobs in CC 21-28
func DefaultMapping() Mapping {
	return Mapping{
		Knobs:         [patch.NumKnobs]uint8{21, 22, 23, 24},
		CV:            [patch.NumParams]uint8{25, 26, 27, 28, 0},
		NoteBase:      36,
		EncoderCC:     16,
		EncoderButton: 17,
	}
}
