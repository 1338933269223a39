package patch

// NumKnobs is the number of assignable knobs on the control surface
const NumKnobs = 4

// Param identifies a continuous synthesis parameter a knob can drive
type Param int

const (
	Frequency Param = iota
	Structure
	Brightness
	Damping
	Position

	NumParams
)

// ParamNames are the menu labels, indexed by Param
var ParamNames = []string{"Frequency", "Structure", "Brightness", "Damping", "Position"}

func (p Param) String() string {
	if p.Valid() {
		return ParamNames[p]
	}
	return "Unknown"
}

// Valid reports whether p is a known parameter identifier
func (p Param) Valid() bool {
	return p >= 0 && p < NumParams
}

// ChannelMap assigns one parameter to each physical knob.
// Two knobs may drive the same parameter.
type ChannelMap [NumKnobs]Param

// DefaultChannelMap is the power-on assignment: knob i drives parameter i
func DefaultChannelMap() ChannelMap {
	return ChannelMap{Frequency, Structure, Brightness, Damping}
}

// Patch holds the continuous control values for one block, each in [0,1]
type Patch struct {
	Frequency  float32
	Structure  float32
	Brightness float32
	Damping    float32
	Position   float32
}

// Set writes v into the field selected by p. Unknown params are ignored.
func (pt *Patch) Set(p Param, v float32) {
	switch p {
	case Frequency:
		pt.Frequency = v
	case Structure:
		pt.Structure = v
	case Brightness:
		pt.Brightness = v
	case Damping:
		pt.Damping = v
	case Position:
		pt.Position = v
	}
}

// Get returns the field selected by p (0 for unknown params)
func (pt *Patch) Get(p Param) float32 {
	switch p {
	case Frequency:
		return pt.Frequency
	case Structure:
		return pt.Structure
	case Brightness:
		return pt.Brightness
	case Damping:
		return pt.Damping
	case Position:
		return pt.Position
	}
	return 0
}

// PerformanceState describes the gesture for one block.
// It is built fresh every block and never carried over.
type PerformanceState struct {
	Strum bool

	// Source selectors: true means the engine supplies the signal itself
	InternalNote    bool
	InternalExciter bool
	InternalStrum   bool

	Tonic float32 // semitones, set from the frequency control
	Note  float32 // semitones relative to tonic, from the note CV
	Fm    float32
}

// Mode selects the signal path for a block
type Mode int

const (
	ModeNormal Mode = iota
	ModeAmbient
)

func (m Mode) String() string {
	if m == ModeAmbient {
		return "Ambient"
	}
	return "Normal"
}

// Clamp01 limits v to [0,1]
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
