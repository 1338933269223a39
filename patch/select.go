package patch

// MaxPolyphonyIndex is the highest polyphony menu index; voices = 1 << index
const MaxPolyphonyIndex = 2

// MaxVoices is the largest voice count a back end must support
const MaxVoices = 1 << MaxPolyphonyIndex

// PolyphonyNames are the menu labels, indexed by polyphony index
var PolyphonyNames = []string{"One", "Two", "Four"}

// ClampPolyphonyIndex limits a menu index to the supported range
func ClampPolyphonyIndex(idx int) int {
	if idx < 0 {
		return 0
	}
	if idx > MaxPolyphonyIndex {
		return MaxPolyphonyIndex
	}
	return idx
}

// Voices converts a polyphony index into a power-of-two voice count
func Voices(idx int) int {
	return 1 << ClampPolyphonyIndex(idx)
}

// ResonatorModel selects the resonator structure of back end A
type ResonatorModel int

const (
	ModelModal ResonatorModel = iota
	ModelSympathetic
	ModelInharmonic
	ModelFM
	ModelChord
	ModelStringReverb

	NumModels
)

// ModelNames are the menu labels, indexed by ResonatorModel
var ModelNames = []string{"Modal Synthesis", "SYMP", "INHR", "FM", "CHRD", "STRVB"}

func (m ResonatorModel) String() string {
	return ModelNames[ClampModel(int(m))]
}

// ClampModel converts a menu index into a valid model
func ClampModel(idx int) ResonatorModel {
	if idx < 0 {
		return ModelModal
	}
	if idx >= int(NumModels) {
		return NumModels - 1
	}
	return ResonatorModel(idx)
}

// FxType selects the effect of back end B
type FxType int

const (
	FxFormant FxType = iota
	FxChorus
	FxReverb
	FxFormant2
	FxEnsemble
	FxReverb2

	NumFx
)

// FxNames are the menu labels, indexed by FxType
var FxNames = []string{"Formant", "Chorus", "Reverb", "Bi-Formant", "Ensemble", "Cathedral"}

func (f FxType) String() string {
	return FxNames[ClampFx(int(f))]
}

// ClampFx converts a menu index into a valid effect
func ClampFx(idx int) FxType {
	if idx < 0 {
		return FxFormant
	}
	if idx >= int(NumFx) {
		return NumFx - 1
	}
	return FxType(idx)
}
