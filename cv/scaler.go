// Package cv adds the control-voltage inputs on top of the knob values.
package cv

import "go-resonate/patch"

// Frequency knob range in semitones
const (
	tonicBase  = 12
	tonicRange = 60
)

// noteRange is the span of the note CV in semitones (five octaves)
const noteRange = 60

// Inputs is the latched analog state for one block
type Inputs interface {
	// CV returns the bipolar offset (-1..1) patched into param
	CV(param patch.Param) float32
	// NoteCV returns the note input, 0..1 over five octaves
	NoteCV() float32
}

// Scaler reads Inputs into the patch and performance state
type Scaler struct {
	in Inputs
}

// NewScaler creates a scaler over in
func NewScaler(in Inputs) *Scaler {
	return &Scaler{in: in}
}

// Read adds each parameter's CV, clamps everything to [0,1] and derives the
// pitch fields. The note CV is only read when the note source is external.
func (s *Scaler) Read(p *patch.Patch, perf *patch.PerformanceState) {
	for param := patch.Param(0); param < patch.NumParams; param++ {
		p.Set(param, patch.Clamp01(p.Get(param)+s.in.CV(param)))
	}

	perf.Tonic = tonicBase + tonicRange*p.Frequency
	if perf.InternalNote {
		perf.Note = 0
	} else {
		perf.Note = noteRange * patch.Clamp01(s.in.NoteCV())
	}
}
