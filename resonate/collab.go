// Package resonate is the per-block orchestration layer: it maps the control
// surface into synthesis parameters, prepares the input signal and dispatches
// the block to one of two synthesis back ends.
package resonate

import (
	"go-resonate/patch"
	"go-resonate/ui"
)

// Backend is a synthesis engine driven once per block.
// SetPolyphony may reset voices and is only called between blocks.
type Backend interface {
	Process(perf patch.PerformanceState, p patch.Patch, in, out, aux []float32)
	SetPolyphony(voices int)
}

// Resonator is back end A, the physical-modeling resonator bank
type Resonator interface {
	Backend
	SetModel(m patch.ResonatorModel)
}

// Ensemble is back end B, the string-ensemble engine used in ambient mode
type Ensemble interface {
	Backend
	SetFx(fx patch.FxType)
}

// Strummer fills in the strum trigger. A nil input means no physical
// excitation is available.
type Strummer interface {
	Process(in []float32, perf *patch.PerformanceState)
}

// CVScaler adds the analog inputs on top of the mapped controls
type CVScaler interface {
	Read(p *patch.Patch, perf *patch.PerformanceState)
}

// Controls is the debounced hardware state for the current block
type Controls interface {
	// ProcessAllControls latches knob values and edges for this block
	ProcessAllControls()
	Knob(i int) float32 // 0..1
	GateTrig() bool     // rising edge on the gate input this block
	Encoder() ui.Encoder
}
