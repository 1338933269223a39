package resonate

import (
	"go-resonate/dsp"
	"go-resonate/patch"
)

// Router dispatches a block to the path selected by the mode:
// Normal runs noise gate and resonator, Ambient runs drone and ensemble.
type Router struct {
	gate      *dsp.NoiseGate
	drone     *dsp.DroneModulator
	strummer  Strummer
	resonator Backend
	ensemble  Backend

	input []float32 // prepared input, sized for the largest block
}

// NewRouter creates a router with a prepared-input buffer of maxBlock samples
func NewRouter(gate *dsp.NoiseGate, drone *dsp.DroneModulator, s Strummer, r, e Backend, maxBlock int) *Router {
	return &Router{
		gate:      gate,
		drone:     drone,
		strummer:  s,
		resonator: r,
		ensemble:  e,
		input:     make([]float32, maxBlock),
	}
}

// Process runs one block. in, out and aux must have the same length, no
// larger than the router's maximum block.
func (r *Router) Process(mode patch.Mode, perf *patch.PerformanceState, p *patch.Patch, in, out, aux []float32) {
	input := r.input[:len(in)]

	switch mode {
	case patch.ModeAmbient:
		copy(input, in)
		r.drone.Process(input)
		r.strummer.Process(nil, perf)
		r.ensemble.Process(*perf, *p, input, out, aux)
	default:
		r.gate.Process(in, input)
		r.strummer.Process(input, perf)
		r.resonator.Process(*perf, *p, input, out, aux)
	}
}
