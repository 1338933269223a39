// Package dsp holds the per-block signal preparation stages that sit in front
// of the synthesis back ends: the input noise gate and the drone modulator.
package dsp

// Noise gate defaults. Attack is a thousand times faster than release so the
// gate opens on a transient and then lets the tail ring out.
const (
	GateAttack    = float32(0.1)
	GateRelease   = float32(0.0001)
	GateThreshold = float32(0.00003)
)

// NoiseGate is a soft, strictly causal gate driven by a smoothed power estimate.
// Below the threshold the gain ramps linearly toward zero instead of muting.
type NoiseGate struct {
	level     float32 // running power estimate, carried across blocks
	attack    float32
	release   float32
	threshold float32
}

// NewNoiseGate creates a gate with the default constants
func NewNoiseGate() *NoiseGate {
	return &NoiseGate{
		attack:    GateAttack,
		release:   GateRelease,
		threshold: GateThreshold,
	}
}

// Process gates in into out sample by sample. out may alias in.
// Only min(len(in), len(out)) samples are processed.
func (g *NoiseGate) Process(in, out []float32) {
	n := min(len(in), len(out))
	for i := 0; i < n; i++ {
		x := in[i]
		g.track(x)
		out[i] = g.Gain() * x
	}
}

func (g *NoiseGate) track(x float32) {
	err := x*x - g.level
	if err > 0 {
		g.level += err * g.attack
	} else {
		g.level += err * g.release
	}
}

// Gain returns the gain the current power estimate produces, in [0,1]
func (g *NoiseGate) Gain() float32 {
	if g.level <= g.threshold {
		return g.level / g.threshold
	}
	return 1
}

// Level returns the running power estimate
func (g *NoiseGate) Level() float32 {
	return g.level
}
