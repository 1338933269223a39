package dsp

import "math/rand/v2"

// Drone modulator defaults
const (
	DroneEpsilon  = float32(0.001)
	DroneSlewRate = float32(0.0005)
)

// DroneModulator produces a slowly drifting gain, one value per block.
// current chases a random target in [-1,1]; a new target is drawn once
// current gets within DroneEpsilon of the old one.
type DroneModulator struct {
	current float32
	target  float32
	slew    float32
	epsilon float32
	rng     *rand.Rand
}

// NewDroneModulator creates a modulator whose targets come from a PCG seeded with seed
func NewDroneModulator(seed uint64) *DroneModulator {
	return &DroneModulator{
		slew:    DroneSlewRate,
		epsilon: DroneEpsilon,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Next advances the walk by one block and returns the gain in [0.5,1.5]
func (d *DroneModulator) Next() float32 {
	diff := d.current - d.target
	if diff < 0 {
		diff = -diff
	}
	if diff < d.epsilon {
		d.target = float32(d.rng.Float64()*2 - 1)
	}
	d.current += (d.target - d.current) * d.slew
	return 1 + 0.5*d.current
}

// Process advances one block and scales every sample of buf in place.
// It returns the gain that was applied.
func (d *DroneModulator) Process(buf []float32) float32 {
	mod := d.Next()
	for i := range buf {
		buf[i] *= mod
	}
	return mod
}

// Current returns the walk position in [-1,1]
func (d *DroneModulator) Current() float32 { return d.current }

// Target returns the value the walk is currently slewing toward
func (d *DroneModulator) Target() float32 { return d.target }
