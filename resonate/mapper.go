package resonate

import (
	"go-resonate/debug"
	"go-resonate/patch"
)

// Mapper turns the settings snapshot and knob readings into a Patch and the
// source-selector flags of a PerformanceState. It also pushes polyphony and
// model/effect selection into both back ends.
type Mapper struct {
	resonator Resonator
	ensemble  Ensemble

	oldPoly int // polyphony index last pushed to the back ends
}

// NewMapper creates a mapper; both back ends are assumed to start with one voice
func NewMapper(r Resonator, e Ensemble) *Mapper {
	return &Mapper{resonator: r, ensemble: e}
}

// Process writes the mapped values for one block
func (m *Mapper) Process(snap *patch.Snapshot, c Controls, p *patch.Patch, perf *patch.PerformanceState) {
	// Reassignment jumps straight to the new knob's value
	for knob, param := range snap.ChannelMap {
		p.Set(param, c.Knob(knob))
	}

	// Reallocating voices is not real-time safe, so only on an actual change
	poly := patch.ClampPolyphonyIndex(snap.PolyphonyIndex)
	if poly != m.oldPoly {
		voices := patch.Voices(poly)
		m.resonator.SetPolyphony(voices)
		m.ensemble.SetPolyphony(voices)
		debug.Log("poly", "polyphony %d -> %d voices", patch.Voices(m.oldPoly), voices)
	}
	m.oldPoly = poly

	m.resonator.SetModel(patch.ClampModel(snap.Model))
	m.ensemble.SetFx(patch.ClampFx(snap.Fx))

	// A checked box means the signal is patched in from outside
	perf.InternalNote = !snap.NoteIn
	perf.InternalExciter = !snap.ExciterIn
	perf.InternalStrum = !snap.StrumIn

	// Ambient mode ignores the gate input entirely
	if snap.Mode == patch.ModeNormal {
		perf.Strum = c.GateTrig()
	}
}
