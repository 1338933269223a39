package synth

import (
	"math"

	"go-resonate/patch"
)

// noteChangeThreshold is how far (semitones) the note CV must move to strum
const noteChangeThreshold = 0.4

// Onset detector constants, per block
const (
	onsetFast      = 0.5
	onsetSlow      = 0.05
	onsetRatio     = 2
	onsetThreshold = 0.005
)

type onsetDetector struct {
	fast, slow float32
	above      bool
}

// process reports an onset when the fast envelope first rises well above the slow one
func (o *onsetDetector) process(in []float32) bool {
	if len(in) == 0 {
		return false
	}
	var energy float64
	for _, x := range in {
		energy += float64(x) * float64(x)
	}
	rms := float32(math.Sqrt(energy / float64(len(in))))
	o.fast += (rms - o.fast) * onsetFast
	o.slow += (rms - o.slow) * onsetSlow

	above := o.fast > o.slow*onsetRatio+onsetThreshold
	onset := above && !o.above
	o.above = above
	return onset
}

// Strummer derives the strum trigger when the strum input is not patched:
// from note changes when the note is external, otherwise from onsets in the
// exciter signal. Every strum is followed by a short inhibit window.
type Strummer struct {
	onset        onsetDetector
	previousNote float32
	inhibit      int
	inhibitTime  int
}

// Init sets the inhibit window to riseTime seconds at controlRate blocks per second
func (s *Strummer) Init(riseTime, controlRate float32) {
	*s = Strummer{inhibitTime: int(riseTime * controlRate)}
}

// Process fills in perf.Strum for this block. in is nil when no excitation
// signal is available.
func (s *Strummer) Process(in []float32, perf *patch.PerformanceState) {
	hasOnset := in != nil && s.onset.process(in)
	diff := perf.Note - s.previousNote
	noteChanged := diff > noteChangeThreshold || diff < -noteChangeThreshold

	if perf.InternalStrum {
		switch {
		case !perf.InternalNote:
			perf.Strum = noteChanged
		case !perf.InternalExciter:
			perf.Strum = hasOnset
		default:
			perf.Strum = false
		}
	}

	if s.inhibit > 0 {
		s.inhibit--
		perf.Strum = false
	} else if perf.Strum {
		s.inhibit = s.inhibitTime
	}
	s.previousNote = perf.Note
}
