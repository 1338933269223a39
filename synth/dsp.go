// Package synth implements the synthesis collaborators driven by the block
// scheduler: the resonator part (back end A), the string synth (back end B),
// their shared reverb and the strummer.
package synth

import "math"

// Pitch limits shared by both back ends, in Hz
const (
	minFrequency = 20
	maxFrequency = 4000
)

// noteToFrequency converts a MIDI note (fractional) into Hz, clamped to the
// range the delay lines can represent
func noteToFrequency(note float32) float32 {
	f := float32(440 * math.Exp2(float64(note-69)/12))
	if f < minFrequency {
		return minFrequency
	}
	if f > maxFrequency {
		return maxFrequency
	}
	return f
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// delayLine is a circular buffer over caller-owned storage
type delayLine struct {
	buf []float32
	pos int
}

func (d *delayLine) reset() {
	clear(d.buf)
	d.pos = 0
}

// read returns the oldest sample, i.e. the one written len(buf) writes ago
func (d *delayLine) read() float32 {
	return d.buf[d.pos]
}

// tap returns the sample written delay writes ago, with linear interpolation.
// delay is clamped to [1, len(buf)-2].
func (d *delayLine) tap(delay float32) float32 {
	delay = clamp(delay, 1, float32(len(d.buf)-2))
	di := int(delay)
	frac := delay - float32(di)
	i0 := d.pos - di
	if i0 < 0 {
		i0 += len(d.buf)
	}
	i1 := i0 - 1
	if i1 < 0 {
		i1 += len(d.buf)
	}
	return d.buf[i0]*(1-frac) + d.buf[i1]*frac
}

func (d *delayLine) write(x float32) {
	d.buf[d.pos] = x
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
}

// svf is a topology-preserving state variable filter. Coefficients are set
// once per block; tick runs per sample.
type svf struct {
	ic1, ic2   float32
	a1, a2, a3 float32
	k          float32
}

func (f *svf) reset() {
	f.ic1, f.ic2 = 0, 0
}

// set computes coefficients for cutoff (Hz) and resonance q
func (f *svf) set(cutoff, q, sampleRate float32) {
	ratio := clamp(cutoff/sampleRate, 0, 0.499)
	g := float32(math.Tan(math.Pi * float64(ratio)))
	f.k = 1 / q
	f.a1 = 1 / (1 + g*(g+f.k))
	f.a2 = g * f.a1
	f.a3 = g * f.a2
}

// tick returns the low-pass and band-pass outputs
func (f *svf) tick(x float32) (low, band float32) {
	v3 := x - f.ic2
	v1 := f.a1*f.ic1 + f.a2*v3
	v2 := f.ic2 + f.a2*f.ic1 + f.a3*v3
	f.ic1 = 2*v1 - f.ic1
	f.ic2 = 2*v2 - f.ic2
	return v2, v1
}
