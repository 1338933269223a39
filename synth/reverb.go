package synth

import "fmt"

// Comb and all-pass lengths in samples, tuned for 48 kHz
var (
	combLengths    = [...]int{1557, 1617, 1491, 1422}
	allpassLengths = [...]int{556, 441}
)

// ReverbBufferSize is the number of samples a Reverb takes from its buffer
var ReverbBufferSize = func() int {
	n := 0
	for _, l := range combLengths {
		n += l
	}
	for _, l := range allpassLengths {
		n += l
	}
	return n
}()

type comb struct {
	delayLine
	store float32
}

func (c *comb) tick(x, feedback, damp float32) float32 {
	y := c.read()
	c.store = y*(1-damp) + c.store*damp
	c.write(x + c.store*feedback)
	return y
}

func allpassTick(d *delayLine, x float32) float32 {
	buffered := d.read()
	d.write(x + buffered*0.5)
	return buffered - x
}

// Reverb is a Schroeder reverberator (parallel combs into series all-passes)
// working on a buffer the caller owns, so one allocation can back both
// synthesis engines.
type Reverb struct {
	combs     [len(combLengths)]comb
	allpasses [len(allpassLengths)]delayLine

	amount  float32
	time    float32
	lowpass float32
}

// Init carves the delay lines out of buffer, which must hold at least
// ReverbBufferSize samples. The buffer is cleared.
func (r *Reverb) Init(buffer []float32) error {
	if len(buffer) < ReverbBufferSize {
		return fmt.Errorf("reverb buffer: have %d samples, need %d", len(buffer), ReverbBufferSize)
	}
	off := 0
	for i, n := range combLengths {
		r.combs[i] = comb{delayLine: delayLine{buf: buffer[off : off+n]}}
		off += n
	}
	for i, n := range allpassLengths {
		r.allpasses[i] = delayLine{buf: buffer[off : off+n]}
		off += n
	}
	r.Clear()
	r.amount = 0
	r.time = 0.7
	r.lowpass = 0.3
	return nil
}

// Clear silences the tail
func (r *Reverb) Clear() {
	for i := range r.combs {
		r.combs[i].reset()
		r.combs[i].store = 0
	}
	for i := range r.allpasses {
		r.allpasses[i].reset()
	}
}

// SetAmount sets the wet level, 0..1
func (r *Reverb) SetAmount(v float32) { r.amount = clamp(v, 0, 1) }

// SetTime sets the comb feedback, 0..0.98
func (r *Reverb) SetTime(v float32) { r.time = clamp(v, 0, 0.98) }

// SetLowpass sets the damping inside the combs, 0..0.99
func (r *Reverb) SetLowpass(v float32) { r.lowpass = clamp(v, 0, 0.99) }

// Process adds the reverberated mono sum of left and right to both channels
func (r *Reverb) Process(left, right []float32) {
	if r.combs[0].buf == nil {
		return
	}
	n := min(len(left), len(right))
	for i := 0; i < n; i++ {
		in := (left[i] + right[i]) * 0.125
		var wet float32
		for c := range r.combs {
			wet += r.combs[c].tick(in, r.time, r.lowpass)
		}
		first := allpassTick(&r.allpasses[0], wet)
		second := allpassTick(&r.allpasses[1], first)
		left[i] += second * r.amount
		right[i] += first * r.amount
	}
}
