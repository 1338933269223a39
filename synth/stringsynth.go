package synth

import (
	"math"

	"go-resonate/patch"
)

// sawsPerVoice is the size of the detuned saw stack in each ensemble voice
const sawsPerVoice = 3

// chorusDelay is the modulated delay line length, about 40 ms at 48 kHz
const chorusDelay = 2048

// Envelope rates per sample
const (
	envAttack   = 0.002
	envFollower = 0.01
)

type ensembleVoice struct {
	note   float32
	phases [sawsPerVoice]float32
	env    float32
	attack bool
	tone   float32 // one-pole low-pass state
}

func (v *ensembleVoice) reset() {
	*v = ensembleVoice{}
}

// StringSynth is the ensemble back end used in ambient mode: a stack of
// detuned saws per voice with an envelope, followed by one effect.
type StringSynth struct {
	sampleRate float32
	voices     [patch.MaxVoices]ensembleVoice
	numVoices  int
	active     int
	next       int

	fx       patch.FxType
	follower float32 // input envelope

	formant  [2]svf
	chorus   [2]delayLine
	lfoPhase float32
	reverb   Reverb
}

// NewStringSynth allocates the effect delay lines up front
func NewStringSynth(sampleRate float32) *StringSynth {
	s := &StringSynth{sampleRate: sampleRate, numVoices: 1}
	for i := range s.chorus {
		s.chorus[i].buf = make([]float32, chorusDelay)
	}
	return s
}

// Init attaches the shared reverb buffer and silences every voice
func (s *StringSynth) Init(buffer []float32) error {
	if err := s.reverb.Init(buffer); err != nil {
		return err
	}
	s.SetPolyphony(s.numVoices)
	return nil
}

// SetPolyphony changes the voice count (clamped to 1..4) and silences all voices
func (s *StringSynth) SetPolyphony(voices int) {
	s.numVoices = int(clamp(float32(voices), 1, patch.MaxVoices))
	for v := range s.voices {
		s.voices[v].reset()
	}
	s.active, s.next = 0, 0
}

// SetFx selects the effect. Switching clears the effect state.
func (s *StringSynth) SetFx(fx patch.FxType) {
	fx = patch.ClampFx(int(fx))
	if fx == s.fx {
		return
	}
	s.fx = fx
	for i := range s.formant {
		s.formant[i].reset()
	}
	for i := range s.chorus {
		s.chorus[i].reset()
	}
	s.reverb.Clear()
}

// Voices returns the current voice count
func (s *StringSynth) Voices() int { return s.numVoices }

// Fx returns the selected effect
func (s *StringSynth) Fx() patch.FxType { return s.fx }

// Process renders one block. in drives the envelope when the exciter is
// external; otherwise a strum starts an attack/decay envelope.
func (s *StringSynth) Process(perf patch.PerformanceState, pt patch.Patch, in, out, aux []float32) {
	n := min(len(out), len(aux))
	clear(out[:n])
	clear(aux[:n])

	note := perf.Tonic + perf.Note + perf.Fm
	if perf.Strum {
		s.active = s.next
		s.next = (s.next + 1) % s.numVoices
		s.voices[s.active].attack = true
	}
	s.voices[s.active].note = note

	detune := 0.3 * pt.Structure // semitones between the outer saws
	tone := 0.02 + 0.9*pt.Brightness*pt.Brightness
	decay := 1 - (0.00002 + 0.002*pt.Damping)

	for v := 0; v < s.numVoices; v++ {
		voice := &s.voices[v]
		dst := out
		if v%2 == 1 {
			dst = aux
		}

		var incs [sawsPerVoice]float32
		for k := range incs {
			offset := detune * float32(k-sawsPerVoice/2)
			incs[k] = noteToFrequency(voice.note+offset) / s.sampleRate
		}

		for i := 0; i < n; i++ {
			if v == s.active && !perf.InternalExciter {
				if i < len(in) {
					x := in[i]
					if x < 0 {
						x = -x
					}
					s.follower += (x - s.follower) * envFollower
				}
				voice.env = clamp(s.follower*4, 0, 1)
			} else if voice.attack {
				voice.env += (1.05 - voice.env) * envAttack
				if voice.env >= 1 {
					voice.env = 1
					voice.attack = false
				}
			} else {
				voice.env *= decay
			}

			var saw float32
			for k := range voice.phases {
				voice.phases[k] += incs[k]
				if voice.phases[k] >= 1 {
					voice.phases[k] -= 1
				}
				saw += voice.phases[k]*2 - 1
			}
			voice.tone += (saw/sawsPerVoice - voice.tone) * tone
			dst[i] += voice.tone * voice.env * 0.5
		}
	}

	if s.numVoices == 1 {
		copy(aux[:n], out[:n])
	}
	s.applyFx(pt, out[:n], aux[:n])
}

func (s *StringSynth) applyFx(pt patch.Patch, out, aux []float32) {
	amount := pt.Position
	switch s.fx {
	case patch.FxFormant, patch.FxFormant2:
		s.formant[0].set(400+2000*amount, 4, s.sampleRate)
		s.formant[1].set(1000+2500*amount, 6, s.sampleRate)
		for i := range out {
			_, b0 := s.formant[0].tick(out[i])
			if s.fx == patch.FxFormant2 {
				_, b1 := s.formant[1].tick(aux[i])
				out[i] = 0.5*out[i] + b0
				aux[i] = 0.5*aux[i] + b1
			} else {
				out[i] = 0.5*out[i] + b0
				aux[i] = 0.5*aux[i] + b0
			}
		}
	case patch.FxChorus, patch.FxEnsemble:
		depth, rate := float32(0.3), float32(0.6)
		if s.fx == patch.FxEnsemble {
			depth, rate = 0.8, 2.1
		}
		inc := rate / s.sampleRate
		for i := range out {
			s.lfoPhase += inc
			if s.lfoPhase >= 1 {
				s.lfoPhase -= 1
			}
			lfo := float32(math.Sin(2 * math.Pi * float64(s.lfoPhase)))
			base := 0.01 * s.sampleRate // 10 ms
			swing := 0.005 * s.sampleRate * depth * (0.5 + amount)
			s.chorus[0].write(out[i])
			s.chorus[1].write(aux[i])
			wetL := s.chorus[0].tap(base + swing*lfo)
			wetR := s.chorus[1].tap(base - swing*lfo)
			out[i] = 0.6*out[i] + 0.4*wetL
			aux[i] = 0.6*aux[i] + 0.4*wetR
		}
	case patch.FxReverb:
		s.reverb.SetAmount(0.2 + 0.5*amount)
		s.reverb.SetTime(0.7)
		s.reverb.SetLowpass(0.3)
		s.reverb.Process(out, aux)
	case patch.FxReverb2:
		s.reverb.SetAmount(0.4 + 0.5*amount)
		s.reverb.SetTime(0.95)
		s.reverb.SetLowpass(0.6)
		s.reverb.Process(out, aux)
	}
}
