package synth

import (
	"math"
	"math/rand/v2"

	"go-resonate/patch"
)

// maxPartials bounds the resonator lines per voice
const maxPartials = 3

// maxDelay is the longest string in samples (a bit under 20 Hz at 48 kHz)
const maxDelay = 2560

// Partial frequency ratios per resonator model
var modelPartials = [patch.NumModels][]float32{
	patch.ModelModal:        {1},
	patch.ModelSympathetic:  {1, 1.5, 2},
	patch.ModelInharmonic:   {1, 2.76},
	patch.ModelFM:           {1, 1.41},
	patch.ModelChord:        {1, 1.26, 1.5},
	patch.ModelStringReverb: {1, 1.003},
}

// Partials returns the frequency ratios model m runs per voice
func Partials(m patch.ResonatorModel) []float32 {
	return modelPartials[patch.ClampModel(int(m))]
}

type stringLine struct {
	delayLine
	lp float32
}

func (s *stringLine) reset() {
	s.delayLine.reset()
	s.lp = 0
}

// tick runs one Karplus-Strong step: read the string at period samples,
// low-pass it and feed it back with the excitation
func (s *stringLine) tick(x, period, feedback, brightness float32) float32 {
	y := s.tap(period)
	s.lp += brightness * (y - s.lp)
	s.write(x + s.lp*feedback)
	return y
}

type resonatorVoice struct {
	lines [maxPartials]stringLine
	note  float32
	burst int // internal exciter samples left
}

func (v *resonatorVoice) reset() {
	for i := range v.lines {
		v.lines[i].reset()
	}
	v.burst = 0
}

// Part is the resonator back end: up to four voices of damped delay-line
// strings, each voice running the partials of the selected model.
type Part struct {
	sampleRate float32
	voices     [patch.MaxVoices]resonatorVoice
	numVoices  int
	active     int // voice receiving the excitation
	next       int // voice the next strum allocates

	model  patch.ResonatorModel
	reverb Reverb
	rng    *rand.Rand
}

// NewPart allocates all voices up front; nothing allocates after this
func NewPart(sampleRate float32) *Part {
	p := &Part{
		sampleRate: sampleRate,
		numVoices:  1,
		rng:        rand.New(rand.NewPCG(1, 2)),
	}
	for v := range p.voices {
		for l := range p.voices[v].lines {
			p.voices[v].lines[l].buf = make([]float32, maxDelay)
		}
	}
	return p
}

// Init attaches the shared reverb buffer and silences every voice
func (p *Part) Init(buffer []float32) error {
	if err := p.reverb.Init(buffer); err != nil {
		return err
	}
	p.SetPolyphony(p.numVoices)
	return nil
}

// SetPolyphony changes the voice count (clamped to 1..4) and silences all voices
func (p *Part) SetPolyphony(voices int) {
	p.numVoices = int(clamp(float32(voices), 1, patch.MaxVoices))
	for v := range p.voices {
		p.voices[v].reset()
	}
	p.active, p.next = 0, 0
	p.reverb.Clear()
}

// SetModel selects the resonator structure; ringing voices keep their state
func (p *Part) SetModel(m patch.ResonatorModel) {
	p.model = patch.ClampModel(int(m))
}

// Voices returns the current voice count
func (p *Part) Voices() int { return p.numVoices }

// Model returns the selected resonator model
func (p *Part) Model() patch.ResonatorModel { return p.model }

// Process renders one block. Even voices go to out and odd voices to aux;
// with a single voice aux mirrors out.
func (p *Part) Process(perf patch.PerformanceState, pt patch.Patch, in, out, aux []float32) {
	n := min(len(out), len(aux))
	clear(out[:n])
	clear(aux[:n])

	note := perf.Tonic + perf.Note + perf.Fm
	if perf.Strum {
		p.active = p.next
		p.next = (p.next + 1) % p.numVoices
		voice := &p.voices[p.active]
		if perf.InternalExciter {
			voice.burst = int(p.sampleRate / noteToFrequency(note))
		}
	}
	p.voices[p.active].note = note

	partials := Partials(p.model)
	spread := 0.5 + pt.Structure
	brightness := 0.05 + 0.95*pt.Brightness
	feedback := 0.9995 - 0.09*pt.Damping

	// Pickup position sets the weight of each partial
	var gains [maxPartials]float32
	pos := 0.1 + 0.8*pt.Position
	for k := range partials {
		gains[k] = float32(math.Abs(math.Sin(math.Pi*float64(k+1)*float64(pos)))) / float32(len(partials))
	}

	for v := 0; v < p.numVoices; v++ {
		voice := &p.voices[v]
		dst := out
		if v%2 == 1 {
			dst = aux
		}

		var periods [maxPartials]float32
		f0 := noteToFrequency(voice.note)
		for k, r := range partials {
			ratio := 1 + (r-1)*spread
			periods[k] = p.sampleRate / (f0 * ratio)
		}

		for i := 0; i < n; i++ {
			var x float32
			if v == p.active {
				if voice.burst > 0 {
					x = (p.rng.Float32()*2 - 1) * 0.5
					voice.burst--
				} else if !perf.InternalExciter && i < len(in) {
					x = in[i]
				}
			}
			var y float32
			for k := range partials {
				y += voice.lines[k].tick(x, periods[k], feedback, brightness) * gains[k]
			}
			dst[i] += y
		}
	}

	if p.numVoices == 1 {
		copy(aux[:n], out[:n])
	}

	if p.model == patch.ModelStringReverb {
		p.reverb.SetAmount(0.2 + 0.5*pt.Position)
		p.reverb.SetTime(0.6 + 0.35*pt.Structure)
		p.reverb.SetLowpass(0.5 - 0.4*pt.Brightness)
		p.reverb.Process(out[:n], aux[:n])
	}
}
