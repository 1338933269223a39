package resonate

import (
	"go-resonate/patch"
	"go-resonate/ui"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(s string) {
	if r != nil {
		r.calls = append(r.calls, s)
	}
}

type fakeBackend struct {
	name   string
	marker float32
	rec    *recorder

	processed int
	polyCalls []int
	models    []patch.ResonatorModel
	fxs       []patch.FxType
	lastPerf  patch.PerformanceState
	lastPatch patch.Patch
	lastIn    []float32
}

func (b *fakeBackend) Process(perf patch.PerformanceState, p patch.Patch, in, out, aux []float32) {
	b.rec.add(b.name)
	b.processed++
	b.lastPerf = perf
	b.lastPatch = p
	b.lastIn = append(b.lastIn[:0], in...)
	for i := range out {
		out[i] = b.marker
		aux[i] = b.marker * 10
	}
}

func (b *fakeBackend) SetPolyphony(voices int)          { b.polyCalls = append(b.polyCalls, voices) }
func (b *fakeBackend) SetModel(m patch.ResonatorModel) { b.models = append(b.models, m) }
func (b *fakeBackend) SetFx(fx patch.FxType)            { b.fxs = append(b.fxs, fx) }

type fakeStrummer struct {
	rec      *recorder
	calls    int
	nilCalls int
}

func (s *fakeStrummer) Process(in []float32, perf *patch.PerformanceState) {
	s.rec.add("strummer")
	s.calls++
	if in == nil {
		s.nilCalls++
	}
}

type fakeCV struct {
	rec   *recorder
	calls int
}

func (c *fakeCV) Read(p *patch.Patch, perf *patch.PerformanceState) {
	c.rec.add("cv")
	c.calls++
}

type fakeEncoder struct {
	rising bool
	inc    int
}

func (e *fakeEncoder) RisingEdge() bool  { return e.rising }
func (e *fakeEncoder) FallingEdge() bool { return false }
func (e *fakeEncoder) Increment() int    { return e.inc }

type fakeControls struct {
	rec   *recorder
	knobs [patch.NumKnobs]float32
	gate  bool
	enc   fakeEncoder
}

func (c *fakeControls) ProcessAllControls() { c.rec.add("poll") }
func (c *fakeControls) Knob(i int) float32  { return c.knobs[i] }
func (c *fakeControls) GateTrig() bool      { return c.gate }
func (c *fakeControls) Encoder() ui.Encoder {
	c.rec.add("events")
	return &c.enc
}
