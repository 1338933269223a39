package resonate

import (
	"go-resonate/dsp"
	"go-resonate/patch"
	"go-resonate/ui"
)

// Scheduler is the audio block entry point. Process is called once per block
// from the audio callback and must not block or allocate.
type Scheduler struct {
	settings *patch.Settings
	controls Controls
	events   *ui.EventQueue
	mapper   *Mapper
	cv       CVScaler
	router   *Router

	maxBlock int
	output   []float32
	aux      []float32

	// Per-block state, reset at step 3 of every Process
	perf patch.PerformanceState
	p    patch.Patch
}

// Config bundles the collaborators a Scheduler drives
type Config struct {
	Settings  *patch.Settings
	Controls  Controls
	Events    *ui.EventQueue
	CV        CVScaler
	Strummer  Strummer
	Resonator Resonator
	Ensemble  Ensemble
	DroneSeed uint64
	MaxBlock  int
}

// NewScheduler wires the mapper and router around the given collaborators
func NewScheduler(cfg Config) *Scheduler {
	return &Scheduler{
		settings: cfg.Settings,
		controls: cfg.Controls,
		events:   cfg.Events,
		mapper:   NewMapper(cfg.Resonator, cfg.Ensemble),
		cv:       cfg.CV,
		router: NewRouter(
			dsp.NewNoiseGate(),
			dsp.NewDroneModulator(cfg.DroneSeed),
			cfg.Strummer,
			cfg.Resonator,
			cfg.Ensemble,
			cfg.MaxBlock,
		),
		maxBlock: cfg.MaxBlock,
		output:   make([]float32, cfg.MaxBlock),
		aux:      make([]float32, cfg.MaxBlock),
	}
}

// MaxBlock returns the largest block size Process accepts
func (s *Scheduler) MaxBlock() int {
	return s.maxBlock
}

// Process renders one block. in[0] is the audio input; out[0] and out[1]
// receive the main and auxiliary outputs. size is clamped to MaxBlock.
func (s *Scheduler) Process(in, out [][]float32, size int) {
	if size > s.maxBlock {
		size = s.maxBlock
	}

	s.controls.ProcessAllControls()
	ui.GenerateEvents(s.controls.Encoder(), s.events)

	s.perf = patch.PerformanceState{}
	s.p = patch.Patch{}

	// Sampled once; the whole block runs on this snapshot
	snap := s.settings.Snapshot()

	s.mapper.Process(&snap, s.controls, &s.p, &s.perf)
	s.cv.Read(&s.p, &s.perf)

	output := s.output[:size]
	aux := s.aux[:size]
	s.router.Process(snap.Mode, &s.perf, &s.p, in[0][:size], output, aux)

	copy(out[0][:size], output)
	copy(out[1][:size], aux)
}
