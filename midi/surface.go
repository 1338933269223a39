package midi

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-resonate/debug"
	"go-resonate/patch"
	"go-resonate/ui"
)

// noteSpan is the note CV range in semitones
const noteSpan = 60

// Surface turns MIDI from a controller into the per-block hardware state the
// scheduler polls. The MIDI callback only touches atomics; the audio side
// latches them once per block in ProcessAllControls.
type Surface struct {
	mapping Mapping

	// written by the MIDI callback
	knobs      [patch.NumKnobs]atomic.Uint32 // float32 bits
	cv         [patch.NumParams]atomic.Uint32
	noteCV     atomic.Uint32
	gateEdges  atomic.Uint32
	downEdges  atomic.Uint32
	upEdges    atomic.Uint32
	increments atomic.Int32
	buttonDown atomic.Bool

	// owned by the audio side
	latched   [patch.NumKnobs]float32
	seenGate  uint32
	seenDown  uint32
	seenUp    uint32
	gate      bool
	rising    bool
	falling   bool
	increment int

	mu   sync.Mutex
	stop func()
}

// NewSurface creates a surface with every knob centred
func NewSurface(m Mapping) *Surface {
	s := &Surface{mapping: m}
	for i := range s.knobs {
		s.knobs[i].Store(math.Float32bits(0.5))
		s.latched[i] = 0.5
	}
	return s
}

// Mapping returns the message assignment the surface was built with
func (s *Surface) Mapping() Mapping { return s.mapping }

// Attach starts listening on in, replacing any previous port
func (s *Surface) Attach(in drivers.In) error {
	s.Detach()
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		s.HandleMessage(msg)
	})
	if err != nil {
		return fmt.Errorf("listen to %s: %w", in.String(), err)
	}
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
	return nil
}

// Detach stops listening. Held controls keep their last value.
func (s *Surface) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// HandleMessage applies one incoming message
func (s *Surface) HandleMessage(msg gomidi.Message) {
	ev, ok := Parse(msg)
	if !ok {
		return
	}
	if s.mapping.Channel != 0 && int(ev.Channel)+1 != s.mapping.Channel {
		return
	}

	switch ev.Type {
	case NoteOn:
		gateNote := s.mapping.GateNote
		isGate := gateNote == 0 || ev.Number == gateNote
		if isGate {
			s.gateEdges.Add(1)
		}
		if s.mapping.NoteCC == 0 && (gateNote == 0 || !isGate) {
			v := (float32(ev.Number) - float32(s.mapping.NoteBase)) / noteSpan
			s.noteCV.Store(math.Float32bits(patch.Clamp01(v)))
		}
	case CC:
		s.handleCC(ev.Number, ev.Value)
	}
}

func (s *Surface) handleCC(cc, value uint8) {
	if cc == 0 {
		return
	}
	for i, n := range s.mapping.Knobs {
		if n == cc {
			s.knobs[i].Store(math.Float32bits(float32(value) / 127))
		}
	}
	for i, n := range s.mapping.CV {
		if n == cc {
			s.cv[i].Store(math.Float32bits(bipolar(value)))
		}
	}
	if cc == s.mapping.NoteCC {
		s.noteCV.Store(math.Float32bits(float32(value) / 127))
	}
	if cc == s.mapping.EncoderCC {
		s.increments.Add(relative(value))
	}
	if cc == s.mapping.EncoderButton {
		down := value >= 64
		if s.buttonDown.Swap(down) != down {
			if down {
				s.downEdges.Add(1)
			} else {
				s.upEdges.Add(1)
			}
			debug.Log("surface", "encoder button down=%v", down)
		}
	}
}

// bipolar maps a CC value onto -1..1 with 64 at zero
func bipolar(v uint8) float32 {
	if v >= 127 {
		return 1
	}
	return (float32(v) - 64) / 64
}

// relative decodes a two's complement relative encoder value
func relative(v uint8) int32 {
	if v >= 64 {
		return int32(v) - 128
	}
	return int32(v)
}

// ProcessAllControls latches knobs, edges and encoder movement for one block.
// Each gate edge fires in exactly one block.
func (s *Surface) ProcessAllControls() {
	for i := range s.knobs {
		s.latched[i] = math.Float32frombits(s.knobs[i].Load())
	}

	g := s.gateEdges.Load()
	s.gate = g != s.seenGate
	s.seenGate = g

	d := s.downEdges.Load()
	s.rising = d != s.seenDown
	s.seenDown = d

	u := s.upEdges.Load()
	s.falling = u != s.seenUp
	s.seenUp = u

	s.increment = int(s.increments.Swap(0))
}

// Knob returns knob i as latched for this block
func (s *Surface) Knob(i int) float32 {
	if i < 0 || i >= patch.NumKnobs {
		return 0
	}
	return s.latched[i]
}

// GateTrig reports a rising gate edge in this block; reading it has no side effect
func (s *Surface) GateTrig() bool { return s.gate }

// Encoder returns the surface itself; its edges are latched per block
func (s *Surface) Encoder() ui.Encoder { return s }

func (s *Surface) RisingEdge() bool  { return s.rising }
func (s *Surface) FallingEdge() bool { return s.falling }
func (s *Surface) Increment() int    { return s.increment }

// CV returns the bipolar offset last received for param
func (s *Surface) CV(param patch.Param) float32 {
	if !param.Valid() {
		return 0
	}
	return math.Float32frombits(s.cv[param].Load())
}

// NoteCV returns the note input in 0..1
func (s *Surface) NoteCV() float32 {
	return math.Float32frombits(s.noteCV.Load())
}

// KnobValue returns the most recent value of knob i without latching; safe
// to call from any goroutine
func (s *Surface) KnobValue(i int) float32 {
	if i < 0 || i >= patch.NumKnobs {
		return 0
	}
	return math.Float32frombits(s.knobs[i].Load())
}
