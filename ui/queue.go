// Package ui carries control-surface edge events from the audio block to the
// menu loop, and implements the menu that edits patch.Settings.
package ui

import "sync/atomic"

// EventKind identifies a UI event
type EventKind int

const (
	ButtonPressed EventKind = iota
	ButtonReleased
	EncoderTurned
)

// Control IDs
const (
	ButtonEncoder = 0 // encoder push button doubles as the OK button
	EncoderMain   = 0
)

// Event is one debounced control-surface edge
type Event struct {
	Kind               EventKind
	ID                 int
	Presses            int // successive presses for ButtonPressed
	Increment          int // signed detents for EncoderTurned
	StepsPerRevolution int
}

// QueueSize is the capacity of an EventQueue
const QueueSize = 64

// EventQueue is a fixed-capacity single-producer single-consumer ring.
// The audio block produces, the menu loop consumes. Neither side blocks or
// allocates; events are dropped when the ring is full.
type EventQueue struct {
	events [QueueSize]Event
	head   atomic.Uint32 // next slot to read
	tail   atomic.Uint32 // next slot to write
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

func (q *EventQueue) push(e Event) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() >= QueueSize {
		return false
	}
	q.events[tail%QueueSize] = e
	q.tail.Store(tail + 1)
	return true
}

// AddButtonPressed queues a press of button id
func (q *EventQueue) AddButtonPressed(id, presses int) bool {
	return q.push(Event{Kind: ButtonPressed, ID: id, Presses: presses})
}

// AddButtonReleased queues a release of button id
func (q *EventQueue) AddButtonReleased(id int) bool {
	return q.push(Event{Kind: ButtonReleased, ID: id})
}

// AddEncoderTurned queues a turn of encoder id
func (q *EventQueue) AddEncoderTurned(id, increment, stepsPerRevolution int) bool {
	return q.push(Event{Kind: EncoderTurned, ID: id, Increment: increment, StepsPerRevolution: stepsPerRevolution})
}

// Next removes and returns the oldest event
func (q *EventQueue) Next() (Event, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return Event{}, false
	}
	e := q.events[head%QueueSize]
	q.head.Store(head + 1)
	return e, true
}

// Empty reports whether there is nothing to read
func (q *EventQueue) Empty() bool {
	return q.head.Load() == q.tail.Load()
}

// Encoder is the debounced state of the menu encoder for the current block
type Encoder interface {
	RisingEdge() bool  // button went down this block
	FallingEdge() bool // button went up this block
	Increment() int    // detents turned this block
}

// encoderStepsPerRevolution matches the panel encoder
const encoderStepsPerRevolution = 12

// GenerateEvents turns this block's encoder edges into queued events
func GenerateEvents(enc Encoder, q *EventQueue) {
	if enc.RisingEdge() {
		q.AddButtonPressed(ButtonEncoder, 1)
	}
	if enc.FallingEdge() {
		q.AddButtonReleased(ButtonEncoder)
	}
	if inc := enc.Increment(); inc != 0 {
		q.AddEncoderTurned(EncoderMain, inc, encoderStepsPerRevolution)
	}
}
