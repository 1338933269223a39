package midi

import gomidi "gitlab.com/gomidi/midi/v2"

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Event is a decoded channel message from the control surface
type Event struct {
	Type    uint8 // NoteOn, NoteOff, CC
	Channel uint8 // 0-15
	Number  uint8 // note or controller number
	Value   uint8 // velocity or controller value
}

// Parse decodes the messages the surface understands.
// A note-on with zero velocity is reported as NoteOff.
func Parse(msg gomidi.Message) (Event, bool) {
	var ch, num, val uint8
	switch {
	case msg.GetNoteStart(&ch, &num, &val):
		return Event{Type: NoteOn, Channel: ch, Number: num, Value: val}, true
	case msg.GetNoteEnd(&ch, &num):
		return Event{Type: NoteOff, Channel: ch, Number: num}, true
	case msg.GetControlChange(&ch, &num, &val):
		return Event{Type: CC, Channel: ch, Number: num, Value: val}, true
	}
	return Event{}, false
}
