package main

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/chase3718/lispboard/internal/board"
	"github.com/chase3718/lispboard/internal/view"
)

// ControlMap assigns MIDI controls to board inputs: eight opcode faders, eight
// type knobs, eight value knobs (all CC) and sixteen bank-save pads (notes).
type ControlMap struct {
	Channel   int   `yaml:"channel"`
	FaderCC   []int `yaml:"fader_cc"`
	TypeCC    []int `yaml:"type_cc"`
	ValCC     []int `yaml:"val_cc"`
	BankNotes []int `yaml:"bank_notes"`
}

// Launch Control XL factory template: faders CC 77-84, top knob row CC 13-20,
// middle knob row CC 29-36, track focus/control buttons as pads.
func defaultControlMap() ControlMap {
	return ControlMap{
		Channel:   AnyChannel,
		FaderCC:   ccRange(77, board.NumFader),
		TypeCC:    ccRange(13, board.NumArgs),
		ValCC:     ccRange(29, board.NumArgs),
		BankNotes: []int{41, 42, 43, 44, 57, 58, 59, 60, 73, 74, 75, 76, 89, 90, 91, 92},
	}
}

func ccRange(from, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = from + i
	}
	return out
}

func indexOf(list []int, v int) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

// Translate turns one raw MIDI message into a board event. Messages for other
// channels, unmapped controls, note-offs and zero-velocity note-ons are not
// events.
func (m ControlMap) Translate(msg midi.Message) (board.Event, bool) {
	var ch, key, val uint8
	switch {
	case msg.GetControlChange(&ch, &key, &val):
		if !m.accepts(ch) {
			return board.Event{}, false
		}
		cc := int(key)
		if i := indexOf(m.FaderCC, cc); i >= 0 {
			return board.Event{Kind: board.FaderChange, Index: i, Value: int(val)}, true
		}
		if i := indexOf(m.TypeCC, cc); i >= 0 {
			return board.Event{Kind: board.TypeKnobChange, Index: i, Value: int(val)}, true
		}
		if i := indexOf(m.ValCC, cc); i >= 0 {
			return board.Event{Kind: board.ValKnobChange, Index: i, Value: int(val)}, true
		}
		logger.Debug("mapping: unmapped control change", "ch", ch, "cc", cc, "value", val)
	case msg.GetNoteStart(&ch, &key, &val):
		if !m.accepts(ch) {
			return board.Event{}, false
		}
		if i := indexOf(m.BankNotes, int(key)); i >= 0 {
			return board.Event{Kind: board.BankSave, Index: i}, true
		}
		logger.Debug("mapping: unmapped note", "ch", ch, "key", key, "vel", val)
	default:
		logger.Debug("mapping: ignored message", "msg", msg.String())
	}
	return board.Event{}, false
}

func (m ControlMap) accepts(ch uint8) bool {
	return m.Channel == AnyChannel || int(ch) == m.Channel
}

// Layout exposes the CC numbers for the projection's control tables.
func (m ControlMap) Layout() view.Layout {
	var l view.Layout
	copy(l.FaderCC[:], m.FaderCC)
	copy(l.TypeCC[:], m.TypeCC)
	copy(l.ValCC[:], m.ValCC)
	return l
}
