package main

import (
	"encoding/binary"

	"github.com/chase3718/lispboard/internal/board"
	"github.com/chase3718/lispboard/internal/view"
)

const (
	CmdResultFrame = 0x20
	SOF0           = 0xAA
	SOF1           = 0x55

	// Status bits.
	StatusOK      = 0
	StatusError   = 1 << 0 // main row failed, Result is zero
	StatusClipped = 1 << 1 // an argument value did not fit a byte

	// op + kind/value per arg + status + int32 result + seq
	framePayloadLen = 1 + 2*board.NumArgs + 1 + 4 + 1
)

// Frame is a full-state snapshot of the live record and its result, sent to
// an external display in one bulk transfer.
type Frame struct {
	Op     byte
	Kind   [board.NumArgs]byte
	Value  [board.NumArgs]byte
	Status byte
	Result int32
	Seq    byte
}

// NewFrame takes the main record and main row from a projection.
func NewFrame(p view.Projection) Frame {
	f := Frame{Op: p.Input.Main.Op, Seq: byte(p.Seq)}
	for i, a := range p.Input.Main.Args {
		f.Kind[i] = byte(a.Kind)
		switch {
		case a.Value < 0:
			f.Status |= StatusClipped
		case a.Value > 0xff:
			f.Value[i] = 0xff
			f.Status |= StatusClipped
		default:
			f.Value[i] = byte(a.Value)
		}
	}
	if r, ok := p.Row(view.MainRow); ok && r.OK() {
		f.Result = int32(*r.Result)
	} else {
		f.Status |= StatusError
	}
	return f
}

// Encode builds the on-wire representation:
//
//	[SOF0][SOF1][LEN][CMD][op][kind0 val0 .. kind7 val7][status][result BE32][seq][CKS]
func (f *Frame) Encode() []byte {
	payload := make([]byte, 0, framePayloadLen)
	payload = append(payload, f.Op)
	for i := 0; i < board.NumArgs; i++ {
		payload = append(payload, f.Kind[i], f.Value[i])
	}
	payload = append(payload, f.Status)
	payload = binary.BigEndian.AppendUint32(payload, uint32(f.Result))
	payload = append(payload, f.Seq)

	length := byte(len(payload) + 1) // +1 for CMD byte
	cks := length ^ CmdResultFrame
	for _, b := range payload {
		cks ^= b
	}

	out := []byte{SOF0, SOF1, length, CmdResultFrame}
	out = append(out, payload...)
	out = append(out, cks)
	return out
}
