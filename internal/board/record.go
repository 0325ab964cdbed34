package board

const (
	NumArgs  = 8
	NumBanks = 16
	NumFader = 8

	// FaderThreshold splits the 0-127 fader travel into a low and a raised half.
	FaderThreshold = 64
)

// Kind discriminates how an argument's value is read. Raw knob positions are
// stored verbatim, so values other than Literal and Reference do occur.
type Kind uint8

const (
	Literal Kind = iota
	Reference
)

// IsReference reports whether the argument names a register. Anything outside
// the defined kinds falls back to literal.
func (k Kind) IsReference() bool { return k == Reference }

func (k Kind) String() string {
	switch k {
	case Literal:
		return "int"
	case Reference:
		return "ref"
	}
	return "int?"
}

type Argument struct {
	Kind  Kind `json:"type"`
	Value int  `json:"val"`
}

// Record is one opcode plus its eight typed arguments. Arrays keep copies
// value-typed: assigning a Record never aliases its arguments.
type Record struct {
	Op   uint8             `json:"op"`
	Args [NumArgs]Argument `json:"args"`
}
