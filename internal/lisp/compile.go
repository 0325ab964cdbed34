package lisp

import (
	"strconv"

	"github.com/chase3718/lispboard/internal/board"
)

// OpSymbol maps an opcode to its operator symbol. Opcodes without a symbol
// are rendered as their decimal value; they compile but cannot be evaluated.
func OpSymbol(op uint8) string {
	if o, ok := opcodes[op]; ok {
		return o.Symbol
	}
	return strconv.Itoa(int(op))
}

// Compile projects a record into a call expression. It never fails and never
// looks at any other record.
func Compile(r board.Record) *Call {
	c := &Call{
		Op:   OpSymbol(r.Op),
		Args: make([]Expr, 0, len(r.Args)),
	}
	for _, a := range r.Args {
		if a.Kind.IsReference() {
			c.Args = append(c.Args, Register(a.Value))
		} else {
			c.Args = append(c.Args, Literal(a.Value))
		}
	}
	return c
}
