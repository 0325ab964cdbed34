// Package lisp compiles controller records into prefix expressions and
// evaluates them against a table of sixteen named registers.
package lisp

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NumRegisters is the size of the register-name table.
const NumRegisters = 16

var registerNames = [NumRegisters]string{
	"a", "b", "c", "d", "e", "f", "g", "h",
	"i", "j", "k", "l", "m", "n", "o", "p",
}

// RegisterName returns the symbol for register i, or false when i does not
// name a register.
func RegisterName(i int) (string, bool) {
	if i < 0 || i >= NumRegisters {
		return "", false
	}
	return registerNames[i], true
}

// RegisterIndex is the inverse of RegisterName.
func RegisterIndex(name string) (int, bool) {
	for i, n := range registerNames {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Expr is a node of a compiled program: Literal, Register or Call.
type Expr interface {
	// Atoms flattens the node into the display form used by the sinks:
	// the operator symbol followed by literals and register names.
	Atoms() []Atom
	String() string
	expr()
}

// Literal is an integer constant.
type Literal int

// Register refers to the expression bound to register Index.
type Register int

// Call applies the operator named Op to Args.
type Call struct {
	Op   string
	Args []Expr
}

func (Literal) expr()  {}
func (Register) expr() {}
func (*Call) expr()    {}

func (l Literal) Atoms() []Atom  { return []Atom{{Int: int(l)}} }
func (r Register) Atoms() []Atom { return []Atom{{Sym: r.Name(), IsSym: true}} }

func (c *Call) Atoms() []Atom {
	out := make([]Atom, 0, 1+len(c.Args))
	out = append(out, Atom{Sym: c.Op, IsSym: true})
	for _, a := range c.Args {
		out = append(out, a.Atoms()...)
	}
	return out
}

// Name is the register symbol. Indices outside the table render as "?N".
func (r Register) Name() string {
	if n, ok := RegisterName(int(r)); ok {
		return n
	}
	return "?" + strconv.Itoa(int(r))
}

func (l Literal) String() string  { return strconv.Itoa(int(l)) }
func (r Register) String() string { return r.Name() }

func (c *Call) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(c.Op)
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Atom is one element of an expression's flat form. Symbols (operators and
// register names) serialize as JSON strings, integers as numbers.
type Atom struct {
	Sym   string
	Int   int
	IsSym bool
}

func (a Atom) String() string {
	if a.IsSym {
		return a.Sym
	}
	return strconv.Itoa(a.Int)
}

func (a Atom) MarshalJSON() ([]byte, error) {
	if a.IsSym {
		return json.Marshal(a.Sym)
	}
	return json.Marshal(a.Int)
}
