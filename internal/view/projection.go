// Package view computes the per-turn projection handed to output sinks.
package view

import (
	"bytes"
	"encoding/json"

	"github.com/chase3718/lispboard/internal/board"
	"github.com/chase3718/lispboard/internal/lisp"
)

// MainRow is the name of the live record's row.
const MainRow = "main"

// Row is one evaluated expression. Err is empty when evaluation succeeded.
type Row struct {
	Name       string      `json:"-"`
	Expression []lisp.Atom `json:"expression"`
	Result     *int        `json:"result"`
	Err        string      `json:"error,omitempty"`
}

// OK reports whether the row evaluated to a number.
func (r Row) OK() bool { return r.Result != nil }

// ControlRow is one line of a raw control table.
type ControlRow struct {
	CC    int  `json:"cc"`
	Value int  `json:"value"`
	Bit   bool `json:"bit,omitempty"`
}

// Controls is the derived tabular view of the raw controller positions.
type Controls struct {
	Faders []ControlRow `json:"faders"`
	Types  []ControlRow `json:"types"`
	Vals   []ControlRow `json:"vals"`
	Binary string       `json:"binary"`
	Opcode uint8        `json:"opcode"`
}

// Input is the serialized controller state.
type Input struct {
	Main  board.Record                 `json:"main"`
	Banks [board.NumBanks]board.Record `json:"banks"`
}

// Projection is everything a sink needs to redraw after one event.
type Projection struct {
	Seq      uint64
	Input    Input
	Controls Controls
	Rows     Rows
}

// Row returns the row with the given name.
func (p Projection) Row(name string) (Row, bool) {
	for _, r := range p.Rows {
		if r.Name == name {
			return r, true
		}
	}
	return Row{}, false
}

// Layout names the CC numbers of each control bank for the control tables.
type Layout struct {
	FaderCC [board.NumFader]int
	TypeCC  [board.NumArgs]int
	ValCC   [board.NumArgs]int
}

// Compute evaluates main and every bank and assembles the projection. It reads
// the store without mutating it. The machine's register table is rebuilt.
func Compute(s *board.Store, m *lisp.Machine, l Layout) Projection {
	main, banks := s.Main(), s.Banks()
	p := Projection{
		Input:    Input{Main: main, Banks: banks},
		Controls: controls(s, l),
		Rows:     make(Rows, 0, 1+board.NumBanks),
	}

	v, err := m.Run(main, banks)
	p.Rows = append(p.Rows, row(MainRow, lisp.Compile(main), v, err))

	for i := range banks {
		name, _ := lisp.RegisterName(i)
		// Evaluating the reference is the same as evaluating the bound expression.
		v, err := m.Eval(lisp.Register(i))
		p.Rows = append(p.Rows, row(name, lisp.Compile(banks[i]), v, err))
	}
	return p
}

func row(name string, e lisp.Expr, v int, err error) Row {
	r := Row{Name: name, Expression: e.Atoms()}
	if err != nil {
		r.Err = err.Error()
		return r
	}
	r.Result = &v
	return r
}

func controls(s *board.Store, l Layout) Controls {
	bits := s.Bits()
	c := Controls{
		Binary: board.BitString(bits),
		Opcode: s.Main().Op,
	}
	for i, raw := range s.Faders() {
		c.Faders = append(c.Faders, ControlRow{CC: l.FaderCC[i], Value: raw, Bit: bits[i]})
	}
	for i, raw := range s.TypeKnobs() {
		c.Types = append(c.Types, ControlRow{CC: l.TypeCC[i], Value: raw})
	}
	for i, raw := range s.ValKnobs() {
		c.Vals = append(c.Vals, ControlRow{CC: l.ValCC[i], Value: raw})
	}
	return c
}

// Rows keeps main first and registers in index order; it marshals as a JSON
// object whose keys follow that order.
type Rows []Row

func (rs Rows) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StateJSON is the indented dump of the controller state.
func (p Projection) StateJSON() ([]byte, error) {
	return json.MarshalIndent(p.Input, "", "  ")
}

// ResultJSON is the indented name -> {expression, result} mapping.
func (p Projection) ResultJSON() ([]byte, error) {
	b, err := json.Marshal(p.Rows)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
