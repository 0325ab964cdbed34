package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/chase3718/lispboard/internal/lisp"
	"github.com/chase3718/lispboard/internal/view"
)

// Sink consumes the projection at the end of every turn.
type Sink interface {
	Name() string
	Render(p view.Projection) error
}

// rowColors gives each register its own colour; main is always bold white.
var rowColors = [lisp.NumRegisters][]color.Attribute{
	{color.FgRed}, {color.FgGreen}, {color.FgYellow}, {color.FgBlue},
	{color.FgMagenta}, {color.FgCyan}, {color.FgHiRed}, {color.FgHiGreen},
	{color.FgHiYellow}, {color.FgHiBlue}, {color.FgHiMagenta}, {color.FgHiCyan},
	{color.FgHiWhite}, {color.FgHiBlack}, {color.FgBlack, color.BgWhite}, {color.FgWhite, color.BgBlue},
}

// TerminalSink prints the projection as text. With jsonMode it prints the
// serialized state and the result mapping instead.
type TerminalSink struct {
	w        io.Writer
	jsonMode bool
	controls bool
}

func NewTerminalSink(w io.Writer, jsonMode, controls bool) *TerminalSink {
	return &TerminalSink{w: w, jsonMode: jsonMode, controls: controls}
}

func (t *TerminalSink) Name() string { return "terminal" }

func (t *TerminalSink) Render(p view.Projection) error {
	if t.jsonMode {
		return t.renderJSON(p)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--- turn %d ---\n", p.Seq)
	if t.controls {
		writeControls(&b, p.Controls)
	}
	writeRows(&b, p.Rows)
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *TerminalSink) renderJSON(p view.Projection) error {
	state, err := p.StateJSON()
	if err != nil {
		return err
	}
	res, err := p.ResultJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(t.w, "%s\n%s\n", state, res)
	return err
}

func writeControls(b *strings.Builder, c view.Controls) {
	bold := color.New(color.Bold).SprintFunc()
	b.WriteString(bold("OP faders") + "  ")
	for _, r := range c.Faders {
		bit := 0
		if r.Bit {
			bit = 1
		}
		fmt.Fprintf(b, "CC%d=%d/%d ", r.CC, r.Value, bit)
	}
	fmt.Fprintf(b, "\n  binary %s = decimal %s\n", c.Binary, bold(c.Opcode))
	b.WriteString(bold("type knobs") + " ")
	for _, r := range c.Types {
		fmt.Fprintf(b, "CC%d=%d ", r.CC, r.Value)
	}
	b.WriteString("\n" + bold("val knobs") + "  ")
	for _, r := range c.Vals {
		fmt.Fprintf(b, "CC%d=%d ", r.CC, r.Value)
	}
	b.WriteString("\n")
}

func writeRows(b *strings.Builder, rows view.Rows) {
	red := color.New(color.FgRed).SprintFunc()
	for i, r := range rows {
		name := color.New(color.FgWhite, color.Bold).SprintFunc()
		if i > 0 {
			name = color.New(rowColors[(i-1)%len(rowColors)]...).SprintFunc()
		}
		atoms := make([]string, len(r.Expression))
		for j, a := range r.Expression {
			atoms[j] = a.String()
		}
		result := red("error: " + r.Err)
		if r.OK() {
			result = fmt.Sprint(*r.Result)
		}
		fmt.Fprintf(b, "%s (%s) => %s\n", name(fmt.Sprintf("%-4s", r.Name)), strings.Join(atoms, " "), result)
	}
}
