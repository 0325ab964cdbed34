package lisp

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/chase3718/lispboard/internal/board"
)

func rec(op uint8, args ...board.Argument) board.Record {
	var r board.Record
	r.Op = op
	copy(r.Args[:], args)
	return r
}

func lit(v int) board.Argument { return board.Argument{Kind: board.Literal, Value: v} }
func ref(v int) board.Argument { return board.Argument{Kind: board.Reference, Value: v} }

func flat(e Expr) []string {
	var out []string
	for _, a := range e.Atoms() {
		out = append(out, a.String())
	}
	return out
}

func TestCompile(t *testing.T) {
	got := flat(Compile(rec(0, lit(2), ref(0))))
	want := []string{"+", "2", "a", "0", "0", "0", "0", "0", "0"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Compile = %v, want %v", got, want)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	r := rec(1, ref(15), lit(127), board.Argument{Kind: 9, Value: 3})
	a, b := Compile(r), Compile(r)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("Compile not deterministic: %v vs %v", a, b)
	}
	if a.String() != "(- p 127 3 0 0 0 0 0)" {
		t.Fatalf("String = %s", a)
	}
}

func TestCompileUnknownOpcodeKeepsValue(t *testing.T) {
	c := Compile(rec(200, lit(1), lit(2)))
	if c.Op != "200" {
		t.Fatalf("op = %q, want 200", c.Op)
	}
}

func TestCompileReferenceOutsideTable(t *testing.T) {
	c := Compile(rec(0, ref(40)))
	if got := c.Args[0].String(); got != "?40" {
		t.Fatalf("ref 40 = %q", got)
	}
}

func TestEvalLiteral(t *testing.T) {
	m := NewMachine()
	for _, l := range []int{0, 1, -7, 127, 1 << 20} {
		got, err := m.Eval(Literal(l))
		if err != nil || got != l {
			t.Errorf("Eval(%d) = %d, %v", l, got, err)
		}
	}
}

func TestRunWithRegisterReference(t *testing.T) {
	var banks [board.NumBanks]board.Record
	banks[0] = rec(0, lit(3), lit(1))
	main := rec(0, lit(2), ref(0))

	m := NewMachine()
	got, err := m.Run(main, banks)
	if err != nil {
		t.Fatal(err)
	}
	if got != 6 {
		t.Fatalf("Run = %d, want 6", got)
	}
	if a, _ := m.Bound(0); !reflect.DeepEqual(flat(a)[:3], []string{"+", "3", "1"}) {
		t.Fatalf("register a = %v", flat(a))
	}
}

func TestRunOperatorSelection(t *testing.T) {
	var banks [board.NumBanks]board.Record
	tests := []struct {
		op   uint8
		want int
	}{
		{1, 6},
		{0, 14},
	}
	for _, tt := range tests {
		got, err := NewMachine().Run(rec(tt.op, lit(10), lit(4)), banks)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("op %d: Run = %d, want %d", tt.op, got, tt.want)
		}
	}
}

func TestRunDeepIndirection(t *testing.T) {
	var banks [board.NumBanks]board.Record
	banks[0] = rec(0, lit(1), lit(2))  // a = 3
	banks[1] = rec(0, ref(0), ref(0))  // b = a + a = 6
	banks[2] = rec(1, ref(1), ref(0))  // c = b - a = 3
	banks[3] = rec(0, ref(2), lit(10)) // d = c + 10 = 13
	got, err := NewMachine().Run(rec(0, ref(3), ref(1)), banks)
	if err != nil {
		t.Fatal(err)
	}
	if got != 19 {
		t.Fatalf("Run = %d, want 19", got)
	}
}

func TestRunReloadsBanks(t *testing.T) {
	var banks [board.NumBanks]board.Record
	banks[0] = rec(0, lit(1), lit(1))
	m := NewMachine()
	main := rec(0, ref(0), lit(0))
	if v, _ := m.Run(main, banks); v != 2 {
		t.Fatalf("first run = %d", v)
	}
	banks[0] = rec(0, lit(5), lit(5))
	if v, _ := m.Run(main, banks); v != 10 {
		t.Fatalf("second run = %d, want 10", v)
	}
}

func TestTrailingArgumentsIgnored(t *testing.T) {
	got, err := NewMachine().Eval(&Call{Op: "-", Args: []Expr{Literal(9), Literal(2), Literal(100), Literal(1000)}})
	if err != nil || got != 7 {
		t.Fatalf("Eval = %d, %v; want 7", got, err)
	}
}

func TestUnknownOperator(t *testing.T) {
	m := NewMachine()
	_, err := m.Eval(&Call{Op: "*", Args: []Expr{Literal(2), Literal(3)}})
	if !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("err = %v, want ErrUnknownOperator", err)
	}

	var banks [board.NumBanks]board.Record
	v, err := m.Run(rec(2, lit(1), lit(1)), banks)
	if !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("Run opcode 2: %d, %v", v, err)
	}
}

func TestUnknownOperatorPropagatesThroughRegister(t *testing.T) {
	var banks [board.NumBanks]board.Record
	banks[4] = rec(77, lit(1), lit(1))
	banks[5] = rec(0, ref(4), lit(1))
	_, err := NewMachine().Run(rec(0, ref(5), lit(0)), banks)
	if !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("err = %v", err)
	}
	if want := `in f: in e: "77": unknown operator`; err.Error() != want {
		t.Fatalf("err text = %q, want %q", err.Error(), want)
	}
}

func TestCycleDetected(t *testing.T) {
	var banks [board.NumBanks]board.Record
	banks[0] = rec(0, ref(1), lit(0)) // a -> b
	banks[1] = rec(0, ref(0), lit(0)) // b -> a
	banks[2] = rec(0, ref(2), lit(0)) // c -> c

	m := NewMachine()
	for _, main := range []board.Record{rec(0, ref(0), lit(0)), rec(0, lit(0), ref(2))} {
		_, err := m.Run(main, banks)
		if !errors.Is(err, ErrCycleDetected) {
			t.Errorf("main %v: err = %v, want ErrCycleDetected", Compile(main), err)
		}
	}
}

func TestUnboundRegister(t *testing.T) {
	var banks [board.NumBanks]board.Record
	_, err := NewMachine().Run(rec(0, ref(16), lit(0)), banks)
	if !errors.Is(err, ErrUnboundRegister) {
		t.Fatalf("err = %v", err)
	}
}

func TestArity(t *testing.T) {
	_, err := NewMachine().Eval(&Call{Op: "+", Args: []Expr{Literal(1)}})
	if !errors.Is(err, ErrArity) {
		t.Fatalf("err = %v", err)
	}
}

func TestAtomsJSON(t *testing.T) {
	b, err := json.Marshal(Compile(rec(0, lit(2), ref(0))).Atoms())
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `["+",2,"a",0,0,0,0,0,0]` {
		t.Fatalf("json = %s", got)
	}
}

func TestRegisterNames(t *testing.T) {
	for i := 0; i < NumRegisters; i++ {
		n, ok := RegisterName(i)
		if !ok {
			t.Fatalf("RegisterName(%d) missing", i)
		}
		j, ok := RegisterIndex(n)
		if !ok || j != i {
			t.Fatalf("RegisterIndex(%q) = %d", n, j)
		}
	}
	if n, _ := RegisterName(15); n != "p" {
		t.Fatalf("register 15 = %q", n)
	}
	if _, ok := RegisterName(16); ok {
		t.Fatal("register 16 exists")
	}
}
