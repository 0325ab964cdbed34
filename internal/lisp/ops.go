package lisp

// Operator is a named function with a fixed arity. Only the first Arity
// evaluated arguments are passed to Fn.
type Operator struct {
	Symbol string
	Arity  int
	Fn     func(args []int) int
}

var (
	opAdd = Operator{Symbol: "+", Arity: 2, Fn: func(a []int) int { return a[0] + a[1] }}
	opSub = Operator{Symbol: "-", Arity: 2, Fn: func(a []int) int { return a[0] - a[1] }}
)

// opcodes is the fader-selectable operator table.
var opcodes = map[uint8]Operator{
	0: opAdd,
	1: opSub,
}

var library = func() map[string]Operator {
	m := make(map[string]Operator, len(opcodes))
	for _, o := range opcodes {
		m[o.Symbol] = o
	}
	return m
}()

// LookupOperator finds an operator by symbol.
func LookupOperator(sym string) (Operator, bool) {
	o, ok := library[sym]
	return o, ok
}
