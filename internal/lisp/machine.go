package lisp

import (
	"github.com/pkg/errors"

	"github.com/chase3718/lispboard/internal/board"
)

var (
	// ErrUnknownOperator is returned when a call's head has no bound function.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrUnboundRegister is returned for a reference outside the register table.
	ErrUnboundRegister = errors.New("unbound register")
	// ErrCycleDetected is returned when a register is re-entered while it is
	// still being evaluated.
	ErrCycleDetected = errors.New("register cycle")
	// ErrArity is returned when a call has fewer arguments than its operator needs.
	ErrArity = errors.New("too few arguments")
)

// Machine owns the register table. The table is rebuilt wholesale by
// LoadBanks; a Machine is not safe for concurrent use.
type Machine struct {
	regs [NumRegisters]Expr

	// registers currently on the evaluation stack
	active [NumRegisters]bool
}

func NewMachine() *Machine {
	return &Machine{}
}

// LoadBanks compiles every bank and binds it to the register of the same
// index, replacing the previous table.
func (m *Machine) LoadBanks(banks [board.NumBanks]board.Record) {
	for i, b := range banks {
		m.regs[i] = Compile(b)
	}
	m.active = [NumRegisters]bool{}
}

// Bound returns the expression bound to register i.
func (m *Machine) Bound(i int) (Expr, bool) {
	if i < 0 || i >= NumRegisters || m.regs[i] == nil {
		return nil, false
	}
	return m.regs[i], true
}

// Eval evaluates e, resolving register references through the table.
func (m *Machine) Eval(e Expr) (int, error) {
	switch e := e.(type) {
	case Literal:
		return int(e), nil
	case Register:
		return m.evalRegister(e)
	case *Call:
		return m.evalCall(e)
	}
	return 0, errors.Errorf("unexpected expression %T", e)
}

func (m *Machine) evalRegister(r Register) (int, error) {
	i := int(r)
	bound, ok := m.Bound(i)
	if !ok {
		return 0, errors.Wrapf(ErrUnboundRegister, "%s", r.Name())
	}
	if m.active[i] {
		return 0, errors.Wrapf(ErrCycleDetected, "%s", r.Name())
	}
	m.active[i] = true
	v, err := m.Eval(bound)
	m.active[i] = false
	if err != nil {
		return 0, errors.Wrapf(err, "in %s", r.Name())
	}
	return v, nil
}

func (m *Machine) evalCall(c *Call) (int, error) {
	op, ok := LookupOperator(c.Op)
	if !ok {
		return 0, errors.Wrapf(ErrUnknownOperator, "%q", c.Op)
	}
	vals := make([]int, 0, len(c.Args))
	for _, a := range c.Args {
		v, err := m.Eval(a)
		if err != nil {
			return 0, err
		}
		vals = append(vals, v)
	}
	if len(vals) < op.Arity {
		return 0, errors.Wrapf(ErrArity, "%s wants %d, got %d", op.Symbol, op.Arity, len(vals))
	}
	return op.Fn(vals[:op.Arity]), nil
}

// Run loads the banks, compiles main and evaluates it. The banks are reloaded
// on every call.
func (m *Machine) Run(main board.Record, banks [board.NumBanks]board.Record) (int, error) {
	m.LoadBanks(banks)
	return m.Eval(Compile(main))
}
