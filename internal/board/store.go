package board

import (
	"github.com/pkg/errors"
)

// ErrIndexOutOfRange is returned when a control or bank index does not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Store holds the live controller state: the raw control positions, the main
// record derived from them and the sixteen saved banks. It is not safe for
// concurrent use; the event loop owns it.
type Store struct {
	main  Record
	banks [NumBanks]Record

	faders [NumFader]int
	types  [NumArgs]int
	vals   [NumArgs]int
	bits   [NumFader]bool
}

func NewStore() *Store {
	return &Store{}
}

// Reset returns every record and raw control to zero.
func (s *Store) Reset() {
	*s = Store{}
}

// Main returns a copy of the live record.
func (s *Store) Main() Record { return s.main }

// Banks returns a copy of all saved records.
func (s *Store) Banks() [NumBanks]Record { return s.banks }

// Bank returns a copy of one saved record.
func (s *Store) Bank(i int) (Record, error) {
	if i < 0 || i >= NumBanks {
		return Record{}, errors.Wrapf(ErrIndexOutOfRange, "bank %d", i)
	}
	return s.banks[i], nil
}

func (s *Store) Faders() [NumFader]int   { return s.faders }
func (s *Store) TypeKnobs() [NumArgs]int { return s.types }
func (s *Store) ValKnobs() [NumArgs]int  { return s.vals }
func (s *Store) Bits() [NumFader]bool    { return s.bits }

// SetFaderBit sets one opcode bit and recomputes the main operator.
func (s *Store) SetFaderBit(i int, raised bool) error {
	if i < 0 || i >= NumFader {
		return errors.Wrapf(ErrIndexOutOfRange, "fader %d", i)
	}
	s.bits[i] = raised
	s.main.Op = Encode(s.bits)
	return nil
}

func (s *Store) SetArgType(i int, k Kind) error {
	if i < 0 || i >= NumArgs {
		return errors.Wrapf(ErrIndexOutOfRange, "arg %d", i)
	}
	s.main.Args[i].Kind = k
	return nil
}

func (s *Store) SetArgValue(i int, v int) error {
	if i < 0 || i >= NumArgs {
		return errors.Wrapf(ErrIndexOutOfRange, "arg %d", i)
	}
	s.main.Args[i].Value = v
	return nil
}

// SetFader records a raw fader position and updates the matching opcode bit.
func (s *Store) SetFader(i, raw int) error {
	if err := s.SetFaderBit(i, Raised(raw)); err != nil {
		return err
	}
	s.faders[i] = raw
	return nil
}

// SetTypeKnob records a raw type knob position. Only a raw value equal to
// Reference selects a register reference; anything else is a Literal.
func (s *Store) SetTypeKnob(i, raw int) error {
	k := Literal
	if raw == int(Reference) {
		k = Reference
	}
	if err := s.SetArgType(i, k); err != nil {
		return err
	}
	s.types[i] = raw
	return nil
}

func (s *Store) SetValKnob(i, raw int) error {
	if err := s.SetArgValue(i, raw); err != nil {
		return err
	}
	s.vals[i] = raw
	return nil
}

// Snapshot copies the main record into bank i, replacing it.
func (s *Store) Snapshot(i int) error {
	if i < 0 || i >= NumBanks {
		return errors.Wrapf(ErrIndexOutOfRange, "bank %d", i)
	}
	// Record holds only arrays of values, so assignment is a deep copy.
	s.banks[i] = s.main
	return nil
}

// Apply performs the mutation an input event asks for.
func (s *Store) Apply(ev Event) error {
	switch ev.Kind {
	case FaderChange:
		return s.SetFader(ev.Index, ev.Value)
	case TypeKnobChange:
		return s.SetTypeKnob(ev.Index, ev.Value)
	case ValKnobChange:
		return s.SetValKnob(ev.Index, ev.Value)
	case BankSave:
		return s.Snapshot(ev.Index)
	}
	return errors.Errorf("unknown event kind %d", ev.Kind)
}
