package board

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for n := 0; n < 256; n++ {
		op := uint8(n)
		if got := Encode(Decode(op)); got != op {
			t.Fatalf("Encode(Decode(%d)) = %d", op, got)
		}
	}
}

func TestEncodeBitOrder(t *testing.T) {
	tests := []struct {
		bits [NumFader]bool
		want uint8
	}{
		{[NumFader]bool{}, 0},
		{[NumFader]bool{true}, 128},
		{[NumFader]bool{7: true}, 1},
		{[NumFader]bool{6: true}, 2},
		{[NumFader]bool{true, false, false, false, false, false, false, true}, 129},
		{[NumFader]bool{true, true, true, true, true, true, true, true}, 255},
	}
	for _, tt := range tests {
		if got := Encode(tt.bits); got != tt.want {
			t.Errorf("Encode(%s) = %d, want %d", BitString(tt.bits), got, tt.want)
		}
	}
}

func TestRaisedThreshold(t *testing.T) {
	tests := map[int]bool{0: false, 63: false, 64: true, 127: true}
	for raw, want := range tests {
		if got := Raised(raw); got != want {
			t.Errorf("Raised(%d) = %v, want %v", raw, got, want)
		}
	}
}

func TestFaderRoundTripThroughRawValues(t *testing.T) {
	// Drive the store with raw positions derived from the same threshold rule.
	for n := 0; n < 256; n++ {
		s := NewStore()
		for i, on := range Decode(uint8(n)) {
			raw := 0
			if on {
				raw = 127
			}
			if err := s.SetFader(i, raw); err != nil {
				t.Fatalf("SetFader: %v", err)
			}
		}
		if got := s.Main().Op; got != uint8(n) {
			t.Fatalf("opcode = %d, want %d", got, n)
		}
	}
}

func TestSetFaderBitLeavesBanks(t *testing.T) {
	s := NewStore()
	if err := s.Snapshot(0); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFaderBit(7, true); err != nil {
		t.Fatal(err)
	}
	if s.Main().Op != 1 {
		t.Fatalf("main op = %d, want 1", s.Main().Op)
	}
	b, _ := s.Bank(0)
	if b.Op != 0 {
		t.Fatalf("bank op changed to %d", b.Op)
	}
}

func TestArgSettersLastWriteWins(t *testing.T) {
	s := NewStore()
	_ = s.SetArgValue(2, 5)
	_ = s.SetArgValue(2, 9)
	_ = s.SetArgType(2, Reference)
	_ = s.SetArgType(2, Reference)
	got := s.Main().Args[2]
	if got.Value != 9 || got.Kind != Reference {
		t.Fatalf("arg 2 = %+v", got)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	_ = s.SetArgValue(0, 11)
	if err := s.Snapshot(3); err != nil {
		t.Fatal(err)
	}
	_ = s.SetArgValue(0, 99)
	_ = s.SetArgType(0, Reference)
	_ = s.SetFaderBit(0, true)

	b, err := s.Bank(3)
	if err != nil {
		t.Fatal(err)
	}
	if b.Args[0].Value != 11 || b.Args[0].Kind != Literal || b.Op != 0 {
		t.Fatalf("bank 3 changed after snapshot: %+v", b)
	}
}

func TestSnapshotReplacesBank(t *testing.T) {
	s := NewStore()
	_ = s.SetArgValue(1, 4)
	_ = s.Snapshot(5)
	_ = s.SetArgValue(1, 0)
	_ = s.Snapshot(5)
	b, _ := s.Bank(5)
	if b.Args[1].Value != 0 {
		t.Fatalf("bank 5 arg 1 = %d, want 0", b.Args[1].Value)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	s := NewStore()
	checks := []error{
		s.SetFaderBit(8, true),
		s.SetArgType(-1, Literal),
		s.SetArgValue(8, 1),
		s.Snapshot(16),
		s.Apply(Event{Kind: ValKnobChange, Index: 9, Value: 3}),
	}
	for i, err := range checks {
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("check %d: err = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if _, err := s.Bank(16); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Bank(16) err = %v", err)
	}
}

func TestApplyEvents(t *testing.T) {
	s := NewStore()
	events := []Event{
		{Kind: FaderChange, Index: 7, Value: 100},
		{Kind: TypeKnobChange, Index: 1, Value: 1},
		{Kind: ValKnobChange, Index: 1, Value: 2},
		{Kind: ValKnobChange, Index: 0, Value: 10},
		{Kind: BankSave, Index: 15},
		{Kind: FaderChange, Index: 7, Value: 10},
	}
	for _, ev := range events {
		if err := s.Apply(ev); err != nil {
			t.Fatalf("Apply(%s): %v", ev, err)
		}
	}
	b, _ := s.Bank(15)
	if b.Op != 1 {
		t.Errorf("bank op = %d, want 1", b.Op)
	}
	if b.Args[1] != (Argument{Kind: Reference, Value: 2}) {
		t.Errorf("bank arg 1 = %+v", b.Args[1])
	}
	if s.Main().Op != 0 {
		t.Errorf("main op = %d, want 0", s.Main().Op)
	}
	if s.Faders()[7] != 10 || s.ValKnobs()[0] != 10 || s.TypeKnobs()[1] != 1 {
		t.Errorf("raw controls not recorded: %v %v %v", s.Faders(), s.TypeKnobs(), s.ValKnobs())
	}
	if err := s.Apply(Event{Kind: 42}); err == nil {
		t.Errorf("expected error for unknown event kind")
	}
}

func TestUndefinedKindIsNotReference(t *testing.T) {
	tests := []struct {
		raw  int
		want Kind
	}{
		{0, Literal},
		{1, Reference},
		{2, Literal},
		{77, Literal},
		{256, Literal},
		{257, Literal},
		{-1, Literal},
		{-255, Literal},
	}
	for _, tt := range tests {
		s := NewStore()
		if err := s.SetTypeKnob(0, tt.raw); err != nil {
			t.Fatal(err)
		}
		if got := s.Main().Args[0].Kind; got != tt.want {
			t.Errorf("raw %d: kind = %v, want %v", tt.raw, got, tt.want)
		}
		if s.TypeKnobs()[0] != tt.raw {
			t.Errorf("raw %d: stored type knob = %d", tt.raw, s.TypeKnobs()[0])
		}
	}
}

func TestReset(t *testing.T) {
	s := NewStore()
	_ = s.SetFader(0, 127)
	_ = s.SetValKnob(3, 8)
	_ = s.Snapshot(2)
	s.Reset()
	if s.Main() != (Record{}) || s.Banks() != [NumBanks]Record{} || s.Faders() != [NumFader]int{} {
		t.Fatal("Reset left state behind")
	}
}

func TestParseEventKind(t *testing.T) {
	for _, k := range []EventKind{FaderChange, TypeKnobChange, ValKnobChange, BankSave} {
		got, err := ParseEventKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseEventKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseEventKind("knob"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
