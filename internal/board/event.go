package board

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type EventKind int

const (
	FaderChange EventKind = iota + 1
	TypeKnobChange
	ValKnobChange
	BankSave
)

var eventKindNames = map[EventKind]string{
	FaderChange:    "fader",
	TypeKnobChange: "type",
	ValKnobChange:  "val",
	BankSave:       "save",
}

func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind accepts the names produced by String.
func ParseEventKind(s string) (EventKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range eventKindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, errors.Errorf("unknown event kind %q (expected fader|type|val|save)", s)
}

// Event is one normalized controller input. Index is the fader/knob index
// (0-7) or the bank index (0-15); Value is the raw 0-127 position and is
// unused for BankSave.
type Event struct {
	Kind  EventKind
	Index int
	Value int
}

func (e Event) String() string {
	if e.Kind == BankSave {
		return fmt.Sprintf("%s[%d]", e.Kind, e.Index)
	}
	return fmt.Sprintf("%s[%d]=%d", e.Kind, e.Index, e.Value)
}
