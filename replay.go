package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chase3718/lispboard/internal/board"
)

// scriptEvent is one line of a replay script:
//
//	- {kind: val, index: 0, value: 3}
//	- {kind: save, index: 0}
type scriptEvent struct {
	Kind  string `yaml:"kind"`
	Index int    `yaml:"index"`
	Value int    `yaml:"value"`
}

type script struct {
	Events []scriptEvent `yaml:"events"`
}

// readScript decodes a YAML event script.
func readScript(r io.Reader) ([]board.Event, error) {
	var s script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	events := make([]board.Event, 0, len(s.Events))
	for i, se := range s.Events {
		k, err := board.ParseEventKind(se.Kind)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, board.Event{Kind: k, Index: se.Index, Value: se.Value})
	}
	return events, nil
}
