package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/chase3718/lispboard/internal/board"
)

// AnyChannel disables MIDI channel filtering.
const AnyChannel = -1

// Config is the on-disk controller description. Zero fields fall back to the
// Launch Control XL layout.
type Config struct {
	Device   DeviceConfig `yaml:"device"`
	Controls ControlMap   `yaml:"controls"`
	Serial   SerialConfig `yaml:"serial"`
}

// DeviceConfig selects the MIDI input. Devices matching any Preferred pattern
// are picked first; Excluded patterns (virtual/system ports) are never
// auto-connected.
type DeviceConfig struct {
	Preferred []string      `yaml:"preferred"`
	Excluded  []string      `yaml:"excluded"`
	Rescan    time.Duration `yaml:"rescan"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

func defaultConfig() Config {
	return Config{
		Device: DeviceConfig{
			Preferred: []string{"Launch Control XL", "Novation"},
			Excluded:  []string{"Midi Through", "Through Port", "Dummy"},
			Rescan:    time.Second,
		},
		Controls: defaultControlMap(),
		Serial:   SerialConfig{Baud: 115200},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config path %q: %w", path, err)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", p, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", p, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	m := c.Controls
	if len(m.FaderCC) != board.NumFader {
		return fmt.Errorf("controls.fader_cc: want %d entries, got %d", board.NumFader, len(m.FaderCC))
	}
	if len(m.TypeCC) != board.NumArgs {
		return fmt.Errorf("controls.type_cc: want %d entries, got %d", board.NumArgs, len(m.TypeCC))
	}
	if len(m.ValCC) != board.NumArgs {
		return fmt.Errorf("controls.val_cc: want %d entries, got %d", board.NumArgs, len(m.ValCC))
	}
	if len(m.BankNotes) != board.NumBanks {
		return fmt.Errorf("controls.bank_notes: want %d entries, got %d", board.NumBanks, len(m.BankNotes))
	}
	if m.Channel < AnyChannel || m.Channel > 15 {
		return fmt.Errorf("controls.channel: %d is not -1 or 0-15", m.Channel)
	}
	seen := map[int]string{}
	for _, group := range []struct {
		name string
		ccs  []int
	}{{"fader_cc", m.FaderCC}, {"type_cc", m.TypeCC}, {"val_cc", m.ValCC}} {
		for _, cc := range group.ccs {
			if cc < 0 || cc > 127 {
				return fmt.Errorf("controls.%s: CC %d out of range", group.name, cc)
			}
			if prev, dup := seen[cc]; dup {
				return fmt.Errorf("controls.%s: CC %d already used by %s", group.name, cc, prev)
			}
			seen[cc] = group.name
		}
	}
	pads := map[int]int{}
	for i, note := range m.BankNotes {
		if note < 0 || note > 127 {
			return fmt.Errorf("controls.bank_notes: note %d out of range", note)
		}
		if prev, dup := pads[note]; dup {
			return fmt.Errorf("controls.bank_notes: note %d already used by bank %d", note, prev)
		}
		pads[note] = i
	}
	if c.Device.Rescan <= 0 {
		c.Device.Rescan = time.Second
	}
	return nil
}
