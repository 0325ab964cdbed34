package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// -------------------- MIDIWatcher --------------------

// MIDIWatcher monitors available MIDI inputs and keeps a connection to the
// preferred controller. It handles hot-plug (new device appears) and
// hot-unplug (device disappears) transparently.
//
// onMessage is called from the driver's listener goroutine for every message
// while a device is connected. onDisconnect is called (from a goroutine) when
// the active device is lost.
type MIDIWatcher struct {
	mu           sync.Mutex
	drv          *rtmididrv.Driver
	cfg          DeviceConfig
	inPort       drivers.In
	stopFn       func()
	connected    bool
	selectedName string
	lastRescanAt time.Time

	onMessage    func(msg midi.Message)
	onDisconnect func()
}

// NewMIDIWatcher creates a watcher and initialises the underlying rtmidi
// driver. Call Close() when done.
func NewMIDIWatcher(cfg DeviceConfig, onMessage func(midi.Message), onDisconnect func()) (*MIDIWatcher, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &MIDIWatcher{
		drv:          drv,
		cfg:          cfg,
		onMessage:    onMessage,
		onDisconnect: onDisconnect,
	}, nil
}

// Close shuts down the active MIDI connection and the rtmidi driver.
func (m *MIDIWatcher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeConn()
	m.drv.Close()
}

// Tick should be called on a regular interval from the main loop. It scans
// for devices, auto-connects to a preferred one, and detects disappearances.
func (m *MIDIWatcher) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if !m.lastRescanAt.IsZero() && now.Sub(m.lastRescanAt) < m.cfg.Rescan {
		return
	}
	m.lastRescanAt = now

	inputs := m.listInputs()

	if m.connected {
		for _, n := range inputs {
			if n == m.selectedName {
				return
			}
		}
		logger.Warn("midi: device disappeared", "device", m.selectedName)
		m.closeConn()
		m.lastRescanAt = time.Time{} // rescan immediately next tick
		if m.onDisconnect != nil {
			go m.onDisconnect()
		}
		return
	}

	if len(inputs) == 0 {
		return
	}
	cand, ok := pickPreferred(m.cfg.Preferred, inputs)
	if !ok {
		logger.Debug("midi: no preferred device found", "available", strings.Join(inputs, ", "))
		return
	}
	if err := m.openByName(cand); err != nil {
		logger.Error("midi: connect failed", "device", cand, "err", err)
	}
}

// Inputs lists the input ports that are eligible for auto-connection.
func (m *MIDIWatcher) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listInputs()
}

// -------------------- internal --------------------

func (m *MIDIWatcher) listInputs() []string {
	ins, err := m.drv.Ins()
	if err != nil {
		logger.Error("midi: list inputs failed", "err", err)
		return nil
	}
	all := make([]string, len(ins))
	for i, in := range ins {
		all[i] = in.String()
	}
	names := eligibleInputs(m.cfg.Excluded, all)
	logger.Debug("midi: inputs found", "count", len(names), "devices", strings.Join(names, ", "))
	return names
}

// eligibleInputs drops the names matching any excluded pattern.
func eligibleInputs(patterns, names []string) []string {
	var out []string
	for _, name := range names {
		if excluded(patterns, name) {
			logger.Debug("midi: input excluded", "device", name)
			continue
		}
		out = append(out, name)
	}
	return out
}

func excluded(patterns []string, name string) bool {
	for _, pat := range patterns {
		if containsCI(name, pat) {
			return true
		}
	}
	return false
}

// pickPreferred returns the first input matching a pattern, in pattern order.
// A lone input is picked even when nothing matches.
func pickPreferred(patterns, inputs []string) (string, bool) {
	for _, pat := range patterns {
		for _, name := range inputs {
			if containsCI(name, pat) {
				return name, true
			}
		}
	}
	if len(inputs) == 1 {
		return inputs[0], true
	}
	return "", false
}

func (m *MIDIWatcher) closeConn() {
	if m.stopFn != nil {
		m.stopFn()
		m.stopFn = nil
	}
	if m.inPort != nil {
		_ = m.inPort.Close()
		m.inPort = nil
	}
	m.connected = false
	m.selectedName = ""
}

func (m *MIDIWatcher) openByName(name string) error {
	ins, err := m.drv.Ins()
	if err != nil {
		return err
	}
	var found drivers.In
	for _, in := range ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return fmt.Errorf("input %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}

	stop, err := midi.ListenTo(found, func(msg midi.Message, _ int32) {
		logger.Debug("midi: message", "msg", msg.String())
		m.onMessage(msg)
	}, midi.HandleError(func(listenErr error) {
		logger.Warn("midi: listener error", "device", name, "err", listenErr)
		// Must not call closeConn from within the listener goroutine, so
		// we dispatch to a new goroutine and re-acquire the mutex.
		go func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.connected && m.selectedName == name {
				m.closeConn()
				m.lastRescanAt = time.Time{}
				if m.onDisconnect != nil {
					go m.onDisconnect()
				}
			}
		}()
	}))
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("listen %q: %w", name, err)
	}

	m.inPort = found
	m.stopFn = stop
	m.connected = true
	m.selectedName = name
	logger.Info("midi: connected", "device", name)
	return nil
}

// -------------------- utility --------------------

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
