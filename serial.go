package main

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/chase3718/lispboard/internal/view"
)

// SerialPort wraps a go.bug.st/serial port and renders each projection as a
// result frame.
type SerialPort struct {
	port serial.Port
	name string
}

// OpenSerial opens the named serial device at the given baud rate.
func OpenSerial(name string, baud int) (*SerialPort, error) {
	mode := &serial.Mode{BaudRate: baud}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	logger.Info("serial: port opened", "device", name, "baud", baud)
	return &SerialPort{port: p, name: name}, nil
}

func (s *SerialPort) Name() string { return "serial:" + s.name }

// Render encodes and writes the result frame for p.
func (s *SerialPort) Render(p view.Projection) error {
	f := NewFrame(p)
	data := f.Encode()
	n, err := s.port.Write(data)
	if err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	logger.Debug("serial: frame sent", "bytes", n, "seq", f.Seq, "status", f.Status, "result", f.Result)
	return nil
}

// Close closes the underlying serial port.
func (s *SerialPort) Close() {
	logger.Info("serial: closing port", "device", s.name)
	_ = s.port.Close()
}
