// Package serialport provides the radio transport over a real UART.
package serialport

import (
	"time"

	"go.bug.st/serial"
)

// Port adapts a serial device to the radio transport contract. The read
// timeout is kept short so Read conforms to the link's non-blocking poll
// semantics.
type Port struct {
	port serial.Port
}

func Open(device string, baud int) (*Port, error) {
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(time.Millisecond); err != nil {
		_ = p.Close()
		return nil, err
	}
	return &Port{port: p}, nil
}

func (p *Port) Read(b []byte) (int, error)  { return p.port.Read(b) }
func (p *Port) Write(b []byte) (int, error) { return p.port.Write(b) }
func (p *Port) Close() error                { return p.port.Close() }
