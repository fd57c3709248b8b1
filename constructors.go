package startgate

import (
	"github.com/openlaps/startgate/driver/serialport"
	"github.com/openlaps/startgate/driver/sim"
	"github.com/openlaps/startgate/power"
	"github.com/openlaps/startgate/radio"
	"github.com/openlaps/startgate/store"
)

// NewSimGate wires a controller against simulated hardware with a volatile
// store. The returned board and transport are the scripting handles.
func NewSimGate() (*power.Controller, *sim.Board, *sim.Transport) {
	board := sim.NewBoard()
	tr := sim.NewTransport()
	ctrl := power.New(board, radio.New(tr), store.NewMemory())
	return ctrl, board, tr
}

// NewSerialGate wires a controller for real hardware: a serial ranging
// module and a file-backed store. The board comes from the target's
// bring-up package.
func NewSerialGate(board power.Board, device string, baud int, storePath string) (*power.Controller, error) {
	tr, err := serialport.Open(device, baud)
	if err != nil {
		return nil, err
	}
	st, err := store.NewFile(storePath, "startgate")
	if err != nil {
		return nil, err
	}
	return power.New(board, radio.New(tr), st), nil
}
