// Package startgate is the control firmware for a battery-powered wireless
// sprint-timing start gate: it detects a runner crossing the line, reports
// the event and live telemetry to a paired finish gate over a long-range
// ranging radio, and manages its own power lifecycle.
package startgate

import (
	"github.com/openlaps/startgate/detect"
	"github.com/openlaps/startgate/power"
	"github.com/openlaps/startgate/protocol"
)

// Re-export the types callers normally need.
type (
	Controller  = power.Controller
	Board       = power.Board
	Mode        = power.Mode
	Event       = power.Event
	Status      = power.Status
	DisplayFunc = power.DisplayFunc
	StartEvent  = detect.StartEvent
	Telemetry   = protocol.Telemetry
)

const (
	DeepSleep = power.DeepSleep
	Charging  = power.Charging
	Standby   = power.Standby
	Running   = power.Running
	Pairing   = power.Pairing
	OtaUpdate = power.OtaUpdate
)

// Error constants exposed in the public API.
var (
	ErrTimeout        = protocol.ErrTimeout
	ErrNoModule       = protocol.ErrNoModule
	ErrCommandFailed  = protocol.ErrCommandFailed
	ErrInvalidPayload = protocol.ErrInvalidPayload
)
