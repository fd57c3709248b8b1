package protocol

import "time"

// Serial protocol constants for the ranging radio module. All higher layers
// should depend on this file.
const (
	// Response tokens. OK acknowledges a command, ERROR rejects it, READY
	// is emitted unsolicited when the module (re)boots.
	TokenOK    = "OK"
	TokenError = "ERROR"
	TokenReady = "READY"

	// Commands, one CRLF-terminated line each.
	CmdProbe     = "AT"
	CmdMode      = "AT+MODE="      // device role, see RoleTag
	CmdNetworkID = "AT+NETWORKID=" // shared network identifier, must match the peer
	CmdAddress   = "AT+ADDRESS="   // own address on the network
	CmdRSSI      = "AT+RSSI="      // signal-strength reporting on/off
	CmdSend      = "AT+SEND="      // directed send: address,length,hex payload

	RoleTag = "TAG"

	// Unsolicited distance reports: "+RANGE=<addr>,<n> cm".
	RangeMarker = "+RANGE="
	RangeUnit   = " cm"

	LineEnding = "\r\n"
	MaxLineLen = 128

	// Telemetry frame layout: battery(1) | distance(2 BE) | startAge(4 BE, signed).
	TelemetrySize = 7

	DistanceUnknown = 0xFFFF // distance sentinel: unknown or out of range
	NoPendingStart  = -1     // start-age sentinel: no unreported start event

	// Distance reports outside (0, MaxSaneRangeCm] are discarded.
	MaxSaneRangeCm = 5000
)

// Timing. Command timeouts apply only during sync and configuration; the
// steady-state telemetry path never blocks.
const (
	TelemetryInterval = 300 * time.Millisecond
	SyncSettleDelay   = 300 * time.Millisecond
	SyncProbeDelay    = 200 * time.Millisecond
	SyncAttempts      = 5
	CommandTimeout    = 500 * time.Millisecond
)
