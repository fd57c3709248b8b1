package protocol

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Telemetry is the fixed payload periodically sent to the peer gate.
// Layout: Battery(1) | Distance(2, big-endian) | StartAge(4, big-endian, signed)
// The frame travels hex-encoded inside a directed-send command.
type Telemetry struct {
	BatteryPercent uint8
	DistanceCm     uint16 // DistanceUnknown when no valid ranging data exists
	StartAgeMs     int32  // NoPendingStart when no start event awaits reporting
}

// EncodeTelemetry serialises a frame into its on-wire hex text form.
func EncodeTelemetry(t Telemetry) string {
	buf := make([]byte, TelemetrySize)
	buf[0] = t.BatteryPercent
	binary.BigEndian.PutUint16(buf[1:3], t.DistanceCm)
	binary.BigEndian.PutUint32(buf[3:7], uint32(t.StartAgeMs))
	return strings.ToUpper(hex.EncodeToString(buf))
}

// DecodeTelemetry parses the hex text form back into a frame.
// Returns nil for anything malformed.
func DecodeTelemetry(s string) *Telemetry {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) != TelemetrySize {
		return nil
	}
	return &Telemetry{
		BatteryPercent: raw[0],
		DistanceCm:     binary.BigEndian.Uint16(raw[1:3]),
		StartAgeMs:     int32(binary.BigEndian.Uint32(raw[3:7])),
	}
}
