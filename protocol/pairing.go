package protocol

import (
	"fmt"
	"hash/crc32"
	"strings"
)

// Pairing payloads are flat comma-separated key=value text, carried by the
// external short-range bearer. Fields are located independently so a
// partial payload still yields whatever fields it does carry.
const (
	FieldNetworkID   = "network_id"
	FieldPeerAddress = "peer_address"
	FieldAddress     = "address"
	FieldRole        = "role"
)

// ExtractField returns the value for key in a payload. Each field is looked
// up on its own; surrounding whitespace is tolerated.
func ExtractField(payload, key string) (string, bool) {
	for _, part := range strings.Split(payload, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// AddressInfoPayload is the read-only payload exposed to the pairing bearer.
func AddressInfoPayload(address string) string {
	return fmt.Sprintf("%s=%s,%s=tag", FieldAddress, address, FieldRole)
}

// NetworkConfigPayload builds the network-config write payload a peer sends.
// Used by the simulator and tests; the device itself only parses it.
func NetworkConfigPayload(networkID, peerAddress string) string {
	return fmt.Sprintf("%s=%s,%s=%s", FieldNetworkID, networkID, FieldPeerAddress, peerAddress)
}

// StatusPayload is the status read/notify payload.
func StatusPayload(paired bool, battery int, charging bool, mode string, armed bool, address string) string {
	return fmt.Sprintf("paired=%s,battery=%d,charging=%s,mode=%s,armed=%s,address=%s",
		boolField(paired), battery, boolField(charging), mode, boolField(armed), address)
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// DeriveAddress maps a hardware identifier to this device's radio address:
// four upper-case hex digits, stable across boots.
func DeriveAddress(hardwareID string) string {
	sum := crc32.ChecksumIEEE([]byte(hardwareID))
	return fmt.Sprintf("%04X", uint16(sum))
}
