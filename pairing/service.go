// Package pairing manages the peer relationship: it receives the peer's
// network identity over the external short-range bearer, persists it, and
// reconfigures the radio link.
package pairing

import (
	log "github.com/sirupsen/logrus"

	"github.com/openlaps/startgate/protocol"
	"github.com/openlaps/startgate/radio"
	"github.com/openlaps/startgate/store"
)

// Persisted keys.
const (
	keyPaired      = "paired"
	keyNetworkID   = "peerNetworkId"
	keyPeerAddress = "peerAddress"
)

// Record is the durable pairing state. Usable for link configuration only
// when Paired; the string fields can independently be empty after a
// partial write.
type Record struct {
	Paired      bool
	NetworkID   string
	PeerAddress string
}

// Service owns the pairing record. All mutating methods must be called
// from the main control loop; bearer callbacks go through the controller's
// request queue instead of calling in directly.
type Service struct {
	store   store.Store
	link    *radio.Link
	address string
	record  Record
}

// New loads the persisted record. Called once at boot, before the link is
// configured, since configuration depends on pairing state.
func New(st store.Store, link *radio.Link, address string) *Service {
	return &Service{
		store:   st,
		link:    link,
		address: address,
		record: Record{
			Paired:      st.GetBool(keyPaired, false),
			NetworkID:   st.GetString(keyNetworkID, ""),
			PeerAddress: st.GetString(keyPeerAddress, ""),
		},
	}
}

// Address returns this device's own radio address.
func (s *Service) Address() string { return s.address }

// Record returns a copy of the current pairing state.
func (s *Service) Record() Record { return s.record }

// ConfigureLink pushes the persisted pairing state into the radio link
// after module sync. A no-op while unpaired.
func (s *Service) ConfigureLink() {
	if !s.record.Paired {
		return
	}
	s.link.Configure(s.record.NetworkID, s.address, s.record.PeerAddress)
}

// ApplyNetworkConfig consumes a network-config write from the bearer. Each
// field is extracted independently; a missing field leaves the current
// value unchanged. Any write marks the record paired, even a partial one —
// this matches the deployed peer app and is deliberately preserved (see
// DESIGN.md).
func (s *Service) ApplyNetworkConfig(payload string) {
	if v, ok := protocol.ExtractField(payload, protocol.FieldNetworkID); ok {
		s.record.NetworkID = v
	}
	if v, ok := protocol.ExtractField(payload, protocol.FieldPeerAddress); ok {
		s.record.PeerAddress = v
	}
	s.record.Paired = true
	s.persist()
	s.link.Configure(s.record.NetworkID, s.address, s.record.PeerAddress)
	log.WithFields(log.Fields{
		"network": s.record.NetworkID,
		"peer":    s.record.PeerAddress,
	}).Info("pairing updated")
}

// Unpair clears the in-memory record and erases the persisted fields. The
// peer is not notified.
func (s *Service) Unpair() {
	s.record = Record{}
	for _, key := range []string{keyPaired, keyNetworkID, keyPeerAddress} {
		if err := s.store.Remove(key); err != nil {
			log.WithError(err).WithField("key", key).Error("failed to erase pairing key")
		}
	}
	s.link.Unpair()
	log.Info("unpaired")
}

func (s *Service) persist() {
	if err := s.store.SetBool(keyPaired, s.record.Paired); err != nil {
		log.WithError(err).Error("failed to persist paired flag")
	}
	if err := s.store.SetString(keyNetworkID, s.record.NetworkID); err != nil {
		log.WithError(err).Error("failed to persist network id")
	}
	if err := s.store.SetString(keyPeerAddress, s.record.PeerAddress); err != nil {
		log.WithError(err).Error("failed to persist peer address")
	}
}
