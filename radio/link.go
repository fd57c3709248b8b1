package radio

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/openlaps/startgate/protocol"
)

// maxPendingLines bounds the queue of response lines awaiting a command
// waiter. Unsolicited chatter beyond this is dropped.
const maxPendingLines = 8

// Link drives the line-oriented command/response protocol to the ranging
// radio module and owns the telemetry exchange with the paired peer.
//
// A Link is confined to the main control loop; it is not safe for
// concurrent use.
type Link struct {
	transport Transport

	now   func() time.Time
	sleep func(time.Duration)

	rxBuf   []byte
	dropEOL bool // inside an over-long line, discarding until newline
	pending []string

	peerAddress string
	paired      bool

	lastDistance  uint16
	lastTelemetry time.Time

	startAt  time.Time
	hasStart bool
}

func New(t Transport) *Link {
	return &Link{
		transport:    t,
		now:          time.Now,
		sleep:        time.Sleep,
		lastDistance: protocol.DistanceUnknown,
	}
}

// SetClock replaces the time source and sleeper, letting tests drive the
// command timeout and telemetry cadence deterministically.
func (l *Link) SetClock(now func() time.Time, sleep func(time.Duration)) {
	l.now = now
	l.sleep = sleep
}

// Poll services the inbound byte stream: distance reports update the
// last-known distance, response lines queue up for a command waiter.
// Never blocks.
func (l *Link) Poll() {
	var buf [64]byte
	for {
		n, err := l.transport.Read(buf[:])
		if n > 0 {
			l.scan(buf[:n])
		}
		if err != nil || n == 0 {
			return
		}
	}
}

func (l *Link) scan(data []byte) {
	for _, b := range data {
		switch {
		case b == '\n':
			line := strings.TrimRight(string(l.rxBuf), "\r")
			l.rxBuf = l.rxBuf[:0]
			l.dropEOL = false
			l.handleLine(line)
		case l.dropEOL:
			// discarding the tail of a truncated line
		case len(l.rxBuf) >= protocol.MaxLineLen:
			l.dropEOL = true
		default:
			l.rxBuf = append(l.rxBuf, b)
		}
	}
}

func (l *Link) handleLine(line string) {
	switch {
	case line == "":
	case strings.HasPrefix(line, protocol.RangeMarker):
		l.parseRange(line)
	case line == protocol.TokenReady:
		log.Debug("radio module reports (re)boot")
	case len(l.pending) < maxPendingLines:
		l.pending = append(l.pending, line)
	}
}

// parseRange extracts the trailing numeric field preceding the unit suffix
// from a distance report. Malformed or out-of-range lines are dropped and
// the last-known distance stays as it was.
func (l *Link) parseRange(line string) {
	body := strings.TrimPrefix(line, protocol.RangeMarker)
	idx := strings.LastIndex(body, protocol.RangeUnit)
	if idx < 0 {
		return
	}
	field := body[:idx]
	if c := strings.LastIndex(field, ","); c >= 0 {
		field = field[c+1:]
	}
	v, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil || v <= 0 || v > protocol.MaxSaneRangeCm {
		return
	}
	l.lastDistance = uint16(v)
}

// SendCommand writes one command line. With expectAck it polls the inbound
// stream until the module acknowledges, rejects, or timeout elapses;
// without, it returns as soon as the line is written (fire and forget).
func (l *Link) SendCommand(cmd string, timeout time.Duration, expectAck bool) error {
	if expectAck {
		// stale chatter from before this command is not a response to it
		l.Poll()
		l.pending = l.pending[:0]
	}
	if _, err := l.transport.Write([]byte(cmd + protocol.LineEnding)); err != nil {
		return err
	}
	if !expectAck {
		return nil
	}
	deadline := l.now().Add(timeout)
	for {
		l.Poll()
		for len(l.pending) > 0 {
			line := l.pending[0]
			l.pending = l.pending[1:]
			if strings.HasPrefix(line, protocol.TokenError) {
				return protocol.ErrCommandFailed
			}
			if strings.HasPrefix(line, protocol.TokenOK) {
				return nil
			}
			// unrelated chatter between command and response
		}
		if !l.now().Before(deadline) {
			return protocol.ErrTimeout
		}
		l.sleep(5 * time.Millisecond)
	}
}

// Sync probes the module after boot or wake: a settle delay, then up to
// SyncAttempts no-op probes. This is the only automatic reconnection logic;
// once in steady state a dead module is simply written into.
func (l *Link) Sync() error {
	l.sleep(protocol.SyncSettleDelay)
	for attempt := 0; attempt < protocol.SyncAttempts; attempt++ {
		if attempt > 0 {
			l.sleep(protocol.SyncProbeDelay)
		}
		if err := l.SendCommand(protocol.CmdProbe, protocol.CommandTimeout, true); err == nil {
			log.WithField("attempt", attempt+1).Debug("radio module answered probe")
			return nil
		}
	}
	return protocol.ErrNoModule
}

// Configure issues the ordered configuration sequence and records the peer
// address for telemetry. Commands are not verified: later ones assume the
// module state set by earlier ones, so the order is fixed.
func (l *Link) Configure(networkID, ownAddress, peerAddress string) {
	for _, cmd := range []string{
		protocol.CmdMode + protocol.RoleTag,
		protocol.CmdNetworkID + networkID,
		protocol.CmdAddress + ownAddress,
		protocol.CmdRSSI + "1",
	} {
		_ = l.SendCommand(cmd, 0, false)
	}
	l.peerAddress = peerAddress
	l.paired = true
	log.WithFields(log.Fields{
		"network": networkID,
		"peer":    peerAddress,
	}).Info("radio link configured")
}

// Unpair drops the peer; telemetry stops until the next Configure.
func (l *Link) Unpair() {
	l.paired = false
	l.peerAddress = ""
}

func (l *Link) Paired() bool { return l.paired }

// DistanceCm returns the last-known distance to the peer, or
// protocol.DistanceUnknown if no valid report has ever arrived.
func (l *Link) DistanceCm() uint16 { return l.lastDistance }

// NoteStart records a start event for the next telemetry frame. A newer
// event replaces an unreported older one.
func (l *Link) NoteStart(at time.Time) {
	l.startAt = at
	l.hasStart = true
}

// MaybeSendTelemetry assembles and transmits one frame when the cadence has
// elapsed. Consuming the pending start age is atomic with frame assembly:
// once included it is cleared and never retransmitted. Non-blocking.
func (l *Link) MaybeSendTelemetry(batteryPercent uint8) {
	if !l.paired {
		return
	}
	now := l.now()
	if !l.lastTelemetry.IsZero() && now.Sub(l.lastTelemetry) < protocol.TelemetryInterval {
		return
	}
	l.lastTelemetry = now

	age := int32(protocol.NoPendingStart)
	if l.hasStart {
		age = int32(now.Sub(l.startAt).Milliseconds())
		if age < 0 {
			age = 0
		}
		l.hasStart = false
	}

	frame := protocol.EncodeTelemetry(protocol.Telemetry{
		BatteryPercent: batteryPercent,
		DistanceCm:     l.lastDistance,
		StartAgeMs:     age,
	})
	cmd := fmt.Sprintf("%s%s,%d,%s", protocol.CmdSend, l.peerAddress, protocol.TelemetrySize, frame)
	if err := l.SendCommand(cmd, 0, false); err != nil {
		log.WithError(err).Debug("telemetry write failed")
	}
}
