// Package sim provides simulated hardware for host-side testing: a
// byte-stream transport standing in for the radio module UART and a
// scriptable board.
package sim

import (
	"bytes"
	"strings"
	"sync"

	"github.com/openlaps/startgate/protocol"
)

// rxLimit bounds the inbound buffer so a silent consumer cannot grow it
// without bound.
const rxLimit = 4096

// Transport is an in-memory radio transport. Inject inbound bytes with
// InjectRx/InjectLine, inspect outbound traffic with TxString/TxLines, or
// install a Responder to script the module side.
type Transport struct {
	mu   sync.Mutex
	rx   bytes.Buffer
	tx   bytes.Buffer
	line []byte
	peer *Transport

	// Responder, when set, is invoked per complete outbound line; returned
	// lines are injected back as responses.
	Responder func(line string) []string
}

func NewTransport() *Transport { return &Transport{} }

// Link cross-connects two transports so each one's writes become the
// other's reads.
func Link(a, b *Transport) {
	a.mu.Lock()
	a.peer = b
	a.mu.Unlock()
	b.mu.Lock()
	b.peer = a
	b.mu.Unlock()
}

func (t *Transport) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rx.Len() == 0 {
		return 0, nil
	}
	return t.rx.Read(p)
}

func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	t.tx.Write(p)
	responder := t.Responder
	peer := t.peer
	var lines []string
	if responder != nil {
		for _, b := range p {
			if b == '\n' {
				lines = append(lines, strings.TrimRight(string(t.line), "\r"))
				t.line = t.line[:0]
			} else {
				t.line = append(t.line, b)
			}
		}
	}
	t.mu.Unlock()

	if peer != nil {
		peer.InjectRx(p)
	}
	for _, line := range lines {
		for _, resp := range responder(line) {
			t.InjectLine(resp)
		}
	}
	return len(p), nil
}

// InjectRx queues inbound bytes. The oldest data is discarded when the
// buffer is full.
func (t *Transport) InjectRx(p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rx.Len()+len(p) > rxLimit {
		t.rx.Reset()
	}
	t.rx.Write(p)
}

// InjectLine queues one inbound line, CRLF-terminated.
func (t *Transport) InjectLine(line string) {
	t.InjectRx([]byte(line + protocol.LineEnding))
}

// TxString returns everything written so far.
func (t *Transport) TxString() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tx.String()
}

// TxLines splits outbound traffic into complete lines.
func (t *Transport) TxLines() []string {
	raw := t.TxString()
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimRight(l, "\r")
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// ClearTx discards the outbound log.
func (t *Transport) ClearTx() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tx.Reset()
}
