package relay

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Relay forwards raw telegrams to at most one downstream consumer.
//
// The consumer slot holds a single connection: installing a new one closes the previous
// occupant before it is replaced, so a downstream client can always reconnect and take
// over. Write failures are dropped silently - the only recovery path is the arrival of
// a new consumer.
//
// The slot is touched from two goroutines (the accept loop and the telegram dispatch
// loop), so all access goes through the mutex.
type Relay struct {
	mu       sync.Mutex
	consumer net.Conn

	consumerTimeout time.Duration
	logger          *slog.Logger
}

// New returns a Relay with an empty consumer slot. `consumerTimeout` is the read/idle
// deadline applied to each newly installed consumer connection.
func New(consumerTimeout time.Duration) *Relay {
	return &Relay{
		consumerTimeout: consumerTimeout,
		logger:          slog.Default().With("component", "relay"),
	}
}

// Replace installs `conn` as the active consumer. Any previous consumer is closed first,
// unconditionally.
func (r *Relay) Replace(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.consumer != nil {
		r.logger.Info("Dropping previous consumer", "remote_addr", r.consumer.RemoteAddr())
		r.consumer.Close()
	}

	if conn != nil && r.consumerTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(r.consumerTimeout))
	}
	r.consumer = conn
}

// Send frames the given raw telegram and writes it to the attached consumer. It is a
// no-op when no consumer is attached, and write errors are ignored: there is no retry
// and no reconnection attempt here.
func (r *Relay) Send(raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.consumer == nil {
		return
	}

	_, err := r.consumer.Write(Frame(raw))
	if err != nil {
		r.logger.Debug("Failed to write to consumer", "error", err)
	}
}

// Close closes and empties the consumer slot.
func (r *Relay) Close() {
	r.Replace(nil)
}

// Frame returns the wire encoding of a raw telegram:
//
//	'/' + raw + '!' + HHHH + CR LF + 0x00
//
// where HHHH is the checksum as four uppercase hex digits. This framing must be
// reproduced bit-for-bit, it is what downstream P1 readers expect.
func Frame(raw []byte) []byte {
	framed := make([]byte, 0, len(raw)+9)
	framed = append(framed, '/')
	framed = append(framed, raw...)
	framed = append(framed, '!')
	framed = append(framed, fmt.Sprintf("%04X", Checksum(raw))...)
	framed = append(framed, '\r', '\n', 0x00)
	return framed
}
