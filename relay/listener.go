package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// Listener accepts downstream consumer connections on a TCP port and installs each one
// into the relay's consumer slot, dropping whichever connection was there before.
type Listener struct {
	addr   string
	relay  *Relay
	logger *slog.Logger
}

func NewListener(addr string, relay *Relay) *Listener {
	return &Listener{
		addr:   addr,
		relay:  relay,
		logger: slog.Default().With("component", "relay_listener", "addr", addr),
	}
}

// Run accepts consumer connections until the context is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.addr, err)
	}

	// unblock the Accept call below when the context is cancelled
	go func() {
		<-ctx.Done()
		listener.Close()
		l.relay.Close()
	}()

	l.logger.Info("Listening for telegram consumers")

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			l.logger.Error("Failed to accept consumer", "error", err)
			continue
		}

		l.logger.Info("Consumer connected", "remote_addr", conn.RemoteAddr())
		l.relay.Replace(conn)
	}
}
