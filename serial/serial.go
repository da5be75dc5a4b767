package serial

import (
	"fmt"
	"log/slog"
	"time"

	goserial "github.com/goburrow/serial"
)

const readTimeout = 15 * time.Second

// Port provides an interface onto the meter's P1 serial port.
// It hides the underlying open source serial library and adds reconnection logic.
type Port struct {
	address  string
	baudRate int

	subPort         goserial.Port // the raw port of the underlying serial library we are using
	shouldReconnect bool          // when true, the subPort is 'dirty' and will be re-opened next time a read call is made
	logger          *slog.Logger
}

func Open(address string, baudRate int) (*Port, error) {
	port := &Port{
		address:  address,
		baudRate: baudRate,
		// shouldReconnect is marked as true from instantiation so the port will be
		// opened lazily on the first read
		shouldReconnect: true,
		logger:          slog.Default().With("address", address),
	}

	return port, nil
}

// Read reads up to len(buf) bytes from the port, re-opening it first if a previous call
// hit an error.
func (p *Port) Read(buf []byte) (int, error) {
	err := p.reconnectIfNeccesary()
	if err != nil {
		return 0, fmt.Errorf("reconnect serial port: %w", err)
	}

	n, err := p.subPort.Read(buf)
	if err != nil {
		p.setShouldReconnect()
		return n, err
	}
	return n, nil
}

func (p *Port) Close() error {
	if p.subPort == nil {
		return nil
	}
	return p.subPort.Close()
}

// createSubPort opens the open-source serial library port with the P1 line settings.
func (p *Port) createSubPort() error {
	subPort, err := goserial.Open(&goserial.Config{
		Address:  p.address,
		BaudRate: p.baudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  readTimeout,
	})
	if err != nil {
		return fmt.Errorf("open serial port: %w", err)
	}

	p.subPort = subPort

	return nil
}

// setShouldReconnect is called when there has been an error on the port that should trigger a re-open.
func (p *Port) setShouldReconnect() {
	p.shouldReconnect = true
}

// reconnectIfNeccesary will close the old port and re-open if there have been problems with it.
func (p *Port) reconnectIfNeccesary() error {
	if !p.shouldReconnect {
		return nil
	}

	if p.subPort != nil {
		p.subPort.Close()
		p.subPort = nil
	}

	err := p.createSubPort()
	if err != nil {
		return err
	}

	p.shouldReconnect = false

	p.logger.Info("Opened serial port")

	return nil
}
