package dsmr

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cepro/p1gateway/serial"
	"github.com/cepro/p1gateway/telemetry"
	"github.com/google/uuid"
)

// maxTelegramSize bounds the accumulation buffer; a telegram larger than this means we
// missed the terminator and should resynchronise on the next '/' line.
const maxTelegramSize = 4096

// Telegram couples the raw bytes of one P1 telegram with its parsed reading. Raw is the
// payload between the leading '/' and the terminating '!' line, both excluded.
type Telegram struct {
	Raw     []byte
	Reading telemetry.MeterReading
}

// Meter reads P1 telegrams from the smart meter's serial port.
//
// Telegrams are parsed as they arrive and sent onto the `Telegrams` channel. Telegrams
// that fail to parse are logged and dropped here, so consumers only ever see valid
// readings.
type Meter struct {
	Telegrams chan Telegram

	id     uuid.UUID
	port   *serial.Port
	logger *slog.Logger
}

func New(id uuid.UUID, address string, baudRate int) (*Meter, error) {

	port, err := serial.Open(address, baudRate)
	if err != nil {
		return nil, fmt.Errorf("open serial port: %w", err)
	}

	return &Meter{
		Telegrams: make(chan Telegram, 4),
		id:        id,
		port:      port,
		logger:    slog.Default().With("meter_id", id, "address", address),
	}, nil
}

// Run loops forever reading telegrams from the port. Exits when the context is cancelled.
func (m *Meter) Run(ctx context.Context) error {
	defer m.port.Close()

	reader := bufio.NewReader(m.port)
	frames := &assembler{}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			m.logger.Debug("Serial read failed", "error", err)
			// the port re-opens itself on the next read; don't spin while it is gone
			time.Sleep(time.Second)
			continue
		}

		raw := frames.Feed(line)
		if raw != nil {
			m.emit(ctx, raw)
		}
	}
}

// emit parses the accumulated raw telegram and, if valid, sends it onto the Telegrams channel.
func (m *Meter) emit(ctx context.Context, raw []byte) {

	metrics, err := ParseMetrics(raw)
	if err != nil {
		m.logger.Error("Failed to parse telegram", "error", err)
		return
	}

	reading, err := ToMeterReading(metrics, m.id, time.Now())
	if err != nil {
		m.logger.Error("Failed to convert metrics", "error", err)
		return
	}

	rawCopy := make([]byte, len(raw))
	copy(rawCopy, raw)

	select {
	case <-ctx.Done():
	case m.Telegrams <- Telegram{Raw: rawCopy, Reading: reading}:
	}
}
