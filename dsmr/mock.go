package dsmr

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
)

// MeterMock looks like a Meter but synthesises telegrams instead of reading a serial
// port. Useful for development without a meter attached.
type MeterMock struct {
	Telegrams chan Telegram

	id     uuid.UUID
	logger *slog.Logger

	cycles    int
	delivered float64
	returned  float64
}

func NewMock(id uuid.UUID, otherArgs ...interface{}) (*MeterMock, error) {
	return &MeterMock{
		Telegrams: make(chan Telegram, 4),
		id:        id,
		logger:    slog.Default().With("meter_id", id),
		delivered: 10000,
		returned:  2000,
	}, nil
}

// Run emits one synthetic telegram every `period`. Exits when the context is cancelled.
func (m *MeterMock) Run(ctx context.Context, period time.Duration) error {
	readingTicker := time.NewTicker(period)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-readingTicker.C:

			raw := m.nextTelegram(t)

			metrics, err := ParseMetrics(raw)
			if err != nil {
				m.logger.Error("Failed to parse mock telegram", "error", err)
				continue
			}
			reading, err := ToMeterReading(metrics, m.id, t)
			if err != nil {
				m.logger.Error("Failed to convert mock metrics", "error", err)
				continue
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case m.Telegrams <- Telegram{Raw: raw, Reading: reading}:
			}
		}
	}
}

// nextTelegram renders a telegram with a slowly oscillating power figure and register
// counters that accumulate accordingly. The synthetic text goes through the same parser
// as real telegrams.
func (m *MeterMock) nextTelegram(t time.Time) []byte {
	m.cycles++

	power := 1.2 + math.Sin(float64(m.cycles)/20)*2 // kW, dips below zero periodically
	if power >= 0 {
		m.delivered += power / 3600
	} else {
		m.returned += -power / 3600
	}

	powerDelivered, powerReturned := power, 0.0
	if power < 0 {
		powerDelivered, powerReturned = 0, -power
	}

	text := "MOCK5\\2M550T-MOCK\r\n" +
		"\r\n" +
		fmt.Sprintf("0-0:1.0.0(%sW)\r\n", t.Format("060102150405")) +
		fmt.Sprintf("1-0:1.8.1(%010.3f*kWh)\r\n", m.delivered/2) +
		fmt.Sprintf("1-0:1.8.2(%010.3f*kWh)\r\n", m.delivered/2) +
		fmt.Sprintf("1-0:2.8.1(%010.3f*kWh)\r\n", m.returned/2) +
		fmt.Sprintf("1-0:2.8.2(%010.3f*kWh)\r\n", m.returned/2) +
		fmt.Sprintf("1-0:1.7.0(%06.3f*kW)\r\n", powerDelivered) +
		fmt.Sprintf("1-0:2.7.0(%06.3f*kW)\r\n", powerReturned)

	return []byte(text)
}
