package dsmr

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cepro/p1gateway/telemetry"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// obisMetrics maps the OBIS references carried in a P1 telegram onto the metric names
// used in `telemetry.MeterReading`. References not listed here are ignored.
var obisMetrics = map[string]string{
	"0-0:1.0.0": "Timestamp",              // meter clock, YYMMDDhhmmssX
	"1-0:1.8.1": "EnergyDeliveredTariff1", // kWh
	"1-0:1.8.2": "EnergyDeliveredTariff2", // kWh
	"1-0:2.8.1": "EnergyReturnedTariff1",  // kWh
	"1-0:2.8.2": "EnergyReturnedTariff2",  // kWh
	"1-0:1.7.0": "PowerDelivered",         // kW
	"1-0:2.7.0": "PowerReturned",          // kW
}

// ParseMetrics scans the raw payload of one telegram (the bytes between the leading '/'
// and the terminating '!') and extracts the known OBIS values into a map of metrics.
func ParseMetrics(raw []byte) (map[string]interface{}, error) {
	metrics := map[string]interface{}{}

	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")

		open := strings.IndexByte(line, '(')
		if open < 0 {
			continue // identification line, blank line, etc
		}

		name, ok := obisMetrics[line[:open]]
		if !ok {
			continue
		}

		end := strings.IndexByte(line[open:], ')')
		if end < 0 {
			return nil, fmt.Errorf("unterminated value in line %q", line)
		}
		value := line[open+1 : open+end]

		// cosem values carry their unit after a '*', e.g. "000123.456*kWh"
		if star := strings.IndexByte(value, '*'); star >= 0 {
			value = value[:star]
		}

		if name == "Timestamp" {
			metrics[name] = value
			continue
		}

		number, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s value %q: %w", name, value, err)
		}
		metrics[name] = number
	}

	return metrics, nil
}

// ToMeterReading converts the given map of metrics into a concrete
// `telemetry.MeterReading` instance.
func ToMeterReading(metrics map[string]interface{}, deviceID uuid.UUID, t time.Time) (telemetry.MeterReading, error) {
	if _, ok := metrics["Timestamp"]; !ok {
		return telemetry.MeterReading{}, fmt.Errorf("telegram carries no timestamp")
	}

	reading := telemetry.MeterReading{
		ReadingMeta: telemetry.ReadingMeta{
			ID:       uuid.New(),
			DeviceID: deviceID,
			Time:     t,
		},
	}

	err := mapstructure.Decode(metrics, &reading)
	if err != nil {
		return telemetry.MeterReading{}, fmt.Errorf("decode metric map: %w", err)
	}

	return reading, nil
}
