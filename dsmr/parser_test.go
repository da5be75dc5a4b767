package dsmr

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const sampleTelegram = "KFM5KAIFA-METER\r\n" +
	"\r\n" +
	"1-3:0.2.8(42)\r\n" +
	"0-0:1.0.0(170124213128W)\r\n" +
	"0-0:96.1.1(4530303236303030303234343934333135)\r\n" +
	"1-0:1.8.1(000123.456*kWh)\r\n" +
	"1-0:1.8.2(000456.789*kWh)\r\n" +
	"1-0:2.8.1(000321.654*kWh)\r\n" +
	"1-0:2.8.2(000654.987*kWh)\r\n" +
	"1-0:1.7.0(01.193*kW)\r\n" +
	"1-0:2.7.0(00.000*kW)\r\n"

func TestParseTelegram(t *testing.T) {
	metrics, err := ParseMetrics([]byte(sampleTelegram))
	assert.NoError(t, err)

	deviceID := uuid.New()
	now := time.Now()

	reading, err := ToMeterReading(metrics, deviceID, now)
	assert.NoError(t, err)

	assert.Equal(t, deviceID, reading.DeviceID)
	assert.Equal(t, now, reading.Time)
	assert.NotEqual(t, uuid.Nil, reading.ID)

	assert.Equal(t, "170124213128W", reading.Timestamp)
	assert.Equal(t, 123.456, reading.EnergyDeliveredTariff1)
	assert.Equal(t, 456.789, reading.EnergyDeliveredTariff2)
	assert.Equal(t, 321.654, reading.EnergyReturnedTariff1)
	assert.Equal(t, 654.987, reading.EnergyReturnedTariff2)
	assert.Equal(t, 1.193, reading.PowerDelivered)
	assert.Equal(t, 0.0, reading.PowerReturned)

	assert.InDelta(t, 580.245, reading.DeliveredSum(), 1e-9)
	assert.InDelta(t, 976.641, reading.ReturnedSum(), 1e-9)
	assert.InDelta(t, 1.193, reading.NetPower(), 1e-9)
}

func TestParseUnknownLinesIgnored(t *testing.T) {
	raw := "0-0:1.0.0(170124213128W)\r\n" +
		"0-1:24.2.1(170124210000W)(00123.456*m3)\r\n" + // gas channel, not ours
		"1-0:99.97.0(0)(0-0:96.7.19)\r\n"

	metrics, err := ParseMetrics([]byte(raw))
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"Timestamp": "170124213128W"}, metrics)
}

func TestParseMalformedValue(t *testing.T) {
	raw := "0-0:1.0.0(170124213128W)\r\n" +
		"1-0:1.8.1(garbage*kWh)\r\n"

	_, err := ParseMetrics([]byte(raw))
	assert.Error(t, err)
}

func TestParseUnterminatedValue(t *testing.T) {
	_, err := ParseMetrics([]byte("1-0:1.8.1(000123.456*kWh\r\n"))
	assert.Error(t, err)
}

func TestToMeterReadingRequiresTimestamp(t *testing.T) {
	metrics := map[string]interface{}{"PowerDelivered": 1.0}
	_, err := ToMeterReading(metrics, uuid.New(), time.Now())
	assert.Error(t, err)
}
