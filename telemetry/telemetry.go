package telemetry

import (
	"time"

	"github.com/google/uuid"
)

// ReadingMeta holds the identity fields that are common to all readings.
type ReadingMeta struct {
	ID       uuid.UUID
	DeviceID uuid.UUID
	Time     time.Time
}

// MeterReading holds the fields parsed from one P1 telegram.
//
// The cumulative energy registers are maintained by the meter itself and only ever
// increase. `Timestamp` is the meter's own clock as printed in the telegram
// (YYMMDDhhmmssX), which can differ from `Time` (the gateway receive time).
type MeterReading struct {
	ReadingMeta `mapstructure:",squash"`

	Timestamp string

	EnergyDeliveredTariff1 float64 // kWh
	EnergyDeliveredTariff2 float64 // kWh
	EnergyReturnedTariff1  float64 // kWh
	EnergyReturnedTariff2  float64 // kWh

	PowerDelivered float64 // kW
	PowerReturned  float64 // kW
}

// DeliveredSum returns the cumulative energy imported from the grid, summed across both tariffs.
func (r *MeterReading) DeliveredSum() float64 {
	return r.EnergyDeliveredTariff1 + r.EnergyDeliveredTariff2
}

// ReturnedSum returns the cumulative energy exported to the grid, summed across both tariffs.
func (r *MeterReading) ReturnedSum() float64 {
	return r.EnergyReturnedTariff1 + r.EnergyReturnedTariff2
}

// NetPower returns the instantaneous net power, positive for import and negative for export.
func (r *MeterReading) NetPower() float64 {
	return r.PowerDelivered - r.PowerReturned
}
