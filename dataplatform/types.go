package dataplatform

import (
	"time"

	"github.com/cepro/p1gateway/repository"
	"github.com/google/uuid"
)

// supabaseMeterReading holds the json encoding schema for a meter reading in supabase.
type supabaseMeterReading struct {
	ID                     uuid.UUID `json:"id"`
	Time                   time.Time `json:"time"`
	MeterID                uuid.UUID `json:"meter_id"`
	MeterTimestamp         string    `json:"meter_timestamp"`
	EnergyDeliveredTariff1 float64   `json:"energy_delivered_tariff1"`
	EnergyDeliveredTariff2 float64   `json:"energy_delivered_tariff2"`
	EnergyReturnedTariff1  float64   `json:"energy_returned_tariff1"`
	EnergyReturnedTariff2  float64   `json:"energy_returned_tariff2"`
	PowerDelivered         float64   `json:"power_delivered"`
	PowerReturned          float64   `json:"power_returned"`
}

func convertMeterReadings(readings []repository.StoredMeterReading) []supabaseMeterReading {
	var supabaseReadings []supabaseMeterReading
	for _, reading := range readings {
		supabaseReadings = append(supabaseReadings, supabaseMeterReading{
			ID:                     reading.ID,
			Time:                   reading.Time,
			MeterID:                reading.DeviceID,
			MeterTimestamp:         reading.Timestamp,
			EnergyDeliveredTariff1: reading.EnergyDeliveredTariff1,
			EnergyDeliveredTariff2: reading.EnergyDeliveredTariff2,
			EnergyReturnedTariff1:  reading.EnergyReturnedTariff1,
			EnergyReturnedTariff2:  reading.EnergyReturnedTariff2,
			PowerDelivered:         reading.PowerDelivered,
			PowerReturned:          reading.PowerReturned,
		})
	}
	return supabaseReadings
}
