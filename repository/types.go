package repository

import "github.com/cepro/p1gateway/telemetry"

// StoredMeterReading represents a meter reading that is persisted to the SQLite database, and includes a count of upload attempts.
type StoredMeterReading struct {
	telemetry.MeterReading
	UploadAttemptCount uint
}

func newStoredMeterReading(reading telemetry.MeterReading) StoredMeterReading {
	return StoredMeterReading{
		MeterReading:       reading,
		UploadAttemptCount: 0,
	}
}
