package dataplatform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cepro/p1gateway/repository"
	"github.com/cepro/p1gateway/supabase"
	"github.com/cepro/p1gateway/telemetry"
)

// uploadChunkLimit defines how many readings we upload in one supabase HTTP request
const uploadChunkLimit = 100

const meterReadingsTable = "meter_readings"

// DataPlatform handles the streaming of meter readings to Supabase.
// Put new readings onto the `MeterReadings` channel, they will be buffered on disk in a
// SQLite database before being uploaded to Supabase.
type DataPlatform struct {
	MeterReadings chan telemetry.MeterReading

	repository     *repository.Repository
	supaClient     *supabase.Client
	uploadInterval time.Duration
	logger         *slog.Logger
}

func New(supaClient *supabase.Client, bufferRepositoryFilename string, uploadInterval time.Duration) (*DataPlatform, error) {

	repo, err := repository.New(bufferRepositoryFilename)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	return &DataPlatform{
		MeterReadings:  make(chan telemetry.MeterReading, 25), // a small buffer to allow SQLite to catch up in case the disk is slow
		repository:     repo,
		supaClient:     supaClient,
		uploadInterval: uploadInterval,
		logger:         slog.Default().With("component", "dataplatform"),
	}, nil
}

// Run loops forever persisting incoming readings and periodically attempting uploads.
// Exits when the context is cancelled.
func (d *DataPlatform) Run(ctx context.Context) error {

	uploadTicker := time.NewTicker(d.uploadInterval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case reading := <-d.MeterReadings:
			err := d.repository.AddMeterReading(reading)
			if err != nil {
				d.logger.Error("Failed to persist meter reading", "error", err)
			}

		case <-uploadTicker.C:
			d.attemptUpload()
		}
	}
}

// attemptUpload attempts to upload buffered readings from the repository into Supabase.
// New readings are tried before readings that have already failed an upload.
func (d *DataPlatform) attemptUpload() {

	freshReadings, err := d.repository.GetMeterReadings(uploadChunkLimit, true)
	if err != nil {
		d.logger.Error("Failed to query fresh meter readings", "error", err)
	} else if len(freshReadings) > 0 {
		err = d.handleReadings(freshReadings)
		if err != nil {
			d.logger.Error("Failed to handle fresh meter readings", "error", err)
		}
	}

	oldReadings, err := d.repository.GetMeterReadings(uploadChunkLimit, false)
	if err != nil {
		d.logger.Error("Failed to query old meter readings", "error", err)
	} else if len(oldReadings) > 0 {
		err = d.handleReadings(oldReadings)
		if err != nil {
			d.logger.Error("Failed to handle old meter readings", "error", err)
		}
	}
}

// handleReadings attempts to upload the given readings. If successful, it deletes the
// readings from the database; if unsuccessful, it increments the 'upload attempt count'
// column and leaves the readings in the database for another time.
func (d *DataPlatform) handleReadings(readings []repository.StoredMeterReading) error {

	uploadErr := d.supaClient.UploadReadings(meterReadingsTable, convertMeterReadings(readings))
	if uploadErr != nil {
		uploadErr = fmt.Errorf("upload failed: %w", uploadErr)
		errInc := d.repository.IncrementUploadAttemptCount(readings)
		if errInc != nil {
			return fmt.Errorf("%w: increment upload attempt count: %w", uploadErr, errInc)
		}
		return uploadErr
	}

	deleteErr := d.repository.DeleteReadings(readings)
	if deleteErr != nil {
		return fmt.Errorf("delete meter readings: %w", deleteErr)
	}

	d.logger.Info("Uploaded readings", "db_table", meterReadingsTable, "db_records", len(readings))

	return nil
}
