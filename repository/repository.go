package repository

import (
	"fmt"

	"github.com/cepro/p1gateway/telemetry"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository stores meter readings to the local file system (SQLite) before they are uploaded to the data platform.
type Repository struct {
	db *gorm.DB
}

func New(path string) (*Repository, error) {

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Migrate the schema
	err = db.AutoMigrate(&StoredMeterReading{})
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

func (r *Repository) AddMeterReading(reading telemetry.MeterReading) error {
	result := r.db.Create(newStoredMeterReading(reading))
	return result.Error
}

func (r *Repository) DeleteReadings(readings []StoredMeterReading) error {
	result := r.db.Delete(&readings)
	return result.Error
}

// GetMeterReadings returns up to `limit` buffered readings. With `fresh` set, only
// readings that have never failed an upload are returned, otherwise only readings with
// at least one failed attempt.
func (r *Repository) GetMeterReadings(limit int, fresh bool) ([]StoredMeterReading, error) {
	var readings []StoredMeterReading

	query := r.db.Limit(limit).Order("upload_attempt_count asc, time desc")
	if fresh {
		query = query.Where("upload_attempt_count = ?", 0)
	} else {
		query = query.Where("upload_attempt_count > ?", 0)
	}
	result := query.Find(&readings)
	if result.Error != nil {
		return nil, result.Error
	}
	return readings, nil
}

func (r *Repository) IncrementUploadAttemptCount(readings []StoredMeterReading) error {
	ids := make([]uuid.UUID, 0, len(readings))
	for _, reading := range readings {
		ids = append(ids, reading.ID)
	}
	result := r.db.Model(&StoredMeterReading{}).
		Where("id IN ?", ids).
		UpdateColumn("upload_attempt_count", gorm.Expr("upload_attempt_count + ?", 1))
	return result.Error
}
