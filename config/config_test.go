package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRead(t *testing.T) {
	content := `{
		"meter": {
			"id": "64d84428-b989-4443-9a5e-aed02c224ee7",
			"address": "/dev/ttyUSB0"
		},
		"relay": {
			"listenAddr": ":2001",
			"consumerTimeoutSecs": 15
		},
		"gauge": {
			"returnMax": 8
		},
		"http": {
			"listenAddr": ":8080"
		},
		"dataPlatform": {
			"supabase": {
				"url": "https://example.supabase.co",
				"schema": "metering"
			}
		}
	}`

	path := filepath.Join(t.TempDir(), "config.json")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Read(path)
	assert.NoError(t, err)

	assert.Equal(t, uuid.MustParse("64d84428-b989-4443-9a5e-aed02c224ee7"), cfg.Meter.ID)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Meter.Address)
	assert.Equal(t, ":2001", cfg.Relay.ListenAddr)
	assert.Equal(t, 15, cfg.Relay.ConsumerTimeoutSecs)
	assert.Equal(t, "metering", cfg.DataPlatform.Supabase.Schema)

	// unspecified values fall back to defaults
	assert.Equal(t, 115200, cfg.Meter.BaudRate)
	assert.Equal(t, 8.0, cfg.Gauge.ReturnMax)
	assert.Equal(t, 18.0, cfg.Gauge.ConsumptionMax)
	assert.Equal(t, "readings.sqlite", cfg.DataPlatform.BufferFilename)
	assert.Equal(t, 5, cfg.DataPlatform.UploadIntervalSecs)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
