package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cepro/p1gateway/gauge"
	"github.com/google/uuid"
)

type MeterConfig struct {
	ID       uuid.UUID `json:"id"`
	Address  string    `json:"address"`
	BaudRate int       `json:"baudRate"`
	Mock     bool      `json:"mock"`
	// MockIntervalSecs is how often the mock meter emits, when Mock is set
	MockIntervalSecs int `json:"mockIntervalSecs"`
}

type RelayConfig struct {
	ListenAddr string `json:"listenAddr"`
	// ConsumerTimeoutSecs is the read/idle deadline applied to each newly accepted consumer
	ConsumerTimeoutSecs int `json:"consumerTimeoutSecs"`
}

type GaugeConfig struct {
	ReturnMax      float64 `json:"returnMax"`
	ConsumptionMax float64 `json:"consumptionMax"`
}

type HTTPConfig struct {
	ListenAddr string `json:"listenAddr"`
}

type SupabaseConfig struct {
	Url string `json:"url"`
	// key is specified via env var
	Schema string `json:"schema"`
}

type DataPlatformConfig struct {
	BufferFilename     string         `json:"bufferFilename"`
	UploadIntervalSecs int            `json:"uploadIntervalSecs"`
	Supabase           SupabaseConfig `json:"supabase"`
}

type Config struct {
	Meter        MeterConfig        `json:"meter"`
	Relay        RelayConfig        `json:"relay"`
	Gauge        GaugeConfig        `json:"gauge"`
	HTTP         HTTPConfig         `json:"http"`
	DataPlatform DataPlatformConfig `json:"dataPlatform"`
}

func Read(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	err = json.Unmarshal(content, &config)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Meter.BaudRate == 0 {
		c.Meter.BaudRate = 115200
	}
	if c.Meter.MockIntervalSecs == 0 {
		c.Meter.MockIntervalSecs = 10
	}
	if c.Relay.ConsumerTimeoutSecs == 0 {
		c.Relay.ConsumerTimeoutSecs = 30
	}
	if c.Gauge.ReturnMax == 0 {
		c.Gauge.ReturnMax = gauge.DefaultReturnMax
	}
	if c.Gauge.ConsumptionMax == 0 {
		c.Gauge.ConsumptionMax = gauge.DefaultConsumptionMax
	}
	if c.DataPlatform.BufferFilename == "" {
		c.DataPlatform.BufferFilename = "readings.sqlite"
	}
	if c.DataPlatform.UploadIntervalSecs == 0 {
		c.DataPlatform.UploadIntervalSecs = 5
	}
}
