package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/cepro/p1gateway/api"
	"github.com/cepro/p1gateway/config"
	"github.com/cepro/p1gateway/dataplatform"
	"github.com/cepro/p1gateway/dsmr"
	"github.com/cepro/p1gateway/gauge"
	"github.com/cepro/p1gateway/relay"
	"github.com/cepro/p1gateway/supabase"
	"github.com/cepro/p1gateway/usage"
)

func main() {

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "p1gateway.json", "path to JSON configuration file")
	flag.Parse()

	slog.Info("Starting P1 gateway...")

	cfg, err := config.Read(*configPath)
	if err != nil {
		slog.Error("Failed to read config", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	// the meter is the single source of telegrams for everything below
	telegrams, err := runMeter(ctx, cfg.Meter)
	if err != nil {
		slog.Error("Failed to create meter", "error", err)
		return
	}

	telegramRelay := relay.New(time.Duration(cfg.Relay.ConsumerTimeoutSecs) * time.Second)
	if cfg.Relay.ListenAddr != "" {
		listener := relay.NewListener(cfg.Relay.ListenAddr, telegramRelay)
		go listener.Run(ctx)
	}

	status := &api.Status{}
	if cfg.HTTP.ListenAddr != "" {
		apiServer := api.NewServer(cfg.HTTP.ListenAddr, status)
		go apiServer.Run(ctx)
	}

	var dataPlatform *dataplatform.DataPlatform
	if cfg.DataPlatform.Supabase.Url != "" {
		supaClient, err := supabase.New(cfg.DataPlatform.Supabase.Url, os.Getenv("SUPABASE_ANON_KEY"), os.Getenv("SUPABASE_USER_KEY"), cfg.DataPlatform.Supabase.Schema)
		if err != nil {
			slog.Error("Failed to create supabase client", "error", err)
			return
		}
		dataPlatform, err = dataplatform.New(supaClient, cfg.DataPlatform.BufferFilename, time.Duration(cfg.DataPlatform.UploadIntervalSecs)*time.Second)
		if err != nil {
			slog.Error("Failed to create data platform", "error", err)
			return
		}
		go dataPlatform.Run(ctx)
	}

	aggregator := usage.NewAggregator()
	calibration := gauge.Calibration{
		ReturnMax:      cfg.Gauge.ReturnMax,
		ConsumptionMax: cfg.Gauge.ConsumptionMax,
	}

	// each telegram is dispatched to the relay, the day-usage aggregator, the gauge and
	// the data platform, strictly in sequence
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case telegram := <-telegrams:

				telegramRelay.Send(telegram.Raw)

				reading := telegram.Reading
				dayTotal, err := aggregator.Update(
					reading.Timestamp,
					reading.EnergyDeliveredTariff1, reading.EnergyDeliveredTariff2,
					reading.EnergyReturnedTariff1, reading.EnergyReturnedTariff2,
				)
				if err != nil {
					slog.Error("Failed to update day usage", "error", err)
					continue
				}

				state := gauge.Map(reading.NetPower(), calibration)
				slog.Debug("Dispatched telegram",
					"power", state.Text,
					"sign", state.Sign,
					"angle", state.Angle,
					"day_total", gauge.FormatFixed(dayTotal, 1, 3)+" kWh",
				)

				status.Set(reading.NetPower(), dayTotal)

				if dataPlatform != nil {
					dataPlatform.MeterReadings <- reading
				}
			}
		}
	}()

	// wait for a ctrl-c interrupt before exiting
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	<-signalChan

	// cancel any open go-routines and give them up to 100ms to gracefully shutdown
	cancel()
	time.Sleep(time.Millisecond * 100)

	slog.Info("Exiting")
	os.Exit(0)
}

// runMeter starts the configured telegram source (real serial meter or mock) and
// returns its telegram channel.
func runMeter(ctx context.Context, cfg config.MeterConfig) (chan dsmr.Telegram, error) {

	if cfg.Mock {
		mock, err := dsmr.NewMock(cfg.ID)
		if err != nil {
			return nil, err
		}
		go mock.Run(ctx, time.Duration(cfg.MockIntervalSecs)*time.Second)
		return mock.Telegrams, nil
	}

	meter, err := dsmr.New(cfg.ID, cfg.Address, cfg.BaudRate)
	if err != nil {
		return nil, err
	}
	go meter.Run(ctx)
	return meter.Telegrams, nil
}
