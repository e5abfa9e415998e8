// Ecosfera Core - Energy Monitoring Backend
//
// Main entry point for the Ecosfera Core service: the CRUD and telemetry
// backend behind the Ecosfera Digital energy dashboards. It serves the
// REST API, ingests meter readings from MQTT, and optionally mirrors
// readings into InfluxDB.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/ecosferadigital/ecosfera-core/migrations"

	"github.com/ecosferadigital/ecosfera-core/internal/api"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/config"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/database"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/influxdb"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/logging"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/mqtt"
	"github.com/ecosferadigital/ecosfera-core/internal/predict"
	"github.com/ecosferadigital/ecosfera-core/internal/resource"
	"github.com/ecosferadigital/ecosfera-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Ecosfera Core", "version", version, "commit", commit)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	users := resource.NewUserRepository(db.DB)
	devices := resource.NewDeviceRepository(db.DB)
	automations := resource.NewAutomationRepository(db.DB)
	readings := resource.NewEnergyReadingRepository(db.DB)
	alerts := resource.NewAlertRepository(db.DB)

	// Optional InfluxDB mirror
	var mirror *influxdb.Client
	if cfg.InfluxDB.Enabled {
		mirror, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer mirror.Close() //nolint:errcheck // shutdown path
		mirror.SetOnError(func(err error) {
			log.Warn("influxdb async write failed", "error", err)
		})
		log.Info("influxdb mirror connected", "url", cfg.InfluxDB.URL)
	}

	// Optional MQTT broker link
	var broker *mqtt.Client
	if cfg.MQTT.Enabled {
		broker, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer broker.Close() //nolint:errcheck // shutdown path
		broker.SetLogger(log)
		log.Info("mqtt connected",
			"host", cfg.MQTT.Broker.Host,
			"port", cfg.MQTT.Broker.Port,
		)
	}

	deps := api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Logger:      log,
		DB:          db,
		Users:       users,
		Devices:     devices,
		Automations: automations,
		Readings:    readings,
		Alerts:      alerts,
		Predictor:   predict.NewModel(),
		Version:     version,
	}
	if broker != nil {
		deps.AlertFeed = telemetry.NewAlertPublisher(broker, byte(cfg.MQTT.QoS))
	}
	if mirror != nil {
		deps.Mirror = mirror
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting api server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing api server", "error", closeErr)
		}
	}()

	// Telemetry ingestion needs both the broker and the API server's hub
	// so ingested readings reach WebSocket subscribers too.
	if broker != nil {
		var ingestMirror telemetry.Mirror
		if mirror != nil {
			ingestMirror = mirror
		}
		ingestor := telemetry.NewIngestor(readings, broker, ingestMirror, log, byte(cfg.MQTT.QoS))
		hub := server.Hub()
		ingestor.SetOnReading(func(r *resource.EnergyReading) {
			hub.Broadcast(api.ChannelReadingCreated, r)
		})
		if err := ingestor.Start(); err != nil {
			return fmt.Errorf("starting telemetry ingestion: %w", err)
		}
	}

	log.Info("ecosfera core running")
	<-ctx.Done()
	log.Info("shutdown signal received")

	return nil
}

// getConfigPath resolves the config file location from the environment
// or falls back to the default.
func getConfigPath() string {
	if path := os.Getenv("ECOSFERA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
