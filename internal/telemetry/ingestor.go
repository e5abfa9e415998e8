package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/logging"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/mqtt"
	"github.com/ecosferadigital/ecosfera-core/internal/resource"
)

// persistTimeout bounds the database write for one broker message.
const persistTimeout = 5 * time.Second

// ReadingStore persists validated readings. Satisfied by the energy
// repository.
type ReadingStore interface {
	Create(ctx context.Context, p resource.EnergyReadingPayload) (*resource.EnergyReading, error)
}

// Broker is the subscription surface the ingestor needs from mqtt.Client.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Mirror receives persisted readings for time-series storage.
// Satisfied by influxdb.Client.
type Mirror interface {
	WriteEnergyReading(id, deviceID int64, consumptionKWh, generationKWh float64, at time.Time)
}

// readingMessage is the wire format meters publish.
// The device key comes from the topic, never from the body.
type readingMessage struct {
	Timestamp      *time.Time `json:"timestamp"`
	ConsumptionKWh *float64   `json:"consumptionKWh"`
	GenerationKWh  float64    `json:"generationKWh"`
}

// Ingestor subscribes to meter telemetry and writes it through the
// energy repository.
type Ingestor struct {
	store  ReadingStore
	broker Broker
	mirror Mirror
	logger *logging.Logger
	qos    byte

	// onReading, when set, observes each persisted reading. Used to feed
	// the WebSocket event hub.
	onReading func(r *resource.EnergyReading)
}

// NewIngestor wires an ingestor. mirror may be nil when the InfluxDB
// mirror is disabled.
func NewIngestor(store ReadingStore, broker Broker, mirror Mirror, logger *logging.Logger, qos byte) *Ingestor {
	return &Ingestor{
		store:  store,
		broker: broker,
		mirror: mirror,
		logger: logger,
		qos:    qos,
	}
}

// SetOnReading installs an observer for persisted readings.
// Must be called before Start.
func (i *Ingestor) SetOnReading(fn func(r *resource.EnergyReading)) {
	i.onReading = fn
}

// Start subscribes to telemetry from every device.
func (i *Ingestor) Start() error {
	topic := mqtt.Topics{}.AllReadings()
	if err := i.broker.Subscribe(topic, i.qos, i.handleMessage); err != nil {
		return fmt.Errorf("subscribing to telemetry: %w", err)
	}
	i.logger.Info("telemetry ingestion started", "topic", topic)
	return nil
}

// handleMessage validates and persists one broker message.
//
// Bad payloads are rejected with an error (logged by the mqtt client)
// and never partially persisted.
func (i *Ingestor) handleMessage(topic string, payload []byte) error {
	deviceID, err := mqtt.ReadingDeviceID(topic)
	if err != nil {
		return err
	}

	var msg readingMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("parsing reading payload: %w", err)
	}
	if msg.ConsumptionKWh == nil {
		return fmt.Errorf("reading from device %d missing consumptionKWh", deviceID)
	}

	timestamp := time.Now().UTC()
	if msg.Timestamp != nil {
		timestamp = msg.Timestamp.UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	reading, err := i.store.Create(ctx, resource.EnergyReadingPayload{
		DeviceID:       deviceID,
		Timestamp:      timestamp,
		ConsumptionKWh: *msg.ConsumptionKWh,
		GenerationKWh:  msg.GenerationKWh,
	})
	if err != nil {
		return fmt.Errorf("persisting reading from device %d: %w", deviceID, err)
	}

	if i.mirror != nil {
		i.mirror.WriteEnergyReading(reading.ID, reading.DeviceID,
			reading.ConsumptionKWh, reading.GenerationKWh, reading.Timestamp)
	}
	if i.onReading != nil {
		i.onReading(reading)
	}

	i.logger.Debug("reading ingested",
		"reading_id", reading.ID,
		"device_id", reading.DeviceID,
		"consumption_kwh", reading.ConsumptionKWh)

	return nil
}
