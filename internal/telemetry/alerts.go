package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/mqtt"
	"github.com/ecosferadigital/ecosfera-core/internal/resource"
)

// Publisher is the publish surface the alert feed needs from mqtt.Client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// AlertPublisher pushes persisted alerts to the broker so dashboards can
// react without polling.
type AlertPublisher struct {
	broker Publisher
	qos    byte
}

// NewAlertPublisher wires an alert publisher.
func NewAlertPublisher(broker Publisher, qos byte) *AlertPublisher {
	return &AlertPublisher{broker: broker, qos: qos}
}

// PublishAlert sends one alert to ecosfera/alerts/{userId}.
// The payload is the same JSON shape the HTTP API returns.
func (p *AlertPublisher) PublishAlert(a *resource.Alert) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encoding alert %d: %w", a.ID, err)
	}

	topic := mqtt.Topics{}.Alerts(a.UserID)
	if err := p.broker.Publish(topic, payload, p.qos, false); err != nil {
		return fmt.Errorf("publishing alert %d: %w", a.ID, err)
	}
	return nil
}
