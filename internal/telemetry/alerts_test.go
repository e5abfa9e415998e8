package telemetry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ecosferadigital/ecosfera-core/internal/resource"
)

type fakePublisher struct {
	topic   string
	payload []byte
	err     error
}

func (f *fakePublisher) Publish(topic string, payload []byte, _ byte, _ bool) error {
	if f.err != nil {
		return f.err
	}
	f.topic = topic
	f.payload = payload
	return nil
}

func TestPublishAlert(t *testing.T) {
	broker := &fakePublisher{}
	p := NewAlertPublisher(broker, 1)

	msg := "consumption spike"
	alert := &resource.Alert{
		ID: 3,
		AlertPayload: resource.AlertPayload{
			UserID:    7,
			Timestamp: time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
			Message:   &msg,
		},
	}

	if err := p.PublishAlert(alert); err != nil {
		t.Fatalf("PublishAlert() error = %v", err)
	}
	if broker.topic != "ecosfera/alerts/7" {
		t.Errorf("topic = %q, want ecosfera/alerts/7", broker.topic)
	}

	var got resource.Alert
	if err := json.Unmarshal(broker.payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.ID != 3 || got.UserID != 7 || got.Message == nil || *got.Message != msg {
		t.Errorf("payload round-trip = %+v, want original alert", got)
	}
}

func TestPublishAlert_BrokerError(t *testing.T) {
	wantErr := errors.New("broker down")
	p := NewAlertPublisher(&fakePublisher{err: wantErr}, 1)

	err := p.PublishAlert(&resource.Alert{ID: 1})
	if !errors.Is(err, wantErr) {
		t.Errorf("PublishAlert() error = %v, want wrapped %v", err, wantErr)
	}
}
