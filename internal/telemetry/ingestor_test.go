package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/logging"
	"github.com/ecosferadigital/ecosfera-core/internal/resource"
)

type fakeStore struct {
	created []resource.EnergyReadingPayload
	err     error
}

func (f *fakeStore) Create(_ context.Context, p resource.EnergyReadingPayload) (*resource.EnergyReading, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	return &resource.EnergyReading{ID: int64(len(f.created)), EnergyReadingPayload: p}, nil
}

type fakeMirror struct {
	points int
}

func (f *fakeMirror) WriteEnergyReading(_, _ int64, _, _ float64, _ time.Time) {
	f.points++
}

func newTestIngestor(store *fakeStore, mirror Mirror) *Ingestor {
	return NewIngestor(store, nil, mirror, logging.Default(), 1)
}

func TestHandleMessage_PersistsReading(t *testing.T) {
	store := &fakeStore{}
	mirror := &fakeMirror{}
	ing := newTestIngestor(store, mirror)

	payload := []byte(`{"consumptionKWh": 12.5, "generationKWh": 3.0, "timestamp": "2026-02-10T08:00:00Z"}`)
	if err := ing.handleMessage("ecosfera/readings/42", payload); err != nil {
		t.Fatalf("handleMessage() error = %v", err)
	}

	if len(store.created) != 1 {
		t.Fatalf("created = %d readings, want 1", len(store.created))
	}
	got := store.created[0]
	if got.DeviceID != 42 {
		t.Errorf("DeviceID = %d, want 42 (from topic)", got.DeviceID)
	}
	if got.ConsumptionKWh != 12.5 || got.GenerationKWh != 3.0 {
		t.Errorf("values = (%v, %v), want (12.5, 3.0)", got.ConsumptionKWh, got.GenerationKWh)
	}
	if !got.Timestamp.Equal(time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("Timestamp = %v, want 2026-02-10T08:00:00Z", got.Timestamp)
	}
	if mirror.points != 1 {
		t.Errorf("mirror points = %d, want 1", mirror.points)
	}
}

func TestHandleMessage_TimestampDefaultsToNow(t *testing.T) {
	store := &fakeStore{}
	ing := newTestIngestor(store, nil)

	before := time.Now().UTC()
	if err := ing.handleMessage("ecosfera/readings/1", []byte(`{"consumptionKWh": 1}`)); err != nil {
		t.Fatalf("handleMessage() error = %v", err)
	}
	after := time.Now().UTC()

	ts := store.created[0].Timestamp
	if ts.Before(before) || ts.After(after) {
		t.Errorf("Timestamp = %v, want between %v and %v", ts, before, after)
	}
}

func TestHandleMessage_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
	}{
		{"foreign topic", "other/readings/42", `{"consumptionKWh": 1}`},
		{"non-numeric device", "ecosfera/readings/abc", `{"consumptionKWh": 1}`},
		{"malformed json", "ecosfera/readings/42", `{"consumptionKWh":`},
		{"missing consumption", "ecosfera/readings/42", `{"generationKWh": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			ing := newTestIngestor(store, nil)

			if err := ing.handleMessage(tt.topic, []byte(tt.payload)); err == nil {
				t.Error("handleMessage() expected error, got nil")
			}
			if len(store.created) != 0 {
				t.Errorf("created = %d readings, want 0", len(store.created))
			}
		})
	}
}

func TestHandleMessage_StoreErrorPropagates(t *testing.T) {
	wantErr := errors.New("db gone")
	ing := newTestIngestor(nil, nil)
	ing.store = &fakeStore{err: wantErr}

	err := ing.handleMessage("ecosfera/readings/42", []byte(`{"consumptionKWh": 1}`))
	if !errors.Is(err, wantErr) {
		t.Errorf("handleMessage() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestHandleMessage_NotifiesObserver(t *testing.T) {
	store := &fakeStore{}
	ing := newTestIngestor(store, nil)

	var seen []*resource.EnergyReading
	ing.SetOnReading(func(r *resource.EnergyReading) { seen = append(seen, r) })

	if err := ing.handleMessage("ecosfera/readings/5", []byte(`{"consumptionKWh": 2}`)); err != nil {
		t.Fatalf("handleMessage() error = %v", err)
	}
	if len(seen) != 1 || seen[0].DeviceID != 5 {
		t.Errorf("observer saw %v, want one reading for device 5", seen)
	}
}
