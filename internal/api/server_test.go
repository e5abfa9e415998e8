package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/config"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/database"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/logging"
	"github.com/ecosferadigital/ecosfera-core/internal/predict"
	"github.com/ecosferadigital/ecosfera-core/internal/resource"
	_ "github.com/ecosferadigital/ecosfera-core/migrations"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	srv, err := New(Deps{
		WS:          config.WebSocketConfig{Path: "/ws", MaxMessageSize: 8192, PingInterval: 30, PongTimeout: 10},
		Logger:      logging.Default(),
		DB:          db,
		Users:       resource.NewUserRepository(db.DB),
		Devices:     resource.NewDeviceRepository(db.DB),
		Automations: resource.NewAutomationRepository(db.DB),
		Readings:    resource.NewEnergyReadingRepository(db.DB),
		Alerts:      resource.NewAlertRepository(db.DB),
		Predictor:   predict.NewModel(),
		Version:     "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return srv, srv.buildRouter()
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUserLifecycle(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/usuario", `{"name": "Ana", "email": "ana@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /usuario status = %d, want 201: %s", rec.Code, rec.Body)
	}
	var created resource.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("first key = %d, want 1", created.ID)
	}

	rec = doJSON(t, h, http.MethodGet, "/usuario/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /usuario/1 status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPut, "/usuario/1", `{"name": "Ana Silva"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /usuario/1 status = %d, want 200", rec.Code)
	}
	var updated resource.User
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decoding update response: %v", err)
	}
	if updated.Name == nil || *updated.Name != "Ana Silva" {
		t.Errorf("updated name = %v, want Ana Silva", updated.Name)
	}
	if updated.Email != nil {
		t.Errorf("email after full overwrite = %v, want null", updated.Email)
	}

	rec = doJSON(t, h, http.MethodGet, "/usuario", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /usuario status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/usuario/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /usuario/1 status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/usuario/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted user status = %d, want 404", rec.Code)
	}
}

func TestMissingKeyResponses(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/usuario/999", ""},
		{http.MethodPut, "/usuario/999", `{"name": "ghost"}`},
		{http.MethodDelete, "/usuario/999", ""},
		{http.MethodGet, "/energia/999", ""},
		{http.MethodDelete, "/alerta/999", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
			var apiErr Error
			if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
				t.Fatalf("error body is not structured JSON: %v", err)
			}
			if apiErr.Code != ErrCodeNotFound {
				t.Errorf("error code = %q, want %q", apiErr.Code, ErrCodeNotFound)
			}
		})
	}
}

func TestDeviceListEmptyReturns404(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/dispositivo", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /dispositivo (empty) status = %d, want 404", rec.Code)
	}

	// Every other resource returns an empty list with 200.
	for _, path := range []string{"/usuario", "/automacao", "/energia", "/alerta"} {
		rec := doJSON(t, h, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s (empty) status = %d, want 200", path, rec.Code)
		}
		if body := rec.Body.String(); body == "null\n" {
			t.Errorf("GET %s (empty) body = null, want []", path)
		}
	}
}

func TestDeviceUpdateReturns204(t *testing.T) {
	_, h := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/usuario", `{"name": "owner"}`)
	rec := doJSON(t, h, http.MethodPost, "/dispositivo", `{"userId": 1, "deviceType": "Sensor"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /dispositivo status = %d, want 201: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodPut, "/dispositivo/1", `{"userId": 1, "deviceType": "Medidor"}`)
	if rec.Code != http.StatusNoContent {
		t.Errorf("PUT /dispositivo/1 status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("PUT /dispositivo/1 body = %q, want empty", rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/dispositivo/1", "")
	var d resource.Device
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decoding device: %v", err)
	}
	if d.DeviceType == nil || *d.DeviceType != "Medidor" {
		t.Errorf("deviceType after update = %v, want Medidor", d.DeviceType)
	}
}

func TestForeignKeyConflicts(t *testing.T) {
	_, h := newTestServer(t)

	// Create referencing a missing owner.
	rec := doJSON(t, h, http.MethodPost, "/dispositivo", `{"userId": 42}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("POST /dispositivo with dangling userId status = %d, want 409", rec.Code)
	}

	// Delete a user that still owns a device.
	doJSON(t, h, http.MethodPost, "/usuario", `{"name": "owner"}`)
	doJSON(t, h, http.MethodPost, "/dispositivo", `{"userId": 1}`)

	rec = doJSON(t, h, http.MethodDelete, "/usuario/1", "")
	if rec.Code != http.StatusConflict {
		t.Errorf("DELETE referenced user status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/usuario/1", "")
	if rec.Code != http.StatusOK {
		t.Errorf("referenced user after failed delete status = %d, want 200", rec.Code)
	}
}

func TestInvalidRequests(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"non-numeric id", http.MethodGet, "/usuario/abc", ""},
		{"zero id", http.MethodGet, "/usuario/0", ""},
		{"malformed body", http.MethodPost, "/usuario", `{"name":`},
		{"malformed update", http.MethodPut, "/usuario/1", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, tt.method, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestEnergyReadingAcceptsNegativeConsumption(t *testing.T) {
	_, h := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/usuario", `{"name": "owner"}`)
	doJSON(t, h, http.MethodPost, "/dispositivo", `{"userId": 1}`)

	rec := doJSON(t, h, http.MethodPost, "/energia",
		`{"deviceId": 1, "timestamp": "2026-02-10T08:00:00Z", "consumptionKWh": -5.0, "generationKWh": 2.0}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /energia status = %d, want 201: %s", rec.Code, rec.Body)
	}

	var reading resource.EnergyReading
	if err := json.Unmarshal(rec.Body.Bytes(), &reading); err != nil {
		t.Fatalf("decoding reading: %v", err)
	}
	if reading.ConsumptionKWh != -5.0 {
		t.Errorf("consumptionKWh = %v, want -5.0 (corrections pass through)", reading.ConsumptionKWh)
	}
}

func TestPredict(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/predict", `{"consumptionKWh": 500, "generationKWh": 550}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /predict status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp predictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding predict response: %v", err)
	}
	if resp.NextConsumptionKWh < 515 || resp.NextConsumptionKWh > 525 {
		t.Errorf("nextConsumptionKWh = %v, want ~520", resp.NextConsumptionKWh)
	}

	rec = doJSON(t, h, http.MethodPost, "/predict", `{"generationKWh": 550}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /predict without consumption status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want 200", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "test" {
		t.Errorf("health = %+v, want status ok, version test", resp)
	}
}

func TestCreateIgnoresClientSuppliedKey(t *testing.T) {
	_, h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/usuario", `{"id": 77, "name": "opinionated"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /usuario status = %d, want 201", rec.Code)
	}

	var created resource.User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("key = %d, want server-allocated 1", created.ID)
	}
}
