package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecosferadigital/ecosfera-core/internal/resource"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// Route names follow the legacy Portuguese contract the dashboards
// already speak; JSON field names stay camelCase English.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/health", s.handleHealth)
	r.Post("/predict", s.handlePredict)

	wsPath := s.wsCfg.Path
	if wsPath == "" {
		wsPath = "/ws"
	}
	r.Get(wsPath, s.handleWebSocket)

	mountCRUD(r, "/usuario", crud[resource.User, resource.UserPayload]{
		repo: s.users,
		name: "usuario",
	})
	mountCRUD(r, "/dispositivo", crud[resource.Device, resource.DevicePayload]{
		repo:            s.devices,
		name:            "dispositivo",
		updateNoContent: true,
	})
	mountCRUD(r, "/automacao", crud[resource.Automation, resource.AutomationPayload]{
		repo: s.autos,
		name: "automacao",
	})
	mountCRUD(r, "/energia", crud[resource.EnergyReading, resource.EnergyReadingPayload]{
		repo:        s.readings,
		name:        "energia",
		afterCreate: s.onReadingCreated,
	})
	mountCRUD(r, "/alerta", crud[resource.Alert, resource.AlertPayload]{
		repo:        s.alerts,
		name:        "alerta",
		afterCreate: s.onAlertCreated,
	})

	return r
}

// onReadingCreated mirrors a persisted reading and notifies WebSocket
// subscribers.
func (s *Server) onReadingCreated(rd *resource.EnergyReading) {
	if s.mirror != nil {
		s.mirror.WriteEnergyReading(rd.ID, rd.DeviceID,
			rd.ConsumptionKWh, rd.GenerationKWh, rd.Timestamp)
	}
	s.hub.Broadcast(ChannelReadingCreated, rd)
}

// onAlertCreated pushes a persisted alert to the broker and WebSocket
// subscribers. Broker failures are logged, not surfaced: the alert is
// already committed.
func (s *Server) onAlertCreated(a *resource.Alert) {
	if s.alertFeed != nil {
		if err := s.alertFeed.PublishAlert(a); err != nil {
			s.logger.Warn("publishing alert to broker failed", "alert_id", a.ID, "error", err)
		}
	}
	s.hub.Broadcast(ChannelAlertCreated, a)
}
