package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/config"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/database"
	"github.com/ecosferadigital/ecosfera-core/internal/infrastructure/logging"
	"github.com/ecosferadigital/ecosfera-core/internal/predict"
	"github.com/ecosferadigital/ecosfera-core/internal/resource"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// AlertFeed pushes persisted alerts to the broker.
// Satisfied by telemetry.AlertPublisher; nil when MQTT is disabled.
type AlertFeed interface {
	PublishAlert(a *resource.Alert) error
}

// ReadingMirror receives persisted readings for time-series storage.
// Satisfied by influxdb.Client; nil when the mirror is disabled.
type ReadingMirror interface {
	WriteEnergyReading(id, deviceID int64, consumptionKWh, generationKWh float64, at time.Time)
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config config.APIConfig
	WS     config.WebSocketConfig
	Logger *logging.Logger
	DB     *database.DB

	Users       *resource.Repository[resource.User, resource.UserPayload]
	Devices     *resource.Repository[resource.Device, resource.DevicePayload]
	Automations *resource.Repository[resource.Automation, resource.AutomationPayload]
	Readings    *resource.Repository[resource.EnergyReading, resource.EnergyReadingPayload]
	Alerts      *resource.Repository[resource.Alert, resource.AlertPayload]

	Predictor predict.Predictor

	// Optional integrations.
	AlertFeed AlertFeed
	Mirror    ReadingMirror

	Version string
}

// Server is the HTTP API server for Ecosfera Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	logger    *logging.Logger
	db        *database.DB
	users     *resource.Repository[resource.User, resource.UserPayload]
	devices   *resource.Repository[resource.Device, resource.DevicePayload]
	autos     *resource.Repository[resource.Automation, resource.AutomationPayload]
	readings  *resource.Repository[resource.EnergyReading, resource.EnergyReadingPayload]
	alerts    *resource.Repository[resource.Alert, resource.AlertPayload]
	predictor predict.Predictor
	alertFeed AlertFeed
	mirror    ReadingMirror
	version   string

	server *http.Server
	hub    *Hub
	cancel context.CancelFunc
}

// New creates a new API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Users == nil || deps.Devices == nil || deps.Automations == nil ||
		deps.Readings == nil || deps.Alerts == nil {
		return nil, fmt.Errorf("all resource repositories are required")
	}
	if deps.Predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger,
		db:        deps.DB,
		users:     deps.Users,
		devices:   deps.Devices,
		autos:     deps.Automations,
		readings:  deps.Readings,
		alerts:    deps.Alerts,
		predictor: deps.Predictor,
		alertFeed: deps.AlertFeed,
		mirror:    deps.Mirror,
		version:   deps.Version,
		hub:       NewHub(deps.WS, deps.Logger),
	}, nil
}

// Hub returns the WebSocket hub, for wiring external event sources such
// as the telemetry ingestor.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; fatal listen errors are
// logged. Stop the server with Close().
func (s *Server) Start(ctx context.Context) error {
	hubCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.hub.Run(hubCtx)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("api server starting", "addr", addr, "version", s.version)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server failed", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server, waiting for in-flight requests.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down api server: %w", err)
	}
	return nil
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// handleHealth reports liveness plus the database state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Version: s.version, Database: "ok"}
	status := http.StatusOK

	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Database = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
