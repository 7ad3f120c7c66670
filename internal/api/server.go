// Package api provides the HTTP API and WebSocket server for FieldHub.
//
// It exposes the device-facing endpoints (registration, status reports,
// command polling, media upload) and the operator-facing admin surface
// (command queueing, device listing, media management, metrics, live events).
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/fieldhub/internal/history"
	"github.com/nerrad567/fieldhub/internal/infrastructure/config"
	"github.com/nerrad567/fieldhub/internal/infrastructure/database"
	"github.com/nerrad567/fieldhub/internal/infrastructure/influxdb"
	"github.com/nerrad567/fieldhub/internal/infrastructure/logging"
	"github.com/nerrad567/fieldhub/internal/infrastructure/mqtt"
	"github.com/nerrad567/fieldhub/internal/media"
	"github.com/nerrad567/fieldhub/internal/registry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Storage  config.StorageConfig
	Logger   *logging.Logger
	Registry *registry.Coordinator
	Media    *media.Store
	History  history.Repository
	MQTT     *mqtt.Client     // optional: event announcements + admin command ingress
	Influx   *influxdb.Client // optional: activity telemetry
	DB       *database.DB     // optional: pool stats and health reporting
	Version  string
}

// Server is the HTTP API server for FieldHub.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	storage   config.StorageConfig
	logger    *logging.Logger
	registry  *registry.Coordinator
	media     *media.Store
	history   history.Repository
	mqtt      *mqtt.Client
	influx    *influxdb.Client
	db        *database.DB
	version   string
	startTime time.Time
	server    *http.Server
	hub       *Hub
	cancel    context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, registry, media, history)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("device registry is required")
	}
	if deps.Media == nil {
		return nil, fmt.Errorf("media store is required")
	}
	if deps.History == nil {
		return nil, fmt.Errorf("command history repository is required")
	}
	// MQTT and InfluxDB are optional; the registry endpoints work on memory alone

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		storage:   deps.Storage,
		logger:    deps.Logger,
		registry:  deps.Registry,
		media:     deps.Media,
		history:   deps.History,
		mqtt:      deps.MQTT,
		influx:    deps.Influx,
		db:        deps.DB,
		version:   deps.Version,
		startTime: time.Now(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, subscribes to the MQTT
// admin command ingress when a broker is configured, and launches the HTTP
// listener in a background goroutine. The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	// Create WebSocket hub
	if s.hub == nil {
		s.hub = NewHub(s.wsCfg, s.logger)
		go s.hub.Run(srvCtx)
	}

	// Wire the optional MQTT command ingress for admin tooling
	if err := s.subscribeAdminCommands(); err != nil {
		s.logger.Warn("failed to subscribe to admin command ingress", "error", err)
	}

	// Build router
	router := s.buildRouter()

	// Create HTTP server
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	// Start listening in background
	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Cancel background goroutines (hub)
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// recordHistory appends one command lifecycle row to the audit log.
// Best effort: a failed audit write is logged, never surfaced to the caller.
func (s *Server) recordHistory(ctx context.Context, event, deviceID, command, source string) {
	entry := &history.Entry{
		DeviceID: deviceID,
		Command:  command,
		Event:    event,
		Source:   source,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("command log write failed",
			"device_id", deviceID,
			"event", event,
			"error", err,
		)
	}
}
