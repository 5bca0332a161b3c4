package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"rollbook/internal/config"
	apierrors "rollbook/internal/errors"
	"rollbook/internal/exporter"
	"rollbook/internal/files"
	"rollbook/internal/infrastructure"
	"rollbook/internal/middleware"
	"rollbook/internal/services"
	handlers "rollbook/internal/transport/http"
	"rollbook/internal/validation"
	ws "rollbook/internal/websocket"
	"rollbook/pkg/contracts"
)

// bodyOverhead is added to the input limit for JSON escaping and multipart framing
const bodyOverhead = 64 << 10

// Application represents the main application container
type Application struct {
	Config            *config.Config
	Paths             *config.Paths
	Router            *chi.Mux
	Server            *http.Server
	Logger            *slog.Logger
	OTelProviders     *infrastructure.OTelProviders
	Metrics           *infrastructure.Metrics
	WebSocketHub      *ws.Hub
	AttendanceService *services.AttendanceService
	HealthService     *services.HealthService

	errorHandler *apierrors.ErrorHandler
	stopOnce     sync.Once
	stopErr      error
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, apierrors.NewConfigError("configuration is required", nil)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	version := contracts.GetVersionInfo()
	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", version.Version),
		slog.String("commit", version.GitCommit),
		slog.String("api_version", version.APIVersion))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	logger.Info("Paths resolved", paths.LogAttrs()...)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.NewMetrics(providers.Meter)
	if err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		errorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		_ = providers.Shutdown(context.Background())
		return nil, err
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the hub, the reader pipeline and the services
func (a *Application) initializeServices() error {
	hub := ws.NewHub(a.Logger, a.Metrics)

	validator := validation.NewFileValidator(a.Logger, a.Config.Attendance.MaxInputBytes, nil)
	reader := validation.NewFileReader(validator, a.Logger)

	library := files.NewDiscovery(a.Paths.DataDir, validation.DefaultExtensions, a.Logger)

	opts := []services.Option{
		services.WithNotifier(hub),
		services.WithLibrary(library),
		services.WithMetrics(a.Metrics),
		services.WithTracer(a.OTelProviders.Tracer),
	}

	if a.Config.Sheets.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), a.Config.Sheets.Timeout)
		defer cancel()

		publisher, err := exporter.NewSheetsPublisher(ctx, a.Config.Sheets, a.Config.Attendance.SheetName, a.Logger)
		if err != nil {
			return apierrors.NewConfigError("failed to initialize Google Sheets publisher", err)
		}
		opts = append(opts, services.WithPublisher(publisher))
		a.Logger.Info("Google Sheets publishing enabled",
			slog.String("spreadsheet_id", a.Config.Sheets.SpreadsheetID))
	}

	a.AttendanceService = services.NewAttendanceService(a.Config.Attendance, reader, a.Logger, opts...)
	a.HealthService = services.NewHealthService(a.Paths, a.AttendanceService, hub, a.Logger)

	// started last so an initialization error leaves no goroutine behind
	hub.Start()
	a.WebSocketHub = hub

	return nil
}

// setupRouter configures the HTTP router with all routes and middleware
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// WebSocket upgrades skip the response-wrapping middleware
	wsHandler := ws.NewHandler(a.WebSocketHub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger)
	r.Handle("/ws", wsHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(middleware.StructuredLogger(a.Logger))
		r.Use(middleware.Recoverer(a.errorHandler))
		r.Use(middleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(middleware.CORS(middleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}

		if rl := a.Config.Security.RateLimit; rl.Enabled {
			r.Use(middleware.NewRateLimiter(rl.RPS, rl.Burst, a.Logger, a.errorHandler).Handler)
		}

		r.Route("/api", a.setupAPIRoutes)

		if a.OTelProviders.PrometheusHTTP != nil {
			r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
		}
	})

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes mounts the JSON API
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(middleware.Timeout(a.Config.Server.RequestTimeout))
	r.Use(middleware.MaxBodySize(a.Config.Attendance.MaxInputBytes + bodyOverhead))

	health := handlers.NewHealthHandler(a.HealthService, a.Logger)
	r.Get("/health", health.HealthCheck)
	r.Get("/health/ready", health.ReadinessCheck)
	r.Get("/version", health.Version)

	attendance := handlers.NewAttendanceHandler(
		a.AttendanceService,
		middleware.NewValidator(a.Logger),
		a.Logger,
		a.errorHandler,
	)
	r.Mount("/attendance", attendance.Routes())
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("Server starting", slog.String("addr", ln.Addr().String()))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		return a.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Run listens on the configured address and blocks until SIGINT or SIGTERM
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		_ = a.Stop(context.Background())
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}

	start := time.Now()
	err = a.Serve(ctx, ln)
	a.Logger.Info("Server stopped", slog.Duration("uptime", time.Since(start)))
	return err
}

// Stop gracefully stops the application. It is safe to call more than once.
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.shutdown(ctx)
	})
	return a.stopErr
}

func (a *Application) shutdown(ctx context.Context) error {
	a.Logger.Info("Shutting down server")

	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}

	if a.WebSocketHub != nil {
		a.WebSocketHub.Stop()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}
