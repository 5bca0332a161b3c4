package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"rollbook/internal/config"
	"rollbook/pkg/contracts"
)

// ClientCounter reports connected WebSocket clients.
type ClientCounter interface {
	ClientCount() int
}

// hubMetrics is implemented by hubs that expose delivery counters.
type hubMetrics interface {
	HubMetrics() map[string]interface{}
}

// HealthService provides health check functionality
type HealthService struct {
	paths      *config.Paths
	attendance *AttendanceService
	clients    ClientCounter
	startTime  time.Time
	logger     *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`

	Details map[string]interface{} `json:"details,omitempty"`
}

// NewHealthService creates a new health service. clients may be nil.
func NewHealthService(paths *config.Paths, attendance *AttendanceService, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", contracts.Version))

	return &HealthService{
		paths:      paths,
		attendance: attendance,
		clients:    clients,
		startTime:  time.Now(),
		logger:     logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// ReadinessCheck returns readiness status. Having no snapshot loaded does not
// make the service unready.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services: map[string]ServiceHealth{
			"reports":    hs.checkReportsHealth(),
			"websocket":  hs.checkWebSocketHealth(),
			"attendance": hs.checkAttendanceHealth(),
		},
	}

	for name, service := range status.Services {
		if service.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "ReadinessCheck: service not ready",
				slog.String("service", name),
				slog.String("message", service.Message))
		}
	}
	return status
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) checkReportsHealth() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: "not_ready", Message: "paths not resolved"}
	}

	dir := hs.paths.ReportsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Cannot create reports directory: %v", err),
		}
	}

	probe := filepath.Join(dir, ".health_check")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("Cannot write to reports directory: %v", err),
		}
	}
	os.Remove(probe)

	return ServiceHealth{Status: "ready", Message: "Reports directory is writable"}
}

func (hs *HealthService) checkWebSocketHealth() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: "not_ready", Message: "WebSocket hub not initialized"}
	}
	health := ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d clients connected", hs.clients.ClientCount()),
		Uptime:  time.Since(hs.startTime).String(),
	}
	if m, ok := hs.clients.(hubMetrics); ok {
		health.Details = m.HubMetrics()
	}
	return health
}

func (hs *HealthService) checkAttendanceHealth() ServiceHealth {
	if hs.attendance == nil {
		return ServiceHealth{Status: "not_ready", Message: "attendance service not initialized"}
	}
	snap, err := hs.attendance.Current()
	if err != nil {
		return ServiceHealth{Status: "ready", Message: "No attendance data loaded"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("Snapshot %s: %d sessions, %d rolls", snap.ID, snap.Matrix.SessionCount(), snap.Matrix.RollCount()),
	}
}
