package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application instruments
type Metrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	ParsesTotal      metric.Int64Counter
	ParseDuration    metric.Float64Histogram
	ParsedSessions   metric.Int64Histogram
	ParsedRolls      metric.Int64Histogram
	ExportsTotal     metric.Int64Counter
	PublishesTotal   metric.Int64Counter
	WebSocketClients metric.Int64UpDownCounter
}

// NewMetrics creates every instrument on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.ParsesTotal, err = meter.Int64Counter(
		"attendance_parses_total",
		metric.WithDescription("Attendance logs parsed, by source kind and result"),
	); err != nil {
		return nil, err
	}

	if m.ParseDuration, err = meter.Float64Histogram(
		"attendance_parse_duration_seconds",
		metric.WithDescription("Time spent building the attendance matrix"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.ParsedSessions, err = meter.Int64Histogram(
		"attendance_sessions",
		metric.WithDescription("Sessions per parsed log"),
	); err != nil {
		return nil, err
	}

	if m.ParsedRolls, err = meter.Int64Histogram(
		"attendance_rolls",
		metric.WithDescription("Distinct rolls per parsed log"),
	); err != nil {
		return nil, err
	}

	if m.ExportsTotal, err = meter.Int64Counter(
		"attendance_exports_total",
		metric.WithDescription("Attendance exports, by format"),
	); err != nil {
		return nil, err
	}

	if m.PublishesTotal, err = meter.Int64Counter(
		"attendance_publishes_total",
		metric.WithDescription("Google Sheets publish attempts, by result"),
	); err != nil {
		return nil, err
	}

	if m.WebSocketClients, err = meter.Int64UpDownCounter(
		"websocket_clients",
		metric.WithDescription("Connected WebSocket clients"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordParse records one parse attempt. Safe on a nil receiver.
func (m *Metrics) RecordParse(ctx context.Context, source string, duration time.Duration, sessions, rolls int, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("result", result),
	)
	m.ParsesTotal.Add(ctx, 1, attrs)
	if err != nil {
		return
	}
	m.ParseDuration.Record(ctx, duration.Seconds(), attrs)
	m.ParsedSessions.Record(ctx, int64(sessions))
	m.ParsedRolls.Record(ctx, int64(rolls))
}

// RecordExport counts one export. Safe on a nil receiver.
func (m *Metrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.ExportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordPublish counts one publish attempt. Safe on a nil receiver.
func (m *Metrics) RecordPublish(ctx context.Context, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.PublishesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordWebSocketClients adjusts the connected client gauge. Safe on a nil receiver.
func (m *Metrics) RecordWebSocketClients(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketClients.Add(ctx, delta)
}
