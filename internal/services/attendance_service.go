package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/singleflight"

	"rollbook/internal/attendance"
	"rollbook/internal/config"
	apperrors "rollbook/internal/errors"
	"rollbook/internal/exporter"
	"rollbook/internal/files"
	"rollbook/internal/infrastructure"
	"rollbook/internal/validation"
	"rollbook/pkg/contracts/domain"
	"rollbook/pkg/contracts/events"
)

// Source kinds recorded on parse metrics.
const (
	SourceText   = "text"
	SourceFile   = "file"
	SourceUpload = "upload"
)

// FileReader reads attendance logs.
type FileReader interface {
	ReadFile(ctx context.Context, path string) (string, error)
	ReadUpload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Publisher pushes an export table to an external spreadsheet.
type Publisher interface {
	Publish(ctx context.Context, table attendance.ExportTable) (domain.PublishResult, error)
}

// Notifier receives an event after every successful parse. Broadcast must
// not block.
type Notifier interface {
	Broadcast(msg events.Message)
}

// LogLibrary lists and resolves logs kept in the data directory.
type LogLibrary interface {
	FindLogs() ([]files.FileInfo, error)
	Resolve(name string) (string, error)
}

// ExportResult is a rendered export file.
type ExportResult struct {
	Data        []byte
	FileName    string
	ContentType string
	Digest      string
}

// AttendanceService owns the current attendance snapshot.
type AttendanceService struct {
	cfg       config.AttendanceConfig
	reader    FileReader
	publisher Publisher
	notifier  Notifier
	library   LogLibrary
	metrics   *infrastructure.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
	now       func() time.Time

	current atomic.Pointer[Snapshot]
	exports singleflight.Group
}

// Option configures an AttendanceService.
type Option func(*AttendanceService)

// WithPublisher enables publishing to Google Sheets.
func WithPublisher(p Publisher) Option {
	return func(s *AttendanceService) { s.publisher = p }
}

// WithNotifier sets the parse event receiver.
func WithNotifier(n Notifier) Option {
	return func(s *AttendanceService) { s.notifier = n }
}

// WithLibrary enables listing and loading logs from the data directory.
func WithLibrary(l LogLibrary) Option {
	return func(s *AttendanceService) { s.library = l }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *infrastructure.Metrics) Option {
	return func(s *AttendanceService) { s.metrics = m }
}

// WithTracer sets the tracer used for service spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *AttendanceService) { s.tracer = t }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *AttendanceService) { s.now = now }
}

// NewAttendanceService creates the service with no snapshot loaded.
func NewAttendanceService(cfg config.AttendanceConfig, reader FileReader, logger *slog.Logger, opts ...Option) *AttendanceService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &AttendanceService{
		cfg:    cfg,
		reader: reader,
		tracer: noop.NewTracerProvider().Tracer(""),
		logger: infrastructure.WithComponent(logger, "attendance_service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("AttendanceService initialized",
		slog.Int("page_size", cfg.PageSize),
		slog.Int("max_page_size", cfg.MaxPageSize),
		slog.Int64("max_input_bytes", cfg.MaxInputBytes),
		slog.Bool("publishing", s.publisher != nil),
		slog.Bool("library", s.library != nil))
	return s
}

// Process parses text and replaces the current snapshot.
func (s *AttendanceService) Process(ctx context.Context, text, source string) (*Snapshot, error) {
	return s.process(ctx, text, source, SourceText)
}

// LoadFile reads the log at path and replaces the current snapshot. On a
// read failure the previous snapshot stays current.
func (s *AttendanceService) LoadFile(ctx context.Context, path string) (*Snapshot, error) {
	return s.loadPath(ctx, path, path)
}

func (s *AttendanceService) loadPath(ctx context.Context, path, source string) (*Snapshot, error) {
	text, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, s.readFailed(ctx, SourceFile, path, err)
	}
	return s.process(ctx, text, source, SourceFile)
}

// StoredLogs lists the logs in the data directory, newest first. Without a
// library the list is empty.
func (s *AttendanceService) StoredLogs(ctx context.Context) (domain.StoredLogList, error) {
	list := domain.StoredLogList{Logs: []domain.StoredLog{}}
	if s.library == nil {
		return list, nil
	}

	found, err := s.library.FindLogs()
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list stored logs", slog.String("error", err.Error()))
		return list, apperrors.NewStorageError("failed to list stored logs", err)
	}

	for _, f := range found {
		list.Logs = append(list.Logs, domain.StoredLog{
			Name:       f.Name,
			Size:       f.Size,
			ModifiedAt: f.ModTime,
		})
	}
	list.Count = len(list.Logs)
	return list, nil
}

// LoadStored parses the named log from the data directory and replaces the
// current snapshot.
func (s *AttendanceService) LoadStored(ctx context.Context, name string) (*Snapshot, error) {
	if s.library == nil {
		return nil, fmt.Errorf("%w: %s", ErrLogNotFound, name)
	}

	path, err := s.library.Resolve(name)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrInvalidName):
			return nil, fmt.Errorf("%w: %s", ErrInvalidLogName, name)
		case errors.Is(err, files.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrLogNotFound, name)
		}
		return nil, apperrors.NewStorageError("failed to resolve stored log", err)
	}

	return s.loadPath(ctx, path, name)
}

// LoadUpload reads an uploaded log and replaces the current snapshot.
func (s *AttendanceService) LoadUpload(ctx context.Context, name string, r io.Reader) (*Snapshot, error) {
	text, err := s.reader.ReadUpload(ctx, name, r)
	if err != nil {
		return nil, s.readFailed(ctx, SourceUpload, name, err)
	}
	return s.process(ctx, text, name, SourceUpload)
}

func (s *AttendanceService) process(ctx context.Context, text, source, kind string) (*Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.parse",
		trace.WithAttributes(
			attribute.String("attendance.source_kind", kind),
			attribute.Int("attendance.input_bytes", len(text)),
		))
	defer span.End()

	start := s.now()
	if s.cfg.MaxInputBytes > 0 && int64(len(text)) > s.cfg.MaxInputBytes {
		err := fmt.Errorf("%w: %d > %d bytes", ErrInputTooLarge, len(text), s.cfg.MaxInputBytes)
		infrastructure.RecordError(ctx, err)
		s.metrics.RecordParse(ctx, kind, 0, 0, 0, err)
		return nil, err
	}

	if source == "" {
		source = "inline"
	}
	snap := newSnapshot(text, source, start.UTC())
	s.current.Store(snap)

	duration := s.now().Sub(start)
	sessions, rolls := snap.Matrix.SessionCount(), snap.Matrix.RollCount()
	s.metrics.RecordParse(ctx, kind, duration, sessions, rolls, nil)
	span.SetAttributes(
		attribute.String("attendance.snapshot_id", snap.ID),
		attribute.Int("attendance.sessions", sessions),
		attribute.Int("attendance.rolls", rolls),
	)

	s.logger.InfoContext(ctx, "Attendance parsed",
		slog.String("snapshot_id", snap.ID),
		slog.String("source", source),
		slog.String("source_kind", kind),
		slog.Int("sessions", sessions),
		slog.Int("rolls", rolls),
		slog.Duration("duration", duration))

	s.notify(ctx, snap)
	return snap, nil
}

func (s *AttendanceService) readFailed(ctx context.Context, kind, name string, err error) error {
	s.metrics.RecordParse(ctx, kind, 0, 0, 0, err)
	s.logger.WarnContext(ctx, "Attendance read failed, keeping current snapshot",
		slog.String("source", name),
		slog.String("source_kind", kind),
		slog.String("error", err.Error()))

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, validation.ErrFileTooLarge):
		return fmt.Errorf("%w: %v", ErrInputTooLarge, err)
	case errors.Is(err, validation.ErrUnsupportedExtension), errors.Is(err, validation.ErrEmptyName):
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid attendance file", err)
	case errors.Is(err, validation.ErrFileNotFound):
		return apperrors.NewAppError(apperrors.ErrTypeNotFound, "attendance file not found", err)
	}
	return apperrors.NewStorageError("failed to read attendance log", err).WithContext("source", name)
}

func (s *AttendanceService) notify(ctx context.Context, snap *Snapshot) {
	if s.notifier == nil {
		return
	}
	s.notifier.Broadcast(events.Message{
		Type:      events.MessageTypeAttendanceUpdated,
		Timestamp: snap.ParsedAt,
		TraceID:   infrastructure.GetTraceID(ctx),
		Data: events.AttendanceUpdated{
			ID:       snap.ID,
			Digest:   snap.Digest,
			Source:   snap.Source,
			Sessions: snap.Matrix.SessionCount(),
			Rolls:    snap.Matrix.RollCount(),
		},
	})
}

// Current returns the current snapshot or ErrNoAttendanceData.
func (s *AttendanceService) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoAttendanceData
	}
	return snap, nil
}

// Page returns one page of the current snapshot. A zero page size selects
// the configured default; the page number is clamped into range.
func (s *AttendanceService) Page(ctx context.Context, req domain.PageRequest) (domain.AttendanceView, error) {
	snap, err := s.Current()
	if err != nil {
		return domain.AttendanceView{}, err
	}

	size := req.PageSize
	if size == 0 {
		size = s.cfg.PageSize
	}
	if size < 0 || (s.cfg.MaxPageSize > 0 && size > s.cfg.MaxPageSize) {
		return domain.AttendanceView{}, fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalidInput, s.cfg.MaxPageSize)
	}

	page := attendance.Paginate(snap.Matrix.Rolls(), size, req.Page)
	rows := make([]domain.AttendanceRow, 0, len(page.Items))
	for _, roll := range page.Items {
		row, _ := snap.Row(roll)
		rows = append(rows, row)
	}

	s.logger.DebugContext(ctx, "Attendance page served",
		slog.String("snapshot_id", snap.ID),
		slog.Int("page", page.Number),
		slog.Int("page_size", page.Size),
		slog.Int("rows", len(rows)))

	return domain.AttendanceView{
		Snapshot: snap.Info(),
		Sessions: snap.Matrix.Labels(),
		Rows:     rows,
		Page: domain.PageInfo{
			Number:     page.Number,
			Size:       page.Size,
			TotalPages: page.TotalPages,
			TotalRolls: page.TotalItems,
			HasNext:    page.HasNext(),
			HasPrev:    page.HasPrev(),
		},
	}, nil
}

// Roll returns one roll of the current snapshot.
func (s *AttendanceService) Roll(ctx context.Context, roll string) (domain.RollView, error) {
	snap, err := s.Current()
	if err != nil {
		return domain.RollView{}, err
	}

	row, ok := snap.Row(roll)
	if !ok {
		return domain.RollView{}, fmt.Errorf("%w: %q", ErrRollNotFound, roll)
	}
	return domain.RollView{
		Snapshot: snap.Info(),
		Sessions: snap.Matrix.Labels(),
		Row:      row,
	}, nil
}

// Export renders the current snapshot in format. Concurrent requests for the
// same snapshot and format share one rendering.
func (s *AttendanceService) Export(ctx context.Context, format string) (*ExportResult, error) {
	snap, err := s.Current()
	if err != nil {
		return nil, err
	}

	writer, err := exporter.ForFormat(format, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	ctx, span := s.tracer.Start(ctx, "attendance.export",
		trace.WithAttributes(
			attribute.String("attendance.format", writer.Extension()),
			attribute.String("attendance.snapshot_id", snap.ID),
		))
	defer span.End()

	key := snap.Digest + "/" + writer.Extension()
	v, err, shared := s.exports.Do(key, func() (interface{}, error) {
		var buf bytes.Buffer
		if err := writer.WriteTable(&buf, attendance.Project(snap.Matrix)); err != nil {
			return nil, apperrors.NewExportError("failed to render "+writer.Extension(), err)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "Export failed",
			slog.String("format", writer.Extension()),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.metrics.RecordExport(ctx, writer.Extension())
	data := v.([]byte)
	s.logger.InfoContext(ctx, "Attendance exported",
		slog.String("snapshot_id", snap.ID),
		slog.String("format", writer.Extension()),
		slog.Int("bytes", len(data)),
		slog.Bool("shared", shared))

	return &ExportResult{
		Data:        data,
		FileName:    s.cfg.ReportFileName(writer.Extension()),
		ContentType: writer.ContentType(),
		Digest:      snap.Digest,
	}, nil
}

// PublishingEnabled reports whether a publisher is configured.
func (s *AttendanceService) PublishingEnabled() bool {
	return s.publisher != nil
}

// Publish writes the current snapshot's export rows to Google Sheets.
func (s *AttendanceService) Publish(ctx context.Context) (domain.PublishResult, error) {
	if s.publisher == nil {
		return domain.PublishResult{}, ErrPublishingDisabled
	}
	snap, err := s.Current()
	if err != nil {
		return domain.PublishResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, "attendance.publish",
		trace.WithAttributes(attribute.String("attendance.snapshot_id", snap.ID)))
	defer span.End()

	result, err := s.publisher.Publish(ctx, attendance.Project(snap.Matrix))
	s.metrics.RecordPublish(ctx, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return domain.PublishResult{}, fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}

	s.logger.InfoContext(ctx, "Attendance published",
		slog.String("snapshot_id", snap.ID),
		slog.String("range", result.Range))
	return result, nil
}

// FormatHelp describes the accepted log grammar.
func (s *AttendanceService) FormatHelp() domain.FormatHelp {
	return domain.FormatHelp{
		SessionPrefix: attendance.SessionPrefix,
		RosterPrefix:  attendance.RosterPrefix,
		Separator:     ",",
		Example:       "Date: 01-01-2024\nRoll: 1,2,3\nDate: 02-01-2024\nRoll: 2,3",
		Rules: []string{
			"Each line starts with \"Date:\" or \"Roll:\"; other lines are ignored.",
			"The value is everything after the first \": \", trimmed.",
			"A Date line opens a new session; its label is kept as written.",
			"A Roll line marks its comma-separated rolls present in the latest session.",
			"Roll lines before the first Date line list rolls without marking them.",
			"Rolls appear in the order they are first seen.",
		},
	}
}
