package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "rollbook/internal/errors"
	"rollbook/internal/exporter"
	"rollbook/internal/middleware"
	"rollbook/internal/services"
	"rollbook/pkg/contracts/domain"
)

// uploadMemory is the multipart size kept in memory before spilling to disk.
const uploadMemory = 1 << 20

// AttendanceService is the part of services.AttendanceService the handler uses.
type AttendanceService interface {
	Process(ctx context.Context, text, source string) (*services.Snapshot, error)
	LoadUpload(ctx context.Context, name string, r io.Reader) (*services.Snapshot, error)
	StoredLogs(ctx context.Context) (domain.StoredLogList, error)
	LoadStored(ctx context.Context, name string) (*services.Snapshot, error)
	Current() (*services.Snapshot, error)
	Page(ctx context.Context, req domain.PageRequest) (domain.AttendanceView, error)
	Roll(ctx context.Context, roll string) (domain.RollView, error)
	Export(ctx context.Context, format string) (*services.ExportResult, error)
	Publish(ctx context.Context) (domain.PublishResult, error)
	FormatHelp() domain.FormatHelp
}

// AttendanceHandler handles attendance HTTP requests with RFC 7807 errors
type AttendanceHandler struct {
	service      AttendanceService
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(service AttendanceService, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AttendanceHandler {
	return &AttendanceHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "attendance_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the attendance routes
func (h *AttendanceHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.ContentTypeValidator(h.errorHandler, "application/json", "text/plain")).
		Post("/parse", h.Parse)
	r.With(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data")).
		Post("/upload", h.Upload)
	r.Get("/files", h.ListStored)
	r.Post("/files/{name}/load", h.LoadStored)

	r.Get("/", h.GetPage)
	r.Get("/format", h.GetFormat)
	r.Get("/rolls/{roll}", h.GetRoll)
	r.Get("/export/{format}", h.Export)
	r.Post("/publish", h.Publish)

	return r
}

// Parse handles POST /api/attendance/parse
func (h *AttendanceHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req domain.ParseRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		req.Text = string(body)
		req.Source = r.URL.Query().Get("source")
	} else {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			var maxBytes *http.MaxBytesError
			if errors.As(err, &maxBytes) {
				h.errorHandler.HandleError(w, r, err)
				return
			}
			h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
			return
		}
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	snap, err := h.service.Process(r.Context(), req.Text, req.Source)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}

	h.logger.InfoContext(r.Context(), "attendance log parsed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("snapshot_id", snap.ID))

	h.renderFirstPage(w, r)
}

// Upload handles POST /api/attendance/upload
func (h *AttendanceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "file is required"))
		return
	}
	defer file.Close()

	snap, err := h.service.LoadUpload(r.Context(), header.Filename, file)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}

	h.logger.InfoContext(r.Context(), "attendance log uploaded",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file", header.Filename),
		slog.Int64("size", header.Size),
		slog.String("snapshot_id", snap.ID))

	h.renderFirstPage(w, r)
}

// ListStored handles GET /api/attendance/files
func (h *AttendanceHandler) ListStored(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.StoredLogs(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}
	render.JSON(w, r, list)
}

// LoadStored handles POST /api/attendance/files/{name}/load
func (h *AttendanceHandler) LoadStored(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	snap, err := h.service.LoadStored(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}

	h.logger.InfoContext(r.Context(), "stored attendance log loaded",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("file", name),
		slog.String("snapshot_id", snap.ID))

	h.renderFirstPage(w, r)
}

func (h *AttendanceHandler) renderFirstPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Page(r.Context(), domain.PageRequest{Page: 1})
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// GetPage handles GET /api/attendance
func (h *AttendanceHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Page(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}
	render.JSON(w, r, view)
}

func parsePageRequest(r *http.Request) (domain.PageRequest, error) {
	var req domain.PageRequest
	q := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"page", &req.Page},
		{"page_size", &req.PageSize},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, apierrors.ErrValidation(p.name, "must be an integer")
		}
		*p.dst = n
	}
	return req, nil
}

// GetFormat handles GET /api/attendance/format
func (h *AttendanceHandler) GetFormat(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.FormatHelp())
}

// GetRoll handles GET /api/attendance/rolls/{roll}
func (h *AttendanceHandler) GetRoll(w http.ResponseWriter, r *http.Request) {
	roll := chi.URLParam(r, "roll")

	view, err := h.service.Roll(r.Context(), roll)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}
	render.JSON(w, r, view)
}

// Export handles GET /api/attendance/export/{format}. The ETag is the
// snapshot digest, so an unchanged log answers If-None-Match with 304
// without rendering.
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := exporter.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.UnsupportedFormat(chi.URLParam(r, "format"), exporter.SupportedFormats()))
		return
	}

	snap, err := h.service.Current()
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}

	etag := `"` + snap.Digest + `"`
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	result, err := h.service.Export(r.Context(), string(format))
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("ETag", `"`+result.Digest+`"`)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}

func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

// Publish handles POST /api/attendance/publish
func (h *AttendanceHandler) Publish(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Publish(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(r, err))
		return
	}
	render.JSON(w, r, result)
}

// mapServiceError translates service sentinels into API errors. Anything
// else is passed through for ErrorHandler to classify.
func mapServiceError(r *http.Request, err error) error {
	switch {
	case errors.Is(err, services.ErrNoAttendanceData):
		return apierrors.ErrNoAttendanceData
	case errors.Is(err, services.ErrRollNotFound):
		return apierrors.RollNotFound(chi.URLParam(r, "roll"))
	case errors.Is(err, services.ErrLogNotFound):
		return apierrors.LogNotFound(chi.URLParam(r, "name"))
	case errors.Is(err, services.ErrInvalidLogName):
		return apierrors.ErrValidation("name", "must be a .txt or .log file name in the data directory")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.UnsupportedFormat(chi.URLParam(r, "format"), exporter.SupportedFormats())
	case errors.Is(err, services.ErrInputTooLarge):
		return apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, apierrors.CodePayloadTooLarge,
			apierrors.ErrPayloadTooLarge.Message, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return apierrors.ErrValidation("page_size", strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": "))
	case errors.Is(err, services.ErrPublishingDisabled):
		return apierrors.ErrPublishingDisabled
	case errors.Is(err, services.ErrPublishFailed):
		return apierrors.PublishFailed(err)
	}

	var appErr *apierrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apierrors.ErrTypeStorage {
		return apierrors.UnprocessableFile(err)
	}
	return err
}
