package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rollbook/internal/config"
	apierrors "rollbook/internal/errors"
	"rollbook/internal/middleware"
	"rollbook/internal/services"
	"rollbook/internal/shared/testutil"
	"rollbook/internal/validation"
	"rollbook/pkg/contracts/domain"
)

const sampleLog = "Date: 01-01-2024\nRoll: 1,2,3\nDate: 02-01-2024\nRoll: 2,3"

// MockAttendanceService is a mock implementation of AttendanceService
type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) Process(ctx context.Context, text, source string) (*services.Snapshot, error) {
	args := m.Called(text, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Snapshot), args.Error(1)
}

func (m *MockAttendanceService) LoadUpload(ctx context.Context, name string, r io.Reader) (*services.Snapshot, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(name, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Snapshot), args.Error(1)
}

func (m *MockAttendanceService) StoredLogs(ctx context.Context) (domain.StoredLogList, error) {
	args := m.Called()
	return args.Get(0).(domain.StoredLogList), args.Error(1)
}

func (m *MockAttendanceService) LoadStored(ctx context.Context, name string) (*services.Snapshot, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Snapshot), args.Error(1)
}

func (m *MockAttendanceService) Current() (*services.Snapshot, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Snapshot), args.Error(1)
}

func (m *MockAttendanceService) Page(ctx context.Context, req domain.PageRequest) (domain.AttendanceView, error) {
	args := m.Called(req)
	return args.Get(0).(domain.AttendanceView), args.Error(1)
}

func (m *MockAttendanceService) Roll(ctx context.Context, roll string) (domain.RollView, error) {
	args := m.Called(roll)
	return args.Get(0).(domain.RollView), args.Error(1)
}

func (m *MockAttendanceService) Export(ctx context.Context, format string) (*services.ExportResult, error) {
	args := m.Called(format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

func (m *MockAttendanceService) Publish(ctx context.Context) (domain.PublishResult, error) {
	args := m.Called()
	return args.Get(0).(domain.PublishResult), args.Error(1)
}

func (m *MockAttendanceService) FormatHelp() domain.FormatHelp {
	return m.Called().Get(0).(domain.FormatHelp)
}

func newTestRouter(t *testing.T, svc AttendanceService, maxBody int64) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	h := NewAttendanceHandler(svc, middleware.NewValidator(logger), logger, errorHandler)

	r := chi.NewRouter()
	if maxBody > 0 {
		r.Use(middleware.MaxBodySize(maxBody))
	}
	r.Mount("/api/attendance", h.Routes())
	return r
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestAttendanceHandler_GetPage(t *testing.T) {
	view := domain.AttendanceView{
		Sessions: []string{"01-01-2024"},
		Rows:     []domain.AttendanceRow{{Roll: "1", Marks: []string{"P"}, PresentCount: 1, Percentage: 100, PercentageText: "100.00%"}},
		Page:     domain.PageInfo{Number: 2, Size: 5, TotalPages: 3, TotalRolls: 11},
	}

	tests := []struct {
		name         string
		query        string
		setupMock    func(m *MockAttendanceService)
		expectedCode int
		errorCode    string
	}{
		{
			name:  "defaults",
			query: "",
			setupMock: func(m *MockAttendanceService) {
				m.On("Page", domain.PageRequest{}).Return(view, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "explicit page",
			query: "?page=2&page_size=5",
			setupMock: func(m *MockAttendanceService) {
				m.On("Page", domain.PageRequest{Page: 2, PageSize: 5}).Return(view, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "non-numeric page",
			query:        "?page=two",
			setupMock:    func(m *MockAttendanceService) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    apierrors.CodeValidationFailed,
		},
		{
			name:         "negative page size",
			query:        "?page_size=-1",
			setupMock:    func(m *MockAttendanceService) {},
			expectedCode: http.StatusBadRequest,
			errorCode:    apierrors.CodeValidationFailed,
		},
		{
			name:  "page size above maximum",
			query: "?page_size=1000",
			setupMock: func(m *MockAttendanceService) {
				m.On("Page", domain.PageRequest{PageSize: 1000}).
					Return(domain.AttendanceView{}, fmt.Errorf("%w: page_size must be between 1 and 100", services.ErrInvalidInput))
			},
			expectedCode: http.StatusBadRequest,
			errorCode:    apierrors.CodeValidationFailed,
		},
		{
			name:  "no data",
			query: "",
			setupMock: func(m *MockAttendanceService) {
				m.On("Page", domain.PageRequest{}).Return(domain.AttendanceView{}, services.ErrNoAttendanceData)
			},
			expectedCode: http.StatusNotFound,
			errorCode:    apierrors.CodeNoAttendanceData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAttendanceService)
			tt.setupMock(svc)
			router := newTestRouter(t, svc, 0)

			req := httptest.NewRequest(http.MethodGet, "/api/attendance"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code, rec.Body.String())
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, decodeProblem(t, rec)["error_code"])
			} else {
				var got domain.AttendanceView
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, view.Rows, got.Rows)
				assert.Equal(t, view.Page, got.Page)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestAttendanceHandler_ParseJSON(t *testing.T) {
	svc := new(MockAttendanceService)
	svc.On("Process", sampleLog, "class-a.txt").Return(&services.Snapshot{ID: "snap-1"}, nil)
	svc.On("Page", domain.PageRequest{Page: 1}).Return(domain.AttendanceView{Sessions: []string{"01-01-2024", "02-01-2024"}}, nil)
	router := newTestRouter(t, svc, 0)

	body, _ := json.Marshal(domain.ParseRequest{Text: sampleLog, Source: "class-a.txt"})
	req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "02-01-2024")
	svc.AssertExpectations(t)
}

func TestAttendanceHandler_ParsePlainText(t *testing.T) {
	svc := new(MockAttendanceService)
	svc.On("Process", sampleLog, "roll.txt").Return(&services.Snapshot{ID: "snap-1"}, nil)
	svc.On("Page", domain.PageRequest{Page: 1}).Return(domain.AttendanceView{}, nil)
	router := newTestRouter(t, svc, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse?source=roll.txt", strings.NewReader(sampleLog))
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestAttendanceHandler_ParseErrors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		router := newTestRouter(t, new(MockAttendanceService), 0)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid source name", func(t *testing.T) {
		router := newTestRouter(t, new(MockAttendanceService), 0)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse",
			strings.NewReader(`{"text":"Date: x","source":"../etc/passwd"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apierrors.CodeValidationFailed, decodeProblem(t, rec)["error_code"])
	})

	for _, source := range []string{"../etc/passwd", `dir\roll.txt`, "logs/roll.txt"} {
		t.Run("invalid plain text source "+source, func(t *testing.T) {
			svc := new(MockAttendanceService)
			router := newTestRouter(t, svc, 0)
			req := httptest.NewRequest(http.MethodPost,
				"/api/attendance/parse?source="+url.QueryEscape(source), strings.NewReader(sampleLog))
			req.Header.Set("Content-Type", "text/plain")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, apierrors.CodeValidationFailed, decodeProblem(t, rec)["error_code"])
			svc.AssertNotCalled(t, "Process", mock.Anything, mock.Anything)
		})
	}

	t.Run("unsupported content type", func(t *testing.T) {
		router := newTestRouter(t, new(MockAttendanceService), 0)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse", strings.NewReader("<xml/>"))
		req.Header.Set("Content-Type", "application/xml")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		router := newTestRouter(t, new(MockAttendanceService), 16)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse", strings.NewReader(sampleLog))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("service rejects size", func(t *testing.T) {
		svc := new(MockAttendanceService)
		svc.On("Process", "x", "").Return(nil, fmt.Errorf("%w: 1 > 0 bytes", services.ErrInputTooLarge))
		router := newTestRouter(t, svc, 0)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse", strings.NewReader(`{"text":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, apierrors.CodePayloadTooLarge, decodeProblem(t, rec)["error_code"])
	})
}

func newUpload(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAttendanceHandler_Upload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(MockAttendanceService)
		svc.On("LoadUpload", "class.txt", sampleLog).Return(&services.Snapshot{ID: "snap"}, nil)
		svc.On("Page", domain.PageRequest{Page: 1}).Return(domain.AttendanceView{}, nil)
		router := newTestRouter(t, svc, 0)

		body, contentType := newUpload(t, "file", "class.txt", sampleLog)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		router := newTestRouter(t, new(MockAttendanceService), 0)
		body, contentType := newUpload(t, "document", "class.txt", sampleLog)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unreadable file", func(t *testing.T) {
		svc := new(MockAttendanceService)
		svc.On("LoadUpload", "class.txt", sampleLog).
			Return(nil, apierrors.NewStorageError("failed to read attendance log", io.ErrUnexpectedEOF))
		router := newTestRouter(t, svc, 0)

		body, contentType := newUpload(t, "file", "class.txt", sampleLog)
		req := httptest.NewRequest(http.MethodPost, "/api/attendance/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), apierrors.CodeUnprocessableFile)
	})
}

func TestAttendanceHandler_GetRoll(t *testing.T) {
	svc := new(MockAttendanceService)
	svc.On("Roll", "2").Return(domain.RollView{Row: domain.AttendanceRow{Roll: "2", PresentCount: 2}}, nil)
	svc.On("Roll", "99").Return(domain.RollView{}, fmt.Errorf("%w: %q", services.ErrRollNotFound, "99"))
	router := newTestRouter(t, svc, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/rolls/2", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"present_count":2`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/rolls/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	problem := decodeProblem(t, rec)
	assert.Equal(t, apierrors.CodeRollNotFound, problem["error_code"])
	assert.Equal(t, "99", problem["details"])
}

func TestAttendanceHandler_Export(t *testing.T) {
	snap := &services.Snapshot{ID: "snap", Digest: "abc123"}

	t.Run("download", func(t *testing.T) {
		svc := new(MockAttendanceService)
		svc.On("Current").Return(snap, nil)
		svc.On("Export", "csv").Return(&services.ExportResult{
			Data:        []byte("Roll,Present Count,Percentage\n"),
			FileName:    "Attendance_Report.csv",
			ContentType: "text/csv; charset=utf-8",
			Digest:      "abc123",
		}, nil)
		router := newTestRouter(t, svc, 0)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/export/CSV", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="Attendance_Report.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, `"abc123"`, rec.Header().Get("ETag"))
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Roll,Present Count,Percentage\n", rec.Body.String())
	})

	t.Run("not modified", func(t *testing.T) {
		svc := new(MockAttendanceService)
		svc.On("Current").Return(snap, nil)
		router := newTestRouter(t, svc, 0)

		req := httptest.NewRequest(http.MethodGet, "/api/attendance/export/xlsx", nil)
		req.Header.Set("If-None-Match", `"other", "abc123"`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotModified, rec.Code)
		assert.Empty(t, rec.Body.String())
		svc.AssertNotCalled(t, "Export", mock.Anything)
	})

	t.Run("unsupported format", func(t *testing.T) {
		router := newTestRouter(t, new(MockAttendanceService), 0)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/export/docx", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apierrors.CodeUnsupportedFormat, decodeProblem(t, rec)["error_code"])
	})

	t.Run("no data", func(t *testing.T) {
		svc := new(MockAttendanceService)
		svc.On("Current").Return(nil, services.ErrNoAttendanceData)
		router := newTestRouter(t, svc, 0)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/export/pdf", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAttendanceHandler_Publish(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		errorCode    string
	}{
		{name: "success", expectedCode: http.StatusOK},
		{name: "disabled", err: services.ErrPublishingDisabled, expectedCode: http.StatusServiceUnavailable, errorCode: apierrors.CodePublishingDisabled},
		{name: "upstream", err: fmt.Errorf("%w: quota", services.ErrPublishFailed), expectedCode: http.StatusBadGateway, errorCode: apierrors.CodePublishFailed},
		{name: "unexpected", err: errors.New("boom"), expectedCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAttendanceService)
			svc.On("Publish").Return(domain.PublishResult{SpreadsheetID: "s", Range: "Attendance!A1:E4"}, tt.err)
			router := newTestRouter(t, svc, 0)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/attendance/publish", nil))

			assert.Equal(t, tt.expectedCode, rec.Code)
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, decodeProblem(t, rec)["error_code"])
			}
		})
	}
}

func TestAttendanceHandler_GetFormat(t *testing.T) {
	svc := new(MockAttendanceService)
	svc.On("FormatHelp").Return(domain.FormatHelp{SessionPrefix: "Date:", RosterPrefix: "Roll:"})
	router := newTestRouter(t, svc, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/format", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_prefix":"Date:"`)
}

func TestAttendanceHandler_WithRealService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	cfg := config.Default().Attendance
	reader := validation.NewFileReader(validation.NewFileValidator(logger, cfg.MaxInputBytes, nil), logger)
	svc := services.NewAttendanceService(cfg, reader, logger)
	router := newTestRouter(t, svc, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/attendance/parse", strings.NewReader(sampleLog))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view domain.AttendanceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []string{"01-01-2024", "02-01-2024"}, view.Sessions)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, []string{"P", "A"}, view.Rows[0].Marks)
	assert.Equal(t, "50.00%", view.Rows[0].PercentageText)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/export/csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	assert.Equal(t, `"`+view.Snapshot.Digest+`"`, etag)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}))

	req = httptest.NewRequest(http.MethodGet, "/api/attendance/export/csv", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
}

func TestAttendanceHandler_ListStored(t *testing.T) {
	modified := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := new(MockAttendanceService)
	svc.On("StoredLogs").Return(domain.StoredLogList{
		Logs:  []domain.StoredLog{{Name: "week1.txt", Size: 42, ModifiedAt: modified}},
		Count: 1,
	}, nil)
	router := newTestRouter(t, svc, 0)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/attendance/files", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var list domain.StoredLogList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Logs, 1)
	assert.Equal(t, "week1.txt", list.Logs[0].Name)
	assert.True(t, list.Logs[0].ModifiedAt.Equal(modified))
}

func TestAttendanceHandler_LoadStored(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		setupMock    func(m *MockAttendanceService)
		expectedCode int
		errorCode    string
	}{
		{
			name: "success",
			file: "week1.txt",
			setupMock: func(m *MockAttendanceService) {
				m.On("LoadStored", "week1.txt").Return(&services.Snapshot{ID: "snap"}, nil)
				m.On("Page", domain.PageRequest{Page: 1}).Return(domain.AttendanceView{}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "unknown log",
			file: "week9.txt",
			setupMock: func(m *MockAttendanceService) {
				m.On("LoadStored", "week9.txt").Return(nil, fmt.Errorf("%w: week9.txt", services.ErrLogNotFound))
			},
			expectedCode: http.StatusNotFound,
			errorCode:    apierrors.CodeLogNotFound,
		},
		{
			name: "invalid name",
			file: "notes.md",
			setupMock: func(m *MockAttendanceService) {
				m.On("LoadStored", "notes.md").Return(nil, fmt.Errorf("%w: notes.md", services.ErrInvalidLogName))
			},
			expectedCode: http.StatusBadRequest,
			errorCode:    apierrors.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAttendanceService)
			tt.setupMock(svc)
			router := newTestRouter(t, svc, 0)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/attendance/files/"+tt.file+"/load", nil))

			assert.Equal(t, tt.expectedCode, rec.Code, rec.Body.String())
			if tt.errorCode != "" {
				assert.Equal(t, tt.errorCode, decodeProblem(t, rec)["error_code"])
			}
			svc.AssertExpectations(t)
		})
	}
}
