package exporter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"rollbook/internal/config"
	apperrors "rollbook/internal/errors"
	"rollbook/internal/shared/testutil"
)

type sheetsCall struct {
	method string
	path   string
	query  string
	values [][]interface{}
}

type fakeSheets struct {
	mu        sync.Mutex
	calls     []sheetsCall
	failClear bool
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := sheetsCall{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
	if r.Method == http.MethodPut {
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		call.values = body.Values
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, ":clear"):
		if f.failClear {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"forbidden"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","clearedRange":"Attendance!A1:Z1000"}`))
	case r.Method == http.MethodPut:
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updatedRange":"Attendance!A1:E4","updatedRows":4,"updatedColumns":5,"updatedCells":20}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestPublisher(t *testing.T, fake *fakeSheets) *SheetsPublisher {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger, _ := testutil.NewTestLogger(t)
	cfg := config.SheetsConfig{Enabled: true, SpreadsheetID: "sheet-1"}
	p, err := NewSheetsPublisher(context.Background(), cfg, "Attendance", logger,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return p
}

func TestNewSheetsPublisher_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewSheetsPublisher(context.Background(), config.SheetsConfig{Enabled: true}, "", nil)
	assert.ErrorIs(t, err, ErrSheetsNotConfigured)
}

func TestNewSheetsPublisher_MissingCredentialsFile(t *testing.T) {
	cfg := config.SheetsConfig{SpreadsheetID: "x", CredentialsFile: "/does/not/exist.json"}
	_, err := NewSheetsPublisher(context.Background(), cfg, "", nil)
	assert.Error(t, err)
}

func TestSheetsPublisher_Publish(t *testing.T) {
	fake := &fakeSheets{}
	p := newTestPublisher(t, fake)

	result, err := p.Publish(context.Background(), sampleTable())
	require.NoError(t, err)

	assert.Equal(t, "sheet-1", result.SpreadsheetID)
	assert.Equal(t, "Attendance!A1:E4", result.Range)
	assert.EqualValues(t, 4, result.UpdatedRows)
	assert.EqualValues(t, 20, result.UpdatedCells)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, http.MethodPost, fake.calls[0].method)
	assert.True(t, strings.HasSuffix(fake.calls[0].path, ":clear"))

	update := fake.calls[1]
	assert.Equal(t, http.MethodPut, update.method)
	assert.Contains(t, update.path, "Attendance!A1")
	assert.Contains(t, update.query, "valueInputOption=RAW")
	require.Len(t, update.values, 4)
	assert.Equal(t, "Roll", update.values[0][0])
	assert.Equal(t, "1", update.values[1][0])
	assert.Equal(t, "50.00%", update.values[1][4])
}

func TestSheetsPublisher_ClearFailureSkipsUpdate(t *testing.T) {
	fake := &fakeSheets{failClear: true}
	p := newTestPublisher(t, fake)

	_, err := p.Publish(context.Background(), sampleTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clear sheet")
	assert.Len(t, fake.calls, 1)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeNetwork, appErr.Type)
}
