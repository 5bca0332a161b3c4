package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
	assert.True(t, cfg.Security.RateLimit.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.Attendance.PageSize)
	assert.Equal(t, "Attendance", cfg.Attendance.SheetName)
	assert.Equal(t, "Attendance_Report.xlsx", cfg.Attendance.ReportFileName("xlsx"))
	assert.False(t, cfg.Sheets.Enabled)
}

func TestLoadFrom_FileOverridesDefaults(t *testing.T) {
	path := writeYAML(t, `
server:
  port: 9090
attendance:
  page_size: 25
  sheet_name: Register
logging:
  level: debug
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 25, cfg.Attendance.PageSize)
	assert.Equal(t, "Register", cfg.Attendance.SheetName)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 100, cfg.Attendance.MaxPageSize)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := writeYAML(t, "server:\n  port: 9090\n")
	t.Setenv("ROLLBOOK_SERVER_PORT", "7070")
	t.Setenv("ROLLBOOK_ATTENDANCE_MAX_PAGE_SIZE", "50")
	t.Setenv("ROLLBOOK_SECURITY_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Attendance.MaxPageSize)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		env   map[string]string
		inErr string
	}{
		{
			name:  "invalid port",
			yaml:  "server:\n  port: 70000\n",
			inErr: "invalid server port",
		},
		{
			name:  "invalid logging output",
			yaml:  "logging:\n  output: syslog\n",
			inErr: "invalid logging output",
		},
		{
			name:  "max page size below page size",
			yaml:  "attendance:\n  page_size: 20\n  max_page_size: 5\n",
			inErr: "max page size",
		},
		{
			name:  "sheets enabled without spreadsheet",
			yaml:  "sheets:\n  enabled: true\n",
			inErr: "spreadsheet_id",
		},
		{
			name:  "sheet name with reserved characters",
			yaml:  "attendance:\n  sheet_name: \"Attendance: Term 1/2024\"\n",
			inErr: "invalid attendance sheet name",
		},
		{
			name:  "sheet name too long",
			env:   map[string]string{"ROLLBOOK_ATTENDANCE_SHEET_NAME": strings.Repeat("x", 32)},
			inErr: "invalid attendance sheet name",
		},
		{
			name:  "malformed env value",
			env:   map[string]string{"ROLLBOOK_SERVER_PORT": "not-a-number"},
			inErr: "failed to load config from env",
		},
		{
			name:  "malformed yaml",
			yaml:  "server: [",
			inErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.yaml != "" {
				path = writeYAML(t, tt.yaml)
			}

			_, err := LoadFrom(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.inErr)
		})
	}
}

func TestValidate_SheetName(t *testing.T) {
	for _, name := range []string{"Attendance", "Présence 2024", strings.Repeat("x", 31)} {
		cfg := Default()
		cfg.Attendance.SheetName = name
		assert.NoError(t, cfg.validate(), name)
	}

	for _, name := range []string{"Term[1]", "'Attendance'", "a?b", `a\b`} {
		cfg := Default()
		cfg.Attendance.SheetName = name
		assert.Error(t, cfg.validate(), name)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere")

	cfg := Default()
	cfg.Paths.BaseDir = base
	cfg.Paths.LogsDir = abs

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "reports"), paths.ReportsDir)
	assert.Equal(t, abs, paths.LogsDir)
	assert.Equal(t, filepath.Join(base, "data", "reports", "Attendance_Report.csv"),
		paths.ReportPath(cfg.Attendance.ReportFileName("csv")))

	require.NoError(t, paths.EnsureDirectories())
	for _, dir := range []string{paths.DataDir, paths.ReportsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Addr())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Addr())
}
