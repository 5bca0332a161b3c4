package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the resolved, absolute directories the application writes to.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// ResolvePaths turns the configured directories into absolute paths.
// Without a BaseDir, paths are relative to the executable, never the
// current working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		exe, err = filepath.EvalSymlinks(exe)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
		}
		base = filepath.Dir(exe)
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base dir: %w", err)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(base, c.Paths.DataDir),
		ReportsDir: resolve(base, c.Paths.ReportsDir),
		LogsDir:    resolve(base, c.Paths.LogsDir),
	}, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates every directory that does not exist yet
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath returns the absolute path of a report file name
func (p *Paths) ReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// LogPath returns the absolute path of a log file name
func (p *Paths) LogPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.LogsDir, name)
}

// LogAttrs describes the resolved paths for startup logging
func (p *Paths) LogAttrs() []any {
	return []any{
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir),
	}
}
