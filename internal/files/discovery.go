// Package files discovers attendance logs kept in a directory, usually the
// configured data directory, and resolves client supplied names to paths
// inside it.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidName = errors.New("invalid file name")
	ErrNotFound    = errors.New("file not found")
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery lists files with accepted extensions in a single directory.
// Subdirectories are not searched.
type Discovery struct {
	dir        string
	extensions []string
	logger     *slog.Logger
}

// NewDiscovery creates a discovery over dir. An empty extension list accepts
// every regular file.
func NewDiscovery(dir string, extensions []string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}

	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}

	return &Discovery{
		dir:        filepath.Clean(dir),
		extensions: exts,
		logger:     logger.With(slog.String("component", "files.discovery")),
	}
}

// Dir returns the searched directory
func (d *Discovery) Dir() string {
	return d.dir
}

// FindLogs returns the accepted files, newest first. A missing directory
// yields an empty list.
func (d *Discovery) FindLogs() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", d.dir, err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !d.accepts(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(d.dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.After(files[j].ModTime)
	})

	d.logger.Debug("Logs discovered",
		slog.String("dir", d.dir),
		slog.Int("count", len(files)))

	return files, nil
}

// Resolve maps a bare file name to its path inside the directory. Names with
// separators or parent references are rejected.
func (d *Discovery) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !d.accepts(name) {
		return "", fmt.Errorf("%w: %q has an unsupported extension", ErrInvalidName, name)
	}

	path := filepath.Join(d.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return path, nil
}

func (d *Discovery) accepts(name string) bool {
	if len(d.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range d.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// GetLatestFile returns the most recently modified file
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, f := range files[1:] {
		if f.ModTime.After(latest.ModTime) {
			latest = f
		}
	}
	return latest, true
}
