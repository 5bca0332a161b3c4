package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the accepted attendance log extensions.
var DefaultExtensions = []string{".txt", ".log"}

var (
	ErrFileNotFound         = errors.New("file does not exist")
	ErrNotAFile             = errors.New("path is a directory, not a file")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrFileTooLarge         = errors.New("file exceeds maximum size")
	ErrEmptyName            = errors.New("file name is empty")
)

// FileValidator checks attendance log files before they are read.
type FileValidator struct {
	logger     *slog.Logger
	maxBytes   int64
	extensions []string
}

// NewFileValidator creates a new file validator. maxBytes <= 0 disables the
// size check; nil extensions means DefaultExtensions.
func NewFileValidator(logger *slog.Logger, maxBytes int64, extensions []string) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if extensions == nil {
		extensions = DefaultExtensions
	}
	return &FileValidator{
		logger:     logger,
		maxBytes:   maxBytes,
		extensions: extensions,
	}
}

// MaxBytes is the configured size limit.
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// ValidateFile checks that path is an existing regular file with an accepted
// extension that fits within the size limit.
func (v *FileValidator) ValidateFile(path string) error {
	if err := v.ValidateName(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	if err := v.ValidateSize(info.Size()); err != nil {
		v.logger.Warn("File too large",
			slog.String("file", path),
			slog.Int64("size", info.Size()),
			slog.Int64("max_bytes", v.maxBytes))
		return err
	}

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateName checks the extension of a file or upload name.
func (v *FileValidator) ValidateName(name string) error {
	base := filepath.Base(name)
	if strings.TrimSpace(name) == "" || base == "." || base == string(filepath.Separator) {
		return ErrEmptyName
	}

	ext := strings.ToLower(filepath.Ext(base))
	for _, allowed := range v.extensions {
		if ext == allowed {
			return nil
		}
	}

	v.logger.Warn("Rejected file extension",
		slog.String("file", name),
		slog.String("extension", ext))
	return fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedExtension, ext, strings.Join(v.extensions, ", "))
}

// ValidateSize checks size against the limit.
func (v *FileValidator) ValidateSize(size int64) error {
	if v.maxBytes > 0 && size > v.maxBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, size, v.maxBytes)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
