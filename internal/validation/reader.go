package validation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileReader reads attendance logs from disk or uploads after validating them.
type FileReader struct {
	validator *FileValidator
	logger    *slog.Logger
}

// NewFileReader creates a reader backed by validator.
func NewFileReader(validator *FileValidator, logger *slog.Logger) *FileReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileReader{validator: validator, logger: logger}
}

// ReadFile validates and reads the file at path.
func (r *FileReader) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.validator.ValidateFile(path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	text, err := r.read(ctx, f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	r.logger.DebugContext(ctx, "Read attendance file",
		slog.String("file", path),
		slog.Int("bytes", len(text)))
	return text, nil
}

// ReadUpload validates the upload name and reads src up to the size limit.
func (r *FileReader) ReadUpload(ctx context.Context, name string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.validator.ValidateName(name); err != nil {
		return "", err
	}

	text, err := r.read(ctx, src)
	if err != nil {
		return "", fmt.Errorf("failed to read upload %s: %w", name, err)
	}

	r.logger.DebugContext(ctx, "Read attendance upload",
		slog.String("file", name),
		slog.Int("bytes", len(text)))
	return text, nil
}

// read copies src honoring ctx and the size limit, and drops a leading BOM.
func (r *FileReader) read(ctx context.Context, src io.Reader) (string, error) {
	limit := r.validator.MaxBytes()
	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}

	data, err := io.ReadAll(&contextReader{ctx: ctx, r: src})
	if err != nil {
		return "", err
	}
	if err := r.validator.ValidateSize(int64(len(data))); err != nil {
		return "", err
	}

	return string(bytes.TrimPrefix(data, utf8BOM)), nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
