package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"rollbook/internal/attendance"
	"rollbook/internal/config"
	apperrors "rollbook/internal/errors"
	"rollbook/pkg/contracts/domain"
)

// ErrSheetsNotConfigured is returned when publishing lacks a spreadsheet id.
var ErrSheetsNotConfigured = errors.New("google sheets publishing is not configured")

// SheetsPublisher replaces the contents of one sheet in a Google spreadsheet
// with an export table.
type SheetsPublisher struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	timeout       time.Duration
	logger        *slog.Logger
}

// NewSheetsPublisher creates a publisher from cfg. Credentials are read from
// cfg.CredentialsFile when set; extra options are appended after them.
func NewSheetsPublisher(ctx context.Context, cfg config.SheetsConfig, sheetName string, logger *slog.Logger, opts ...option.ClientOption) (*SheetsPublisher, error) {
	if cfg.SpreadsheetID == "" {
		return nil, ErrSheetsNotConfigured
	}
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	if logger == nil {
		logger = slog.Default()
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		credentialsJSON, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheets credentials: %w", err)
		}
		clientOpts = append(clientOpts, option.WithCredentialsJSON(credentialsJSON))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &SheetsPublisher{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		timeout:       cfg.Timeout,
		logger:        logger.With(slog.String("component", "sheets_publisher")),
	}, nil
}

// Publish clears the sheet and writes the table at A1 with RAW input.
func (p *SheetsPublisher) Publish(ctx context.Context, table attendance.ExportTable) (domain.PublishResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	values := make([][]interface{}, 0, len(table.Rows)+1)
	header := make([]interface{}, len(table.Header))
	for i, h := range table.Header {
		header[i] = h
	}
	values = append(values, header)
	for _, row := range table.Rows {
		values = append(values, row.Cells())
	}

	if _, err := p.service.Spreadsheets.Values.Clear(p.spreadsheetID, p.sheetName, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		p.logger.ErrorContext(ctx, "Failed to clear sheet",
			slog.String("sheet", p.sheetName),
			slog.String("error", err.Error()),
		)
		return domain.PublishResult{}, apperrors.NewNetworkError(fmt.Sprintf("failed to clear sheet %s", p.sheetName), err)
	}

	rangeStr := fmt.Sprintf("%s!A1", p.sheetName)
	resp, err := p.service.Spreadsheets.Values.Update(p.spreadsheetID, rangeStr, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to update sheet",
			slog.String("range", rangeStr),
			slog.String("error", err.Error()),
		)
		return domain.PublishResult{}, apperrors.NewNetworkError(fmt.Sprintf("failed to update range %s", rangeStr), err)
	}

	result := domain.PublishResult{
		SpreadsheetID: p.spreadsheetID,
		Range:         resp.UpdatedRange,
		UpdatedRows:   resp.UpdatedRows,
		UpdatedCells:  resp.UpdatedCells,
	}
	if result.Range == "" {
		result.Range = rangeStr
	}

	p.logger.InfoContext(ctx, "Published attendance to sheet",
		slog.String("range", result.Range),
		slog.Int64("rows", result.UpdatedRows),
		slog.Int64("cells", result.UpdatedCells),
	)
	return result, nil
}
