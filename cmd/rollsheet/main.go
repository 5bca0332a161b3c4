// Command rollsheet converts an attendance log into a spreadsheet report and
// prints one page of the presence matrix.
//
//	rollsheet -in log.txt [-out path] [-format xlsx|csv|pdf] [-page n -page-size m]
//	rollsheet -latest [-out path] ...
//
// "-in -" reads the log from stdin. -latest loads the newest log in the data
// directory. An empty -format skips the export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"rollbook/internal/attendance"
	"rollbook/internal/config"
	"rollbook/internal/exporter"
	"rollbook/internal/files"
	"rollbook/internal/infrastructure"
	"rollbook/internal/services"
	"rollbook/internal/validation"
	"rollbook/pkg/contracts/domain"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	in         string
	latest     bool
	out        string
	format     string
	page       int
	pageSize   int
	configFile string
	logLevel   string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "rollsheet:", err)
		return exitUsage
	}

	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		fmt.Fprintln(stderr, "rollsheet:", err)
		return exitError
	}

	level := cfg.Logging.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := infrastructure.NewLogger(stderr, level)
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := convert(ctx, cfg, opts, stdin, stdout, logger); err != nil {
		logger.Error("Conversion failed", slog.String("error", err.Error()))
		fmt.Fprintln(stderr, "rollsheet:", err)
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("rollsheet", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "attendance log file, or - for stdin")
	fs.BoolVar(&opts.latest, "latest", false, "load the newest log in the data directory")
	fs.StringVar(&opts.out, "out", "", "export path (defaults to <reports dir>/<report name>.<ext>)")
	fs.StringVar(&opts.format, "format", config.DefaultReportExtension, "export format: "+strings.Join(exporter.SupportedFormats(), ", ")+"; empty skips the export")
	fs.IntVar(&opts.page, "page", 1, "page to print")
	fs.IntVar(&opts.pageSize, "page-size", 0, "rolls per page (0 uses the configured default)")
	fs.StringVar(&opts.configFile, "config", "", "YAML config file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.in == "" && !opts.latest {
		return opts, errors.New("one of -in or -latest is required")
	}
	if opts.in != "" && opts.latest {
		return opts, errors.New("-in and -latest are mutually exclusive")
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.format != "" {
		if _, err := exporter.ParseFormat(opts.format); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func convert(ctx context.Context, cfg *config.Config, opts options, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger, cfg.Attendance.MaxInputBytes, nil)
	reader := validation.NewFileReader(validator, logger)
	library := files.NewDiscovery(paths.DataDir, validation.DefaultExtensions, logger)
	svc := services.NewAttendanceService(cfg.Attendance, reader, logger, services.WithLibrary(library))

	var snap *services.Snapshot
	if opts.latest {
		snap, err = loadLatest(ctx, svc, library)
	} else {
		snap, err = load(ctx, svc, opts.in, stdin, cfg.Attendance.MaxInputBytes)
	}
	if err != nil {
		return err
	}

	if opts.format != "" {
		out, err := writeExport(cfg, paths, validator, opts, snap)
		if err != nil {
			return err
		}
		logger.Info("Report written",
			slog.String("path", out),
			slog.String("snapshot_id", snap.ID))
	}

	view, err := svc.Page(ctx, domain.PageRequest{Page: opts.page, PageSize: opts.pageSize})
	if err != nil {
		return err
	}
	return printPage(stdout, view)
}

func load(ctx context.Context, svc *services.AttendanceService, in string, stdin io.Reader, limit int64) (*services.Snapshot, error) {
	if in != "-" {
		return svc.LoadFile(ctx, in)
	}

	// one extra byte lets Process report the oversize input
	data, err := io.ReadAll(io.LimitReader(stdin, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return svc.Process(ctx, string(data), "stdin")
}

func loadLatest(ctx context.Context, svc *services.AttendanceService, library *files.Discovery) (*services.Snapshot, error) {
	logs, err := library.FindLogs()
	if err != nil {
		return nil, err
	}
	latest, ok := files.GetLatestFile(logs)
	if !ok {
		return nil, fmt.Errorf("no attendance logs in %s", library.Dir())
	}
	return svc.LoadStored(ctx, latest.Name)
}

func writeExport(cfg *config.Config, paths *config.Paths, validator *validation.FileValidator, opts options, snap *services.Snapshot) (string, error) {
	writer, err := exporter.ForFormat(opts.format, cfg.Attendance)
	if err != nil {
		return "", err
	}

	out := opts.out
	if out == "" {
		out = paths.ReportPath(cfg.Attendance.ReportFileName(writer.Extension()))
	}
	if err := validator.ValidateOutputDirectory(filepath.Dir(out)); err != nil {
		return "", err
	}

	if err := exporter.WriteFile(out, writer, attendance.Project(snap.Matrix)); err != nil {
		return "", err
	}
	return out, nil
}

func printPage(w io.Writer, view domain.AttendanceView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	header := append([]string{"Roll"}, view.Sessions...)
	header = append(header, "Present", "Percentage")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, row := range view.Rows {
		cells := append([]string{row.Roll}, row.Marks...)
		cells = append(cells, fmt.Sprint(row.PresentCount), row.PercentageText)
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\npage %d of %d (%d rolls, %d sessions)\n",
		view.Page.Number, view.Page.TotalPages, view.Page.TotalRolls, len(view.Sessions))
	return err
}
