package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cognicore/consult/internal/logging"
	"github.com/cognicore/consult/pkg/consult"
	"github.com/cognicore/consult/pkg/consult/config"
	"github.com/cognicore/consult/pkg/consult/export"
)

type options struct {
	input    string
	cfgPath  string
	envFile  string
	format   string
	csvOut   string
	dbPath   string
	workers  int
	logLevel string
	markup   string
}

func main() {
	var opts options
	pflag.StringVarP(&opts.input, "input", "i", "", "Comment table, .csv or .jsonl (required)")
	pflag.StringVarP(&opts.cfgPath, "config", "c", "consult.yaml", "YAML config file; missing file uses defaults")
	pflag.StringVar(&opts.envFile, "env", ".env", "Optional .env file")
	pflag.StringVarP(&opts.format, "format", "f", "json", "Output format: json, text or html")
	pflag.StringVar(&opts.csvOut, "csv", "", "Also write the detailed results as CSV to this path")
	pflag.StringVar(&opts.dbPath, "db", "", "Archive the run in this SQLite database")
	pflag.IntVarP(&opts.workers, "workers", "w", -1, "Scoring goroutines (0 = one per CPU)")
	pflag.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	pflag.StringVar(&opts.markup, "markup", "", "Comment body format: plain, markdown or html")
	pflag.Parse()

	if opts.input == "" {
		log.Fatal("--input required")
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	logging.Init(level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine, cleanup, err := buildEngine(ctx, cfg)
	if err != nil {
		log.Fatalf("build engine: %v", err)
	}
	defer cleanup()

	report, err := engine.AnalyzeFile(ctx, opts.input)
	if err != nil {
		slog.Error("analysis failed", "input", opts.input, "err", err)
		cleanup()
		os.Exit(1)
	}
	slog.Info("analysis complete", "run_id", report.ID, "comments", report.Overall.Total, "overall", report.Overall.Label)

	if opts.csvOut != "" {
		if err := writeCSV(opts.csvOut, report); err != nil {
			log.Fatalf("export csv: %v", err)
		}
	}

	if err := render(os.Stdout, opts.format, report); err != nil {
		log.Fatalf("render report: %v", err)
	}
}

// loadConfig layers the YAML file, the .env file, the environment and the
// command-line flags, in that order.
func loadConfig(opts options) (*config.Config, error) {
	if err := config.LoadEnv(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if opts.workers >= 0 {
		cfg.Analysis.Workers = opts.workers
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.markup != "" {
		cfg.Analysis.Markup = opts.markup
	}
	if opts.dbPath != "" {
		cfg.Store = config.Store{Driver: config.DriverSQLite, Path: opts.dbPath}
	}
	return cfg, cfg.Validate()
}

func buildEngine(ctx context.Context, cfg *config.Config) (*consult.Consult, func(), error) {
	comp, err := (&config.Loader{Config: cfg}).Load()
	if err != nil {
		return nil, nil, err
	}

	st, err := config.OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	engine, err := consult.New(consult.Options{Components: comp, Store: st})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, nil, err
	}
	cleanup := func() {
		if err := engine.Close(); err != nil {
			slog.Warn("close store", "err", err)
		}
	}
	return engine, cleanup, nil
}

func writeCSV(path string, report *consult.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteDetailsCSV(f, report.Detailed); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func render(w io.Writer, format string, report *consult.Report) error {
	switch strings.ToLower(format) {
	case "json":
		return export.WriteJSON(w, report)
	case "text":
		_, err := io.WriteString(w, textReport(report))
		return err
	case "html":
		_, err := fmt.Fprintf(w, "%s\n", export.NarrativeHTML(report.Narrative))
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func textReport(r *consult.Report) string {
	var b strings.Builder
	b.WriteString(r.Narrative)

	fmt.Fprintf(&b, "\nOVERALL: %s (average polarity %.3f)\n", r.Overall.Label, r.Overall.MeanPolarity)
	fmt.Fprintf(&b, "Stakeholders: %d, provisions: %d, average length: %.0f chars\n",
		r.Statistics.UniqueStakeholders, r.Statistics.ProvisionsDiscussed, r.Statistics.AvgCommentLength)

	if len(r.ProvisionSummaries) > 0 {
		b.WriteString("\nPROVISION SUMMARIES:\n")
		for _, ps := range r.ProvisionSummaries {
			fmt.Fprintf(&b, "• %s: %s\n", ps.Category, ps.Summary)
		}
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "\nWARNING: %s\n", w)
	}
	return b.String()
}
