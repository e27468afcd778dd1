package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/cognicore/consult/internal/logging"
	"github.com/cognicore/consult/pkg/consult/config"
	"github.com/cognicore/consult/pkg/consult/export"
	"github.com/cognicore/consult/pkg/consult/store"
)

const usage = `usage: consult-history [flags] <command> [id]

commands:
  list          list archived runs, newest first
  show <id>     print the archived report of a run
  details <id>  write the detailed results of a run as CSV
  delete <id>   remove a run
`

func main() {
	var (
		dbPath  = pflag.String("db", "", "SQLite archive (default: store.path from config or CONSULT_STORE_PATH)")
		cfgPath = pflag.StringP("config", "c", "consult.yaml", "YAML config file")
		envFile = pflag.String("env", ".env", "Optional .env file")
		limit   = pflag.IntP("limit", "n", store.DefaultListLimit, "Runs to list")
	)
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalf("load env: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Store = config.Store{Driver: config.DriverSQLite, Path: *dbPath}
	}
	if cfg.Store.Driver != config.DriverSQLite {
		log.Fatal("--db required")
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("log level: %v", err)
	}
	logging.Init(level, os.Stderr)

	ctx := context.Background()
	st, err := config.OpenStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if err := run(ctx, st, os.Stdout, pflag.Args(), *limit); err != nil {
		st.Close()
		log.Fatal(err)
	}
}

var errUsage = errors.New("invalid command line")

func run(ctx context.Context, st store.Store, w io.Writer, args []string, limit int) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: command required\n%s", errUsage, usage)
	}

	cmd, rest := args[0], args[1:]
	if cmd != "list" && len(rest) != 1 {
		return fmt.Errorf("%w: %s needs a run id", errUsage, cmd)
	}

	switch cmd {
	case "list":
		return listRuns(ctx, st, w, limit)
	case "show":
		r, err := st.GetRun(ctx, rest[0])
		if err != nil {
			return err
		}
		if len(r.Report) > 0 {
			_, err = fmt.Fprintf(w, "%s\n", r.Report)
			return err
		}
		return export.WriteJSON(w, r)
	case "details":
		details, err := st.RunDetails(ctx, rest[0])
		if err != nil {
			return err
		}
		return export.WriteDetailsCSV(w, details)
	case "delete":
		if err := st.DeleteRun(ctx, rest[0]); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "deleted %s\n", rest[0])
		return err
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func listRuns(ctx context.Context, st store.Store, w io.Writer, limit int) error {
	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCOMMENTS\tOVERALL\tAVG POLARITY\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%.3f\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Total, r.Overall, r.MeanPolarity, r.Source)
	}
	return tw.Flush()
}
