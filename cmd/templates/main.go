package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Alphteow/major-games-reporting-templates/internal/config"
	"github.com/Alphteow/major-games-reporting-templates/internal/pipeline"
	"github.com/Alphteow/major-games-reporting-templates/internal/storage"
	"github.com/Alphteow/major-games-reporting-templates/internal/tables"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "convert":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "sports_templates.xlsx", "input workbook path")
		out := fs.String("out", cfg.OutputDir, "output directory")
		tablesPath := fs.String("tables", cfg.TablesPath, "lookup tables yaml")
		record := fs.Bool("record", false, "store the run in the local database")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--out", *out))

		tb, err := tables.Load(*tablesPath)
		must(err)
		res, err := pipeline.NewConverter(cfg, tb, log).Convert(ctx, *input)
		must(err)
		paths, err := pipeline.WriteJSON(res.Document, *out)
		must(err)

		meta := res.Document.Metadata
		fmt.Printf("converted %d templates across %d sports (team=%d, malformed fields=%d)\n",
			meta.TotalTemplates, meta.TotalSports, meta.TeamTemplates, res.Malformed)
		for _, p := range paths {
			fmt.Printf("wrote %s\n", p)
		}

		if *record {
			db, err := storage.Open(cfg.DBPath)
			must(err)
			defer db.Close()
			runID, err := db.InsertRun(ctx, res.Document, res.Timings)
			must(err)
			fmt.Printf("recorded run %s\n", runID)
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "sports_templates.xlsx", "input workbook path")
		out := fs.String("out", "", "output xlsx path")
		tablesPath := fs.String("tables", cfg.TablesPath, "lookup tables yaml")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		tb, err := tables.Load(*tablesPath)
		must(err)
		res, err := pipeline.NewConverter(cfg, tb, log).Convert(ctx, *input)
		must(err)
		must(pipeline.ExportTemplatesToXLSX(res.Document.Templates, *out))
		fmt.Printf("exported %d templates to %s\n", len(res.Document.Templates), *out)
	case "tables:dump":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output yaml path (stdout when empty)")
		tablesPath := fs.String("tables", cfg.TablesPath, "lookup tables yaml")
		_ = fs.Parse(os.Args[2:])

		tb, err := tables.Load(*tablesPath)
		must(err)
		blob, err := tb.Dump()
		must(err)
		if strings.TrimSpace(*out) == "" {
			_, _ = os.Stdout.Write(blob)
			return
		}
		must(os.MkdirAll(filepath.Dir(*out), 0o755))
		must(os.WriteFile(*out, blob, 0o644))
		fmt.Printf("wrote %d canonical sports to %s\n", len(tb.Sports()), *out)
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runs, err := db.ListRuns(ctx, *limit)
		must(err)
		for _, r := range runs {
			fmt.Printf("%s  %s  source=%s templates=%d sports=%d\n", r.ID, r.CreatedAt, r.SourceFile, r.TotalTemplates, r.TotalSports)
		}
		fmt.Printf("%d runs\n", len(runs))
	case "runs:show":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.String("id", "", "run id (defaults to the last recorded run)")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runID := strings.TrimSpace(*id)
		if runID == "" {
			last, err := db.LastRunID(ctx)
			must(err)
			if last == nil {
				must(fmt.Errorf("no recorded runs in %s", cfg.DBPath))
			}
			runID = *last
		}
		templates, err := db.GetRunTemplates(ctx, runID)
		must(err)
		for _, t := range templates {
			fmt.Printf("%s  %s  %s  %s  result=%s team=%t\n", t.ID, t.SportNormalized, t.EventName, t.EventTypeNormalized, t.ResultType, t.IsTeam)
		}
		fmt.Printf("run %s: %d templates\n", runID, len(templates))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: templates <command>")
	fmt.Println("commands:")
	fmt.Println("  convert --input=sports_templates.xlsx --out=./data [--tables=tables.yaml] [--record]")
	fmt.Println("  export:xlsx --input=sports_templates.xlsx --out=./out/templates.xlsx [--tables=tables.yaml]")
	fmt.Println("  tables:dump [--out=tables.yaml] [--tables=tables.yaml]")
	fmt.Println("  runs:list [--limit=20]")
	fmt.Println("  runs:show [--id=<run id>]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
