// Command ingest indexes FAQ spreadsheets from the local filesystem through
// the same pipeline as the upload endpoint.
//
// Usage:
//
//	ingest [-dry-run] [-write-rules] <file-or-directory>...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/hyodin/dollkongbot/internal/app"
	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/hierarchy"
	"github.com/hyodin/dollkongbot/internal/indexer"
)

func main() {
	os.Exit(run())
}

func run() int {
	dryRun := flag.Bool("dry-run", false, "extract and assemble only; do not embed or store")
	writeRules := flag.Bool("write-rules", false, "write the default rules file to RULES_PATH if it does not exist, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	app.SetupLogging(cfg)

	if *writeRules {
		if _, err := os.Stat(cfg.RulesPath); err == nil {
			log.Fatalf("Rules file %s already exists", cfg.RulesPath)
		}
		if err := config.SaveRules(cfg.RulesPath, config.DefaultRules()); err != nil {
			log.Fatalf("Failed to write rules: %v", err)
		}
		slog.Info("Default rules written", "path", cfg.RulesPath)
		return 0
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: ingest [-dry-run] [-write-rules] <file-or-directory>...")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := collect(ctx, flag.Args())
	if err != nil {
		slog.Error("Failed to collect files", "error", err)
		return 1
	}
	if len(files) == 0 {
		slog.Error("No supported spreadsheets found")
		return 1
	}

	if *dryRun {
		rules, err := config.LoadRules(cfg.RulesPath)
		if err != nil {
			slog.Error("Failed to load rules", "error", err)
			return 1
		}
		return runDryRun(ctx, os.Stdout, files, rules)
	}

	components, err := app.Open(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		return 1
	}
	defer func() {
		_ = components.Close()
	}()
	pipeline := components.Pipeline()

	failed := 0
	for _, path := range files {
		report, err := ingestFile(ctx, pipeline, path)
		if err != nil {
			slog.Error("Ingestion failed", "file", path, "error", err)
			failed++
			continue
		}
		printReport(report)
	}
	if failed > 0 {
		slog.Error("Some files failed", "failed", failed, "total", len(files))
		return 1
	}
	return 0
}

// collect expands directories into the spreadsheets they contain. Documents
// are keyed by base file name, so two files sharing one are rejected rather
// than letting the second replace the first.
func collect(ctx context.Context, args []string) ([]string, error) {
	var files []string
	seen := make(map[string]string)
	add := func(path string) error {
		base := filepath.Base(path)
		if prev, ok := seen[base]; ok {
			return fmt.Errorf("%s and %s share the file name %q; rename one of them", prev, path, base)
		}
		seen[base] = path
		files = append(files, path)
		return nil
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if err := add(arg); err != nil {
				return nil, err
			}
			continue
		}
		scanned, err := indexer.ScanDir(ctx, arg)
		if err != nil {
			return nil, err
		}
		for _, f := range scanned {
			if err := add(f.AbsPath); err != nil {
				return nil, err
			}
		}
	}
	return files, nil
}

func ingestFile(ctx context.Context, pipeline *indexer.Pipeline, path string) (*indexer.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return pipeline.Ingest(ctx, filepath.Base(path), f)
}

// runDryRun extracts and assembles every file and writes one JSON object per
// file to w. It returns the process exit code.
func runDryRun(ctx context.Context, w io.Writer, files []string, rules *config.Rules) int {
	extractor := hierarchy.NewExtractor(rules.SheetDetection)
	assembler := indexer.NewAssembler(rules.ContextLabels)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	code := 0
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			code = 1
			continue
		}
		grids, err := hierarchy.ReadDocument(filepath.Base(path), f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to read document", "file", path, "error", err)
			code = 1
			continue
		}
		result, err := extractor.Extract(ctx, filepath.Base(path), grids)
		if err != nil {
			slog.Error("Failed to extract hierarchy", "file", path, "error", err)
			code = 1
			continue
		}
		for _, w := range result.Warnings {
			slog.Warn("Row skipped", "file", path, "warning", w.String())
		}
		chunks := assembler.Assemble(indexer.DocumentID(filepath.Base(path)), result.Records)
		_ = enc.Encode(dryRunOutput{
			File:     path,
			Records:  len(result.Records),
			Warnings: len(result.Warnings),
			Chunks:   chunks,
		})
	}
	return code
}

type dryRunOutput struct {
	File     string          `json:"file"`
	Records  int             `json:"records"`
	Warnings int             `json:"warnings"`
	Chunks   []indexer.Chunk `json:"chunks"`
}

func printReport(report *indexer.Report) {
	fmt.Printf("%s: document %s, %d records, %d chunks, %d skipped without detail, %d warnings\n",
		report.FileName, report.DocumentID, report.Records, report.Chunks, report.SkippedNoDetail, len(report.Warnings))
	for _, w := range report.Warnings {
		fmt.Printf("  warning: %s\n", w.String())
	}
}
