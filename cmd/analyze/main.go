package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"battlesim/internal/analysis"
	"battlesim/internal/combat"
	"battlesim/internal/export"
	"battlesim/internal/logging"
)

func main() {
	var in, out, level string
	var batchID int
	flag.StringVar(&in, "in", "", "results file, directory of results, or sqlite database")
	flag.StringVar(&out, "out", "", "report file (default analysis_batch_<id>.txt next to the input, - for stdout)")
	flag.IntVar(&batchID, "batch", export.AnyBatch, "batch id (default: parsed from the file name, or the latest run in a database)")
	flag.StringVar(&level, "log-level", "info", "log level")
	flag.Parse()

	log, err := logging.New(level, "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if in == "" {
		flag.Usage()
		os.Exit(2)
	}
	outcomes, batchID, err := load(in, batchID)
	if err != nil {
		log.Fatal("load results", zap.String("in", in), zap.Error(err))
	}
	log.Info("results loaded", zap.String("in", in), zap.Int("battles", len(outcomes)), zap.Int("batch_id", batchID))

	s := analysis.Summarize(outcomes)
	if out == "-" {
		if err := analysis.WriteReport(os.Stdout, s, batchID); err != nil {
			log.Fatal("write report", zap.Error(err))
		}
		return
	}
	if out == "" {
		dir := in
		if fi, err := os.Stat(in); err == nil && !fi.IsDir() {
			dir = filepath.Dir(in)
		}
		out = export.ReportPath(dir, batchID)
	}
	f, err := os.Create(out)
	if err != nil {
		log.Fatal("create report", zap.Error(err))
	}
	if err := analysis.WriteReport(f, s, batchID); err != nil {
		_ = f.Close()
		log.Fatal("write report", zap.Error(err))
	}
	if err := f.Close(); err != nil {
		log.Fatal("close report", zap.Error(err))
	}
	fmt.Printf("Analysis written to %s\n", out)
}

// load returns the outcomes and the batch id they belong to. A database
// without -batch yields its latest run.
func load(in string, batchID int) ([]combat.BattleOutcome, int, error) {
	switch strings.ToLower(filepath.Ext(in)) {
	case ".db", ".sqlite", ".sqlite3":
		run, err := export.ReadSQLite(context.Background(), in, batchID)
		if err != nil {
			return nil, 0, err
		}
		return run.Outcomes, run.BatchID, nil
	}
	if batchID == export.AnyBatch {
		batchID, _ = analysis.BatchIDFromFilename(in)
	}
	outs, err := analysis.Load(in)
	return outs, batchID, err
}
