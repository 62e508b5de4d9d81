package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/zap"

	"battlesim/internal/analysis"
	"battlesim/internal/batch"
	"battlesim/internal/combat"
	"battlesim/internal/config"
	"battlesim/internal/environment"
	"battlesim/internal/export"
	"battlesim/internal/logging"
)

func main() {
	var cfgPath, out, group, solo, trace string
	var n, batchID, groupCount, soloCount, workers, traceBattle int
	var seed int64
	flag.StringVar(&cfgPath, "config", "assets/sim.yaml", "simulation config (yaml)")
	flag.IntVar(&n, "n", 0, "number of battles")
	flag.IntVar(&batchID, "batch", 0, "batch id")
	flag.Int64Var(&seed, "seed", 0, "batch seed")
	flag.StringVar(&group, "group", "", "group profile name")
	flag.StringVar(&solo, "solo", "", "solo profile name")
	flag.IntVar(&groupCount, "group-count", 0, "number of group agents")
	flag.IntVar(&soloCount, "solo-count", 0, "number of solo agents")
	flag.IntVar(&workers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	flag.StringVar(&out, "out", "", "output directory")
	flag.StringVar(&trace, "trace", "", "run one battle with its event trace and write it to this file")
	flag.IntVar(&traceBattle, "trace-battle", 0, "battle id to trace")
	flag.Parse()

	boot := zap.Must(logging.New("info", "console"))
	// flags win over the file, but only when given
	override := func(cfg *config.SimConfig) {
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "n":
				cfg.Batch.Battles = n
			case "batch":
				cfg.Batch.BatchID = batchID
			case "seed":
				cfg.Batch.Seed = seed
			case "group":
				cfg.Batch.GroupProfile = group
			case "solo":
				cfg.Batch.SoloProfile = solo
			case "group-count":
				cfg.Batch.GroupCount = groupCount
			case "solo-count":
				cfg.Batch.SoloCount = soloCount
			case "workers":
				cfg.Batch.Workers = workers
			case "out":
				cfg.Paths.OutDir = out
			}
		})
	}
	cfg, log, ok := configure(boot, cfgPath, override)
	if !ok {
		_ = boot.Sync()
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, trace, traceBattle, log); err != nil {
		log.Fatal("simsvc failed", zap.Error(err))
	}
}

// configure loads the config file, applies overrides, validates the result
// and builds the configured logger. Failures are logged on boot.
func configure(boot *zap.Logger, path string, override func(*config.SimConfig)) (*config.SimConfig, *zap.Logger, bool) {
	cfg, err := config.Load(path)
	if err != nil {
		boot.Error("load config", zap.String("path", path), zap.Error(err))
		return nil, nil, false
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		boot.Error("invalid configuration", zap.String("path", path), zap.Error(err))
		return nil, nil, false
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		boot.Error("build logger", zap.String("level", cfg.Log.Level), zap.String("encoding", cfg.Log.Encoding), zap.Error(err))
		return nil, nil, false
	}
	return cfg, log, true
}

func run(ctx context.Context, cfg *config.SimConfig, trace string, traceBattle int, log *zap.Logger) error {
	profiles, err := config.LoadProfiles(cfg.Paths.Profiles)
	if err != nil {
		return err
	}
	sampler, err := contextSampler(cfg.Paths.Contexts)
	if err != nil {
		return err
	}
	job, err := batch.NewJob(cfg, profiles, sampler)
	if err != nil {
		return err
	}
	runner := &batch.Runner{Workers: cfg.Batch.Workers, Log: log}

	if trace != "" {
		res, events, err := runner.Trace(job, traceBattle)
		if err != nil {
			return err
		}
		doc := map[string]any{"outcome": res, "events": events}
		if err := os.WriteFile(trace, combat.MarshalPretty(doc), 0o644); err != nil {
			return err
		}
		fmt.Printf("Traced battle %d: winner=%s rounds=%d events=%d -> %s\n",
			res.BattleID, res.Winner, res.Rounds, len(events), trace)
		return nil
	}

	outcomes, err := runner.RunAndExport(ctx, job, exporters(cfg))
	if err != nil {
		return err
	}
	s := analysis.Summarize(outcomes)
	fmt.Printf("Batch %d done: %d battles, group %.1f%% / solo %.1f%%, avg rounds %.1f -> %s\n",
		cfg.Batch.BatchID, s.Battles, s.GroupWinRate, s.SoloWinRate, s.AvgRounds, filepath.Clean(cfg.Paths.OutDir))
	return nil
}

func contextSampler(path string) (combat.ContextSampler, error) {
	if path == "" {
		return environment.Fixed{LocationName: "Unknown", Climate: "Temperate", Weather: "Clear", IsDay: true}, nil
	}
	ds, err := environment.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func exporters(cfg *config.SimConfig) export.Multi {
	var m export.Multi
	if cfg.Export.JSON {
		m = append(m, export.JSONFile{Dir: cfg.Paths.OutDir})
	}
	if cfg.Export.JSONL {
		m = append(m, export.JSONLZstd{Dir: cfg.Paths.OutDir})
	}
	if cfg.Export.SQLite != "" {
		path := cfg.Export.SQLite
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Paths.OutDir, path)
		}
		m = append(m, &export.SQLite{Path: path})
	}
	return m
}
