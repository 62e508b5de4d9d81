package batch

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"battlesim/internal/combat"
	"battlesim/internal/util"
)

// Exporter receives the complete outcome set of a batch.
type Exporter interface {
	Export(ctx context.Context, outcomes []combat.BattleOutcome, batchID int) error
}

type Runner struct {
	Workers int // <= 0 means GOMAXPROCS
	Log     *zap.Logger
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) workers(battles int) int {
	w := r.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(min(w, battles), 1)
}

// Run plays job.Battles battles and returns outcomes indexed by battle id.
// Cancelling ctx stops handing out new battles; battles already started
// run to their own end.
func (r *Runner) Run(ctx context.Context, job Job) ([]combat.BattleOutcome, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	log := r.logger().With(zap.Int("batch_id", job.BatchID))
	workers := r.workers(job.Battles)
	log.Info("batch started",
		zap.Int("battles", job.Battles),
		zap.Int("workers", workers),
		zap.Int64("seed", job.Seed),
		zap.Int("group_count", job.GroupCount),
		zap.Int("solo_count", job.SoloCount),
	)
	start := time.Now()

	outcomes := make([]combat.BattleOutcome, job.Battles)
	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < job.Battles; i++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				// each slot is written by exactly one worker
				outcomes[i], _ = r.runOne(job, i, false)
				log.Debug("battle finished",
					zap.Int("battle_id", i),
					zap.Stringer("winner", outcomes[i].Winner),
					zap.Int("rounds", outcomes[i].Rounds),
					zap.String("termination", string(outcomes[i].Termination)),
				)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch %d: %w", job.BatchID, err)
	}

	soloWins := 0
	for i := range outcomes {
		if outcomes[i].Winner == combat.Solo {
			soloWins++
		}
	}
	log.Info("batch finished",
		zap.Int("battles", len(outcomes)),
		zap.Int("solo_wins", soloWins),
		zap.Duration("elapsed", time.Since(start)),
	)
	return outcomes, nil
}

// Trace plays a single battle of the job with its event trace recorded.
func (r *Runner) Trace(job Job, battleID int) (combat.BattleOutcome, []combat.Event, error) {
	if err := job.Validate(); err != nil {
		return combat.BattleOutcome{}, nil, err
	}
	out, events := r.runOne(job, battleID, true)
	return out, events, nil
}

func (r *Runner) runOne(job Job, battleID int, record bool) (combat.BattleOutcome, []combat.Event) {
	seed := util.BattleSeed(job.Seed, battleID)
	return combat.RunBattle(combat.NewEnv(seed), job.Input(battleID, seed, record))
}

// RunAndExport runs the batch and hands the full outcome set to exp.
func (r *Runner) RunAndExport(ctx context.Context, job Job, exp Exporter) ([]combat.BattleOutcome, error) {
	outcomes, err := r.Run(ctx, job)
	if err != nil {
		return nil, err
	}
	if err := exp.Export(ctx, outcomes, job.BatchID); err != nil {
		return outcomes, fmt.Errorf("export batch %d: %w", job.BatchID, err)
	}
	return outcomes, nil
}
