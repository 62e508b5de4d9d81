package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"battlesim/internal/combat"
	"battlesim/internal/environment"
)

var ErrNoRun = errors.New("no run recorded")

// fixed width so created_at sorts as text
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite appends each exported batch as a new run to a local database. The
// same batch id may be exported many times; runs are told apart by RunID.
type SQLite struct {
	Path string

	// RunID of the most recent successful export.
	RunID string
}

type outcomeRow struct {
	RunID             string  `db:"run_id"`
	BattleID          int     `db:"battle_id"`
	Seed              int64   `db:"seed"`
	Winner            string  `db:"winner"`
	Rounds            int     `db:"rounds"`
	GroupCasualties   int     `db:"group_casualties"`
	SoloSurvived      bool    `db:"solo_survived"`
	Termination       string  `db:"termination"`
	TotalCriticalHits int     `db:"total_critical_hits"`
	GroupAvgDamage    float64 `db:"group_avg_damage"`
	MaxGroupDamage    int     `db:"max_group_damage"`
	SoloEndHP         int     `db:"solo_end_hp"`
	RoundsEngaged     int     `db:"rounds_engaged"`
	SoloFinalBlow     bool    `db:"solo_final_blow"`
	LocationName      string  `db:"location_name"`
	Country           string  `db:"country"`
	Latitude          float64 `db:"latitude"`
	Longitude         float64 `db:"longitude"`
	Climate           string  `db:"climate"`
	Weather           string  `db:"weather"`
	IsDay             bool    `db:"is_day"`
}

const insertOutcome = `INSERT INTO outcomes (
	run_id, battle_id, seed, winner, rounds, group_casualties, solo_survived, termination,
	total_critical_hits, group_avg_damage, max_group_damage, solo_end_hp, rounds_engaged, solo_final_blow,
	location_name, country, latitude, longitude, climate, weather, is_day
) VALUES (
	:run_id, :battle_id, :seed, :winner, :rounds, :group_casualties, :solo_survived, :termination,
	:total_critical_hits, :group_avg_damage, :max_group_damage, :solo_end_hp, :rounds_engaged, :solo_final_blow,
	:location_name, :country, :latitude, :longitude, :climate, :weather, :is_day
)`

func openDB(path string) (*sqlx.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func initPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func migrate(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		batch_id INTEGER NOT NULL,
		battles INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS runs_batch ON runs (batch_id, created_at);

	CREATE TABLE IF NOT EXISTS outcomes (
		run_id TEXT NOT NULL REFERENCES runs (run_id),
		battle_id INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		winner TEXT NOT NULL,
		rounds INTEGER NOT NULL,
		group_casualties INTEGER NOT NULL,
		solo_survived INTEGER NOT NULL,
		termination TEXT NOT NULL,
		total_critical_hits INTEGER NOT NULL,
		group_avg_damage REAL NOT NULL,
		max_group_damage INTEGER NOT NULL,
		solo_end_hp INTEGER NOT NULL,
		rounds_engaged INTEGER NOT NULL,
		solo_final_blow INTEGER NOT NULL,
		location_name TEXT NOT NULL,
		country TEXT NOT NULL,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		climate TEXT NOT NULL,
		weather TEXT NOT NULL,
		is_day INTEGER NOT NULL,
		PRIMARY KEY (run_id, battle_id)
	);`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLite) Export(ctx context.Context, outcomes []combat.BattleOutcome, batchID int) error {
	db, err := openDB(s.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (run_id, batch_id, battles, created_at) VALUES (?, ?, ?, ?)",
		runID, batchID, len(outcomes), time.Now().UTC().Format(createdAtLayout),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, insertOutcome)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range outcomes {
		if _, err := stmt.ExecContext(ctx, toRow(runID, &outcomes[i])); err != nil {
			return fmt.Errorf("insert battle %d: %w", outcomes[i].BattleID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.RunID = runID
	return nil
}

// AnyBatch makes ReadSQLite take the latest run regardless of batch id.
const AnyBatch = -1

// Run is one recorded export of a batch.
type Run struct {
	RunID    string
	BatchID  int
	Outcomes []combat.BattleOutcome
}

// ReadSQLite loads the latest run recorded for batchID (or for any batch
// with AnyBatch), outcomes ordered by battle id. The database must already
// exist; it is never created or migrated here.
func ReadSQLite(ctx context.Context, path string, batchID int) (Run, error) {
	if _, err := os.Stat(path); err != nil {
		return Run{}, err
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return Run{}, fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	var head struct {
		RunID   string `db:"run_id"`
		BatchID int    `db:"batch_id"`
	}
	if batchID == AnyBatch {
		err = db.GetContext(ctx, &head,
			"SELECT run_id, batch_id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1")
	} else {
		err = db.GetContext(ctx, &head,
			"SELECT run_id, batch_id FROM runs WHERE batch_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1", batchID)
	}
	switch {
	case errors.Is(err, sql.ErrNoRows) && batchID == AnyBatch:
		return Run{}, fmt.Errorf("%w in %s", ErrNoRun, path)
	case errors.Is(err, sql.ErrNoRows):
		return Run{}, fmt.Errorf("%w for batch %d in %s", ErrNoRun, batchID, path)
	case err != nil:
		return Run{}, fmt.Errorf("read runs from %s: %w", path, err)
	}

	var rows []outcomeRow
	if err := db.SelectContext(ctx, &rows,
		"SELECT * FROM outcomes WHERE run_id = ? ORDER BY battle_id", head.RunID); err != nil {
		return Run{}, err
	}
	run := Run{RunID: head.RunID, BatchID: head.BatchID, Outcomes: make([]combat.BattleOutcome, 0, len(rows))}
	for _, r := range rows {
		o, err := r.outcome()
		if err != nil {
			return Run{}, fmt.Errorf("battle %d: %w", r.BattleID, err)
		}
		run.Outcomes = append(run.Outcomes, o)
	}
	return run, nil
}

func toRow(runID string, o *combat.BattleOutcome) outcomeRow {
	return outcomeRow{
		RunID:             runID,
		BattleID:          o.BattleID,
		Seed:              o.Seed,
		Winner:            o.Winner.String(),
		Rounds:            o.Rounds,
		GroupCasualties:   o.GroupCasualties,
		SoloSurvived:      o.SoloSurvived,
		Termination:       string(o.Termination),
		TotalCriticalHits: o.Causal.TotalCriticalHits,
		GroupAvgDamage:    o.Causal.GroupAvgDamage,
		MaxGroupDamage:    o.Causal.MaxGroupDamage,
		SoloEndHP:         o.Causal.SoloEndHP,
		RoundsEngaged:     o.Causal.RoundsEngaged,
		SoloFinalBlow:     o.Causal.SoloFinalBlow,
		LocationName:      o.Context.LocationName,
		Country:           o.Context.Country,
		Latitude:          o.Context.Latitude,
		Longitude:         o.Context.Longitude,
		Climate:           o.Context.Climate,
		Weather:           o.Context.Weather,
		IsDay:             o.Context.IsDay,
	}
}

func (r outcomeRow) outcome() (combat.BattleOutcome, error) {
	var winner combat.Team
	if err := winner.UnmarshalText([]byte(r.Winner)); err != nil {
		return combat.BattleOutcome{}, err
	}
	return combat.BattleOutcome{
		BattleID:        r.BattleID,
		Seed:            r.Seed,
		Winner:          winner,
		Rounds:          r.Rounds,
		GroupCasualties: r.GroupCasualties,
		SoloSurvived:    r.SoloSurvived,
		Termination:     combat.Termination(r.Termination),
		Context: environment.Context{
			LocationName: r.LocationName,
			Country:      r.Country,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			Climate:      r.Climate,
			Weather:      r.Weather,
			IsDay:        r.IsDay,
		},
		Causal: combat.CausalMetrics{
			TotalCriticalHits: r.TotalCriticalHits,
			GroupAvgDamage:    r.GroupAvgDamage,
			MaxGroupDamage:    r.MaxGroupDamage,
			SoloEndHP:         r.SoloEndHP,
			RoundsEngaged:     r.RoundsEngaged,
			SoloFinalBlow:     r.SoloFinalBlow,
		},
	}, nil
}
