// Package export writes a finished batch of outcomes to disk.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"battlesim/internal/combat"
)

// Exporter persists the outcome set of one batch.
type Exporter interface {
	Export(ctx context.Context, outcomes []combat.BattleOutcome, batchID int) error
}

// Multi fans one batch out to several exporters. Every exporter runs even
// if an earlier one fails; the errors are joined.
type Multi []Exporter

func (m Multi) Export(ctx context.Context, outcomes []combat.BattleOutcome, batchID int) error {
	var errs []error
	for _, e := range m {
		if err := e.Export(ctx, outcomes, batchID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func JSONPath(dir string, batchID int) string {
	return filepath.Join(dir, fmt.Sprintf("results_batch_%d.json", batchID))
}

func JSONLPath(dir string, batchID int) string {
	return filepath.Join(dir, fmt.Sprintf("results_batch_%d.jsonl.zst", batchID))
}

func ReportPath(dir string, batchID int) string {
	return filepath.Join(dir, fmt.Sprintf("analysis_batch_%d.txt", batchID))
}
