package export

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"battlesim/internal/combat"
)

// JSONFile writes results_batch_<id>.json as a pretty-printed array.
type JSONFile struct {
	Dir string
}

func (j JSONFile) Export(ctx context.Context, outcomes []combat.BattleOutcome, batchID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(j.Dir, 0o755); err != nil {
		return err
	}
	if outcomes == nil {
		outcomes = []combat.BattleOutcome{}
	}
	b, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch %d: %w", batchID, err)
	}
	path := JSONPath(j.Dir, batchID)
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// JSONLZstd writes results_batch_<id>.jsonl.zst, one outcome per line.
type JSONLZstd struct {
	Dir string
}

func (j JSONLZstd) Export(ctx context.Context, outcomes []combat.BattleOutcome, batchID int) (err error) {
	if err := os.MkdirAll(j.Dir, 0o755); err != nil {
		return err
	}
	path := JSONLPath(j.Dir, batchID)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(enc, 128*1024)
	je := json.NewEncoder(w)
	for i := range outcomes {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				_ = enc.Close()
				return err
			}
		}
		if err := je.Encode(&outcomes[i]); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode battle %d: %w", outcomes[i].BattleID, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
