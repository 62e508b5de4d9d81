// Package analysis summarizes exported batch results offline.
package analysis

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"battlesim/internal/combat"
)

var ErrNoResults = errors.New("no result files")

var batchFileRe = regexp.MustCompile(`results_batch_(\d+)\.json(l\.zst)?$`)

// BatchIDFromFilename extracts <id> from results_batch_<id>.json or
// results_batch_<id>.jsonl.zst.
func BatchIDFromFilename(path string) (int, bool) {
	m := batchFileRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Load reads a results file or every results file in a directory. A batch
// exported in both formats is read once, from its .json file. Files are read
// in name order and concatenated.
func Load(path string) ([]combat.BattleOutcome, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return loadFile(path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	// one file per stem; .json wins over .jsonl.zst
	byStem := map[string]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		switch {
		case strings.HasSuffix(n, ".json"):
			byStem[strings.TrimSuffix(n, ".json")] = n
		case strings.HasSuffix(n, ".jsonl.zst"):
			stem := strings.TrimSuffix(n, ".jsonl.zst")
			if _, ok := byStem[stem]; !ok {
				byStem[stem] = n
			}
		}
	}
	if len(byStem) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoResults, path)
	}
	names := make([]string, 0, len(byStem))
	for _, n := range byStem {
		names = append(names, n)
	}
	sort.Strings(names)
	var all []combat.BattleOutcome
	for _, n := range names {
		outs, err := loadFile(filepath.Join(path, n))
		if err != nil {
			return nil, err
		}
		all = append(all, outs...)
	}
	return all, nil
}

func loadFile(path string) ([]combat.BattleOutcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var outs []combat.BattleOutcome
	if strings.HasSuffix(path, ".zst") {
		outs, err = readJSONL(f)
	} else {
		err = json.NewDecoder(bufio.NewReader(f)).Decode(&outs)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return outs, nil
}

func readJSONL(r io.Reader) ([]combat.BattleOutcome, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var outs []combat.BattleOutcome
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var o combat.BattleOutcome
		if err := json.Unmarshal(sc.Bytes(), &o); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		outs = append(outs, o)
	}
	return outs, sc.Err()
}
