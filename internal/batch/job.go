// Package batch fans independent battles out over a worker pool and
// collects their outcomes in battle-id order.
package batch

import (
	"errors"
	"fmt"

	"battlesim/internal/combat"
	"battlesim/internal/config"
)

var ErrInvalidJob = errors.New("invalid batch job")

// Job is everything a batch shares between its battles. All of it is
// read-only once the batch starts.
type Job struct {
	BatchID      int
	Battles      int
	Seed         int64
	Arena        config.Arena
	Rules        config.Rules
	GroupProfile config.Profile
	SoloProfile  config.Profile
	GroupCount   int
	SoloCount    int
	Context      combat.ContextSampler
}

// NewJob resolves the configured profile names. A missing profile fails the
// whole batch before any battle runs.
func NewJob(cfg *config.SimConfig, profiles config.ProfileSet, sampler combat.ContextSampler) (Job, error) {
	gp, err := profiles.Lookup(cfg.Batch.GroupProfile)
	if err != nil {
		return Job{}, fmt.Errorf("group profile: %w", err)
	}
	sp, err := profiles.Lookup(cfg.Batch.SoloProfile)
	if err != nil {
		return Job{}, fmt.Errorf("solo profile: %w", err)
	}
	j := Job{
		BatchID:      cfg.Batch.BatchID,
		Battles:      cfg.Batch.Battles,
		Seed:         cfg.Batch.Seed,
		Arena:        cfg.Arena,
		Rules:        cfg.Rules,
		GroupProfile: gp,
		SoloProfile:  sp,
		GroupCount:   cfg.Batch.GroupCount,
		SoloCount:    cfg.Batch.SoloCount,
		Context:      sampler,
	}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	return j, nil
}

func (j Job) Validate() error {
	if j.Battles < 0 || j.GroupCount < 0 || j.SoloCount < 0 {
		return fmt.Errorf("%w: negative count", ErrInvalidJob)
	}
	if j.Arena.Width <= 0 || j.Arena.Height <= 0 {
		return fmt.Errorf("%w: arena %dx%d", ErrInvalidJob, j.Arena.Width, j.Arena.Height)
	}
	if n := j.GroupCount + j.SoloCount; n > j.Arena.Cells() {
		return fmt.Errorf("%w: %d agents on %d cells", ErrInvalidJob, n, j.Arena.Cells())
	}
	if (j.GroupProfile.HP <= 0 && j.GroupCount > 0) || (j.SoloProfile.HP <= 0 && j.SoloCount > 0) {
		return fmt.Errorf("%w: profile without hp", ErrInvalidJob)
	}
	if err := j.Rules.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	return nil
}

// Input builds the battle input for one battle id.
func (j Job) Input(battleID int, seed int64, record bool) combat.BattleInput {
	return combat.BattleInput{
		BattleID:     battleID,
		Seed:         seed,
		Arena:        j.Arena,
		Rules:        j.Rules,
		GroupProfile: j.GroupProfile,
		SoloProfile:  j.SoloProfile,
		GroupCount:   j.GroupCount,
		SoloCount:    j.SoloCount,
		Context:      j.Context,
		Record:       record,
	}
}
