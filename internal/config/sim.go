package config

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

type SimConfig struct {
	Arena  Arena        `yaml:"arena"`
	Rules  Rules        `yaml:"rules"`
	Batch  BatchConfig  `yaml:"batch"`
	Paths  PathsConfig  `yaml:"paths"`
	Export ExportConfig `yaml:"export"`
	Log    LogConfig    `yaml:"log"`
}

// Arena is the battle grid. Cells are 0-indexed with exclusive upper bounds.
type Arena struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (a Arena) Contains(x, y int) bool { return x >= 0 && x < a.Width && y >= 0 && y < a.Height }
func (a Arena) Cells() int             { return a.Width * a.Height }

type Rules struct {
	MaxRounds       int          `yaml:"max_rounds"`
	StalemateRounds int          `yaml:"stalemate_rounds"`
	AttackRange     int          `yaml:"attack_range"`
	AllyRadius      int          `yaml:"ally_radius"`
	Fatigue         FatigueRules `yaml:"fatigue"`
}

type FatigueRules struct {
	Group FatigueCurve `yaml:"group"`
	Solo  FatigueCurve `yaml:"solo"`
}

// FatigueCurve: penalty = min(engaged^Exponent * Base, speed / CapDivisor).
type FatigueCurve struct {
	Base       float64 `yaml:"base"`
	Exponent   float64 `yaml:"exponent"`
	CapDivisor int     `yaml:"cap_divisor"`
}

type BatchConfig struct {
	Battles      int    `yaml:"battles"`
	BatchID      int    `yaml:"batch_id"`
	Seed         int64  `yaml:"seed"`
	Workers      int    `yaml:"workers"`
	GroupProfile string `yaml:"group_profile"`
	SoloProfile  string `yaml:"solo_profile"`
	GroupCount   int    `yaml:"group_count"`
	SoloCount    int    `yaml:"solo_count"`
}

type PathsConfig struct {
	Profiles string `yaml:"profiles"`
	Contexts string `yaml:"contexts"`
	OutDir   string `yaml:"out_dir"`
}

type ExportConfig struct {
	JSON   bool   `yaml:"json"`
	JSONL  bool   `yaml:"jsonl_zstd"`
	SQLite string `yaml:"sqlite"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// MaxRoundsCap is the hard limit on battle length; max_rounds may lower it
// but never raise it.
const MaxRoundsCap = 1000

func DefaultRules() Rules {
	return Rules{
		MaxRounds:       MaxRoundsCap,
		StalemateRounds: 10,
		AttackRange:     1,
		AllyRadius:      2,
		Fatigue: FatigueRules{
			Group: FatigueCurve{Base: 1, Exponent: 1.2, CapDivisor: 3},
			Solo:  FatigueCurve{Base: 3, Exponent: 1.2, CapDivisor: 2},
		},
	}
}

func Default() *SimConfig {
	return &SimConfig{
		Arena: Arena{Width: 100, Height: 100},
		Rules: DefaultRules(),
		Batch: BatchConfig{
			Battles:      50,
			Seed:         1,
			GroupProfile: "man",
			SoloProfile:  "gorilla",
			GroupCount:   100,
			SoloCount:    1,
		},
		Paths: PathsConfig{
			Profiles: "assets/profiles.yaml",
			Contexts: "assets/cities.csv",
			OutDir:   "out",
		},
		Export: ExportConfig{JSON: true},
		Log:    LogConfig{Level: "info", Encoding: "console"},
	}
}

func (c *SimConfig) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: arena %dx%d", ErrInvalidConfig, c.Arena.Width, c.Arena.Height)
	}
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	b := c.Batch
	if b.Battles < 0 || b.GroupCount < 0 || b.SoloCount < 0 || b.Workers < 0 {
		return fmt.Errorf("%w: negative batch count", ErrInvalidConfig)
	}
	if b.GroupCount+b.SoloCount > c.Arena.Cells() {
		return fmt.Errorf("%w: %d agents do not fit a %dx%d arena",
			ErrInvalidConfig, b.GroupCount+b.SoloCount, c.Arena.Width, c.Arena.Height)
	}
	return nil
}

func (r Rules) Validate() error {
	if r.MaxRounds <= 0 || r.MaxRounds > MaxRoundsCap {
		return fmt.Errorf("%w: max_rounds=%d (1..%d)", ErrInvalidConfig, r.MaxRounds, MaxRoundsCap)
	}
	if r.StalemateRounds <= 0 {
		return fmt.Errorf("%w: stalemate_rounds=%d", ErrInvalidConfig, r.StalemateRounds)
	}
	if r.AttackRange < 1 || r.AllyRadius < 0 {
		return fmt.Errorf("%w: attack_range=%d ally_radius=%d", ErrInvalidConfig, r.AttackRange, r.AllyRadius)
	}
	for name, fc := range map[string]FatigueCurve{"group": r.Fatigue.Group, "solo": r.Fatigue.Solo} {
		if fc.CapDivisor <= 0 || fc.Base < 0 || fc.Exponent <= 0 {
			return fmt.Errorf("%w: fatigue.%s %+v", ErrInvalidConfig, name, fc)
		}
	}
	return nil
}
