package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	p := writeFile(t, "sim.yaml", `
arena:
  width: 20
batch:
  battles: 7
  solo_count: 0
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Arena.Width != 20 || cfg.Arena.Height != 100 {
		t.Fatalf("arena=%+v want 20x100", cfg.Arena)
	}
	if cfg.Batch.Battles != 7 {
		t.Fatalf("battles=%d want 7", cfg.Batch.Battles)
	}
	if cfg.Batch.SoloCount != 0 {
		t.Fatalf("solo_count=%d want explicit 0", cfg.Batch.SoloCount)
	}
	if cfg.Batch.GroupCount != 100 || cfg.Batch.GroupProfile != "man" {
		t.Fatalf("batch defaults lost: %+v", cfg.Batch)
	}
	if cfg.Rules.MaxRounds != 1000 || cfg.Rules.StalemateRounds != 10 {
		t.Fatalf("rules defaults lost: %+v", cfg.Rules)
	}
	if cfg.Rules.Fatigue.Solo.Base != 3 || cfg.Rules.Fatigue.Group.CapDivisor != 3 {
		t.Fatalf("fatigue defaults lost: %+v", cfg.Rules.Fatigue)
	}
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Arena != (Arena{Width: 100, Height: 100}) {
		t.Fatalf("arena=%+v", cfg.Arena)
	}
}

func TestLoad_MaxRoundsAboveCapRejected(t *testing.T) {
	p := writeFile(t, "sim.yaml", "rules:\n  max_rounds: 5000\n")
	if _, err := Load(p); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err=%v want ErrInvalidConfig", err)
	}
	c := Default()
	c.Rules.MaxRounds = MaxRoundsCap
	if err := c.Validate(); err != nil {
		t.Fatalf("max_rounds=%d rejected: %v", MaxRoundsCap, err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(c *SimConfig){
		"zero arena":       func(c *SimConfig) { c.Arena.Width = 0 },
		"no rounds":        func(c *SimConfig) { c.Rules.MaxRounds = 0 },
		"over hard cap":    func(c *SimConfig) { c.Rules.MaxRounds = MaxRoundsCap + 1 },
		"no stalemate":     func(c *SimConfig) { c.Rules.StalemateRounds = 0 },
		"negative count":   func(c *SimConfig) { c.Batch.GroupCount = -1 },
		"overfull arena":   func(c *SimConfig) { c.Arena = Arena{Width: 3, Height: 3}; c.Batch.GroupCount = 9 },
		"zero cap divisor": func(c *SimConfig) { c.Rules.Fatigue.Solo.CapDivisor = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err=%v want ErrInvalidConfig", err)
			}
		})
	}
}

const sampleProfiles = `
man:
  hp: 50
  str: 10
  spd: 10
  def: 5
  base_damage: 8
  crit_chance: 10
  behavior_flags: [cooperative]
gorilla:
  hp: 400
  str: 40
  spd: 12
  def: 20
  base_damage: 25
  crit_chance: 15
  pain_tolerance: 9
`

func TestLoadProfiles_Lookup(t *testing.T) {
	ps, err := LoadProfiles(writeFile(t, "profiles.yaml", sampleProfiles))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	man, err := ps.Lookup("man")
	if err != nil {
		t.Fatalf("lookup man: %v", err)
	}
	if man.HP != 50 || man.Strength != 10 || man.BaseDamage != 8 || man.CritChance != 10 {
		t.Fatalf("man=%+v", man)
	}
	if len(man.BehaviorFlags) != 1 || man.BehaviorFlags[0] != "cooperative" {
		t.Fatalf("flags=%v", man.BehaviorFlags)
	}
	g, _ := ps.Lookup("gorilla")
	if g.PainTolerance != 9 {
		t.Fatalf("pain_tolerance=%d want 9", g.PainTolerance)
	}
	if _, err := ps.Lookup("bear"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("err=%v want ErrProfileNotFound", err)
	}
	if got := ps.Names(); len(got) != 2 || got[0] != "gorilla" || got[1] != "man" {
		t.Fatalf("names=%v", got)
	}
}

func TestParseProfiles_AcceptsJSON(t *testing.T) {
	ps, err := ParseProfiles([]byte(`{"man":{"hp":50,"str":10,"spd":10,"def":5,"base_damage":8,"crit_chance":10}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ps["man"].Defense != 5 {
		t.Fatalf("man=%+v", ps["man"])
	}
}

func TestParseProfiles_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"empty":         `{}`,
		"missing stat":  `{"man":{"hp":50,"str":10,"spd":10,"def":5,"base_damage":8}}`,
		"zero hp":       `{"man":{"hp":0,"str":10,"spd":10,"def":5,"base_damage":8,"crit_chance":10}}`,
		"crit over 100": `{"man":{"hp":5,"str":10,"spd":10,"def":5,"base_damage":8,"crit_chance":101}}`,
		"fractional":    `{"man":{"hp":5.5,"str":10,"spd":10,"def":5,"base_damage":8,"crit_chance":10}}`,
		"unknown field": `{"man":{"hp":5,"str":10,"spd":10,"def":5,"base_damage":8,"crit_chance":10,"mana":3}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseProfiles([]byte(doc)); !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("err=%v want ErrInvalidProfile", err)
			}
		})
	}
}

func TestShippedAssets(t *testing.T) {
	cfg, err := Load("../../assets/sim.yaml")
	if err != nil {
		t.Fatalf("sim.yaml: %v", err)
	}
	if cfg.Batch.GroupCount != 100 || cfg.Batch.SoloCount != 1 {
		t.Fatalf("counts=%d/%d want 100/1", cfg.Batch.GroupCount, cfg.Batch.SoloCount)
	}
	if cfg.Rules.Fatigue.Solo.Base != 3 || cfg.Rules.Fatigue.Group.CapDivisor != 3 {
		t.Fatalf("fatigue=%+v", cfg.Rules.Fatigue)
	}
	set, err := LoadProfiles("../../assets/profiles.yaml")
	if err != nil {
		t.Fatalf("profiles.yaml: %v", err)
	}
	for _, name := range []string{cfg.Batch.GroupProfile, cfg.Batch.SoloProfile} {
		if _, err := set.Lookup(name); err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
	}
}
