package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidProfile  = errors.New("invalid profile set")
)

//go:embed profiles.schema.json
var profileSchemaSrc string

var (
	profileSchemaOnce sync.Once
	profileSchema     *jsonschema.Schema
	profileSchemaErr  error
)

// Profile is the stat template agents are created from. Only the first six
// stats feed combat; the rest are descriptive and carried through as loaded.
type Profile struct {
	HP         int `yaml:"hp" json:"hp"`
	Strength   int `yaml:"str" json:"str"`
	Speed      int `yaml:"spd" json:"spd"`
	Defense    int `yaml:"def" json:"def"`
	BaseDamage int `yaml:"base_damage" json:"base_damage"`
	CritChance int `yaml:"crit_chance" json:"crit_chance"`

	Endurance        int      `yaml:"endurance,omitempty" json:"endurance,omitempty"`
	Dexterity        int      `yaml:"dexterity,omitempty" json:"dexterity,omitempty"`
	IntAbstract      int      `yaml:"int_abstract,omitempty" json:"int_abstract,omitempty"`
	IntEnvironmental int      `yaml:"int_environmental,omitempty" json:"int_environmental,omitempty"`
	PainTolerance    int      `yaml:"pain_tolerance,omitempty" json:"pain_tolerance,omitempty"`
	BehaviorFlags    []string `yaml:"behavior_flags,omitempty" json:"behavior_flags,omitempty"`
}

// ProfileSet is read-only once loaded and safe to share between battles.
type ProfileSet map[string]Profile

func (ps ProfileSet) Lookup(name string) (Profile, error) {
	p, ok := ps[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (have %v)", ErrProfileNotFound, name, ps.Names())
	}
	return p, nil
}

func (ps ProfileSet) Names() []string {
	names := make([]string, 0, len(ps))
	for k := range ps {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LoadProfiles reads a YAML (or JSON) document mapping profile names to stat
// templates and validates it against the embedded schema.
func LoadProfiles(path string) (ProfileSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ps, err := ParseProfiles(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

func ParseProfiles(raw []byte) (ProfileSet, error) {
	if err := validateProfiles(raw); err != nil {
		return nil, err
	}
	var ps ProfileSet
	if err := yaml.Unmarshal(raw, &ps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return ps, nil
}

func validateProfiles(raw []byte) error {
	profileSchemaOnce.Do(func() {
		profileSchema, profileSchemaErr = jsonschema.CompileString("profiles.schema.json", profileSchemaSrc)
	})
	if profileSchemaErr != nil {
		return profileSchemaErr
	}

	// The schema validator wants JSON-shaped values, so round-trip the YAML
	// document through encoding/json with numbers kept exact.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := profileSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return nil
}
