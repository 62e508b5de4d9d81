package combat

import (
	"encoding/json"
	"math/rand"

	"battlesim/internal/config"
	"battlesim/internal/environment"
	"battlesim/internal/util"
)

type Env struct {
	Round int
	Rng   *rand.Rand
}

func NewEnv(seed int64) *Env { return &Env{Rng: util.New(seed)} }

// ContextSampler supplies the environmental context stored on an outcome.
// The battle never looks inside it.
type ContextSampler interface {
	Sample(r *rand.Rand) environment.Context
}

type BattleInput struct {
	BattleID     int
	Seed         int64
	Arena        config.Arena
	Rules        config.Rules
	GroupProfile config.Profile
	SoloProfile  config.Profile
	GroupCount   int
	SoloCount    int
	Context      ContextSampler
	Record       bool
}

type battle struct {
	env     *Env
	rng     *rand.Rand
	arena   config.Arena
	rules   config.Rules
	agents  []Agent
	metrics CausalMetrics
	record  bool
	events  []Event
}

// RunBattle plays one battle to completion: setup, rounds until a
// termination condition, then summary. It has no failure path; the caller
// is responsible for handing it resolved profiles and a population that
// fits the arena. The event trace is nil unless in.Record is set.
func RunBattle(env *Env, in BattleInput) (BattleOutcome, []Event) {
	b := &battle{
		env:    env,
		rng:    env.Rng,
		arena:  in.Arena,
		rules:  in.Rules,
		record: in.Record,
	}
	b.setup(in)
	term := b.run()
	out := b.summarize(in, term)
	b.emit("battle_end", map[string]any{
		"winner": out.Winner.String(), "rounds": out.Rounds, "termination": string(term),
	})
	return out, b.events
}

func (b *battle) emit(typ string, payload map[string]any) {
	if !b.record {
		return
	}
	b.events = append(b.events, Event{Round: b.env.Round, Type: typ, Payload: payload})
}

// setup places every agent on a distinct random cell. Group agents get ids
// 0..g-1 and Solo agents g..g+s-1.
func (b *battle) setup(in BattleInput) {
	b.env.Round = 0
	n := in.GroupCount + in.SoloCount
	cells := make([]Pos, 0, b.arena.Cells())
	for x := 0; x < b.arena.Width; x++ {
		for y := 0; y < b.arena.Height; y++ {
			cells = append(cells, Pos{x, y})
		}
	}
	// partial Fisher-Yates: only the first n cells are needed
	for k := 0; k < n && k < len(cells); k++ {
		j := k + b.rng.Intn(len(cells)-k)
		cells[k], cells[j] = cells[j], cells[k]
	}

	b.agents = make([]Agent, 0, n)
	for i := 0; i < in.GroupCount; i++ {
		b.agents = append(b.agents, NewAgent(i, Group, cells[i], in.GroupProfile))
	}
	for j := 0; j < in.SoloCount; j++ {
		id := in.GroupCount + j
		b.agents = append(b.agents, NewAgent(id, Solo, cells[id], in.SoloProfile))
	}
	for i := range b.agents {
		a := &b.agents[i]
		b.emit("spawn", map[string]any{
			"id": a.ID, "team": a.Team.String(), "x": a.Pos.X, "y": a.Pos.Y, "hp": a.HP,
		})
	}
}

func (b *battle) run() Termination {
	idle := 0
	for b.env.Round < b.rules.MaxRounds && b.bothAlive() {
		b.env.Round++
		dmg := b.runRound()
		if dmg > 0 {
			b.metrics.RoundsEngaged++
			idle = 0
		} else {
			idle++
		}
		b.emit("round_end", map[string]any{"damage": dmg, "engaged": b.metrics.RoundsEngaged})
		if idle >= b.rules.StalemateRounds {
			return Stalemate
		}
	}
	if !b.bothAlive() {
		return Extinction
	}
	return RoundCap
}

func (b *battle) teamAlive(t Team) bool {
	for i := range b.agents {
		if b.agents[i].Alive && b.agents[i].Team == t {
			return true
		}
	}
	return false
}

func (b *battle) bothAlive() bool { return b.teamAlive(Group) && b.teamAlive(Solo) }

func (b *battle) summarize(in BattleInput, term Termination) BattleOutcome {
	groupAlive, soloAlive := b.teamAlive(Group), b.teamAlive(Solo)
	winner := Group
	if soloAlive && !groupAlive {
		winner = Solo
	}

	m := b.metrics
	casualties, members, total := 0, 0, 0
	soloSeen := false
	for i := range b.agents {
		a := &b.agents[i]
		switch a.Team {
		case Group:
			members++
			total += a.DamageDealt
			m.MaxGroupDamage = max(m.MaxGroupDamage, a.DamageDealt)
			if !a.Alive {
				casualties++
			}
		case Solo:
			if !soloSeen {
				soloSeen = true
				if a.Alive {
					m.SoloEndHP = a.RemainingHP()
				}
			}
		}
	}
	if members > 0 {
		m.GroupAvgDamage = float64(total) / float64(members)
	}

	out := BattleOutcome{
		BattleID:        in.BattleID,
		Seed:            in.Seed,
		Winner:          winner,
		Rounds:          b.env.Round,
		GroupCasualties: casualties,
		SoloSurvived:    soloAlive,
		Termination:     term,
		Causal:          m,
	}
	if in.Context != nil {
		out.Context = in.Context.Sample(b.rng)
	}
	return out
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
