package analysis

import (
	"sort"

	"battlesim/internal/combat"
)

// Share is one bucket of a categorical breakdown.
type Share struct {
	Name    string
	Count   int
	Percent float64
}

type Summary struct {
	Battles          int
	GroupWins        int
	SoloWins         int
	GroupWinRate     float64
	SoloWinRate      float64
	SoloSurvivalRate float64
	AvgRounds        float64
	AvgCasualties    float64
	AvgCriticalHits  float64
	AvgGroupDamage   float64
	AvgSoloEndHP     float64
	SoloFinalBlows   float64 // share of battles where Solo landed the last kill

	Terminations []Share
	Climates     []Share
	Weather      []Share
	DayRate      float64
}

// Summarize aggregates outcomes. Rates are percentages; every average over
// an empty set is 0.
func Summarize(outs []combat.BattleOutcome) Summary {
	s := Summary{Battles: len(outs)}
	if len(outs) == 0 {
		return s
	}
	var rounds, casualties, crits, endHP, survived, finalBlows, day int
	var dmg float64
	terms := map[string]int{}
	climates := map[string]int{}
	weather := map[string]int{}
	for i := range outs {
		o := &outs[i]
		switch o.Winner {
		case combat.Group:
			s.GroupWins++
		case combat.Solo:
			s.SoloWins++
		}
		rounds += o.Rounds
		casualties += o.GroupCasualties
		crits += o.Causal.TotalCriticalHits
		dmg += o.Causal.GroupAvgDamage
		endHP += o.Causal.SoloEndHP
		if o.SoloSurvived {
			survived++
		}
		if o.Causal.SoloFinalBlow {
			finalBlows++
		}
		if o.Context.IsDay {
			day++
		}
		terms[string(o.Termination)]++
		climates[o.Context.Climate]++
		weather[o.Context.Weather]++
	}
	n := float64(len(outs))
	s.GroupWinRate = pct(s.GroupWins, n)
	s.SoloWinRate = pct(s.SoloWins, n)
	s.SoloSurvivalRate = pct(survived, n)
	s.SoloFinalBlows = pct(finalBlows, n)
	s.DayRate = pct(day, n)
	s.AvgRounds = float64(rounds) / n
	s.AvgCasualties = float64(casualties) / n
	s.AvgCriticalHits = float64(crits) / n
	s.AvgGroupDamage = dmg / n
	s.AvgSoloEndHP = float64(endHP) / n
	s.Terminations = shares(terms, n)
	s.Climates = shares(climates, n)
	s.Weather = shares(weather, n)
	return s
}

func pct(k int, n float64) float64 { return float64(k) / n * 100 }

// shares orders buckets by count, then name.
func shares(m map[string]int, n float64) []Share {
	out := make([]Share, 0, len(m))
	for name, c := range m {
		if name == "" {
			name = "unknown"
		}
		out = append(out, Share{Name: name, Count: c, Percent: pct(c, n)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
