package combat

import (
	"math"

	"battlesim/internal/config"
)

// Stats are the fatigue-adjusted combat stats of one agent for one round.
type Stats struct {
	Speed    int
	Strength int
	Defense  int
}

func curveFor(r config.FatigueRules, t Team) config.FatigueCurve {
	if t == Solo {
		return r.Solo
	}
	return r.Group
}

// Fatigue grows with the number of engaged rounds (rounds in which any
// damage was dealt), not elapsed rounds, and is capped by a fraction of the
// agent's own speed.
func Fatigue(speed, engaged int, c config.FatigueCurve) int {
	if engaged <= 0 {
		return 0
	}
	raw := math.Pow(float64(engaged), c.Exponent) * c.Base
	limit := float64(speed / c.CapDivisor)
	return int(math.Min(raw, limit))
}

// Effective applies a fatigue penalty 1:1 to speed, 2:1 to strength and 3:1
// to defense. Results never drop below 1.
func Effective(a *Agent, fatigue int) Stats {
	return Stats{
		Speed:    max(a.Speed-fatigue, 1),
		Strength: max(a.Strength-2*fatigue, 1),
		Defense:  max(a.Defense-3*fatigue, 1),
	}
}
