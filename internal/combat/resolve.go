package combat

import (
	"math/rand"

	"battlesim/internal/util"
)

// strike is the result of one attack roll sequence.
type strike struct {
	Chance int
	Roll   int
	Hit    bool
	Crit   bool
	Damage int
}

// resolveGroupAttack: a group member gets bonuses from allies standing close
// by, and each ally also thins out the target's defense.
func resolveGroupAttack(r *rand.Rand, a *Agent, eff Stats, targetSpeed, targetDefense, allies int) strike {
	chance := clamp(60+5*(eff.Speed-targetSpeed)+3*allies+util.Between(r, -10, 10), 20, 90)
	s := strike{Chance: chance, Roll: util.Between(r, 1, 100)}
	if s.Roll > chance {
		return s
	}
	s.Hit = true
	s.Damage = max(a.BaseDamage+eff.Strength-targetDefense/(2+allies), 2)

	critRoll := util.Between(r, 1, 100)
	threshold := clamp(a.CritChance+2*allies+util.Between(r, -5, 5), 1, 95)
	if critRoll <= threshold {
		s.Crit = true
		s.Damage *= 2
	}
	return s
}

// resolveSoloAttack: the lone attacker hits harder and with wider variance,
// with no ally terms.
func resolveSoloAttack(r *rand.Rand, a *Agent, eff Stats, targetSpeed, targetDefense int) strike {
	chance := clamp(65+8*(eff.Speed-targetSpeed)+util.Between(r, -15, 15), 25, 95)
	s := strike{Chance: chance, Roll: util.Between(r, 1, 100)}
	if s.Roll > chance {
		return s
	}
	s.Hit = true
	s.Damage = max(a.BaseDamage+2*eff.Strength-targetDefense/2, 5)

	critRoll := util.Between(r, 1, 100)
	threshold := clamp(a.CritChance+util.Between(r, -10, 10), 1, 95)
	if critRoll <= threshold {
		s.Crit = true
		s.Damage *= 2
	}
	return s
}
