package combat

import "sort"

// runRound plays one round and returns the total damage dealt in it.
func (b *battle) runRound() int {
	occupied := make(map[Pos]struct{}, len(b.agents))
	for i := range b.agents {
		occupied[b.agents[i].Pos] = struct{}{}
	}
	attacked := make([]bool, len(b.agents))
	damage := 0

	for _, i := range b.attackOrder() {
		me := &b.agents[i]
		if !me.Alive {
			continue
		}
		t, ok := SelectTarget(b.agents, i)
		if !ok || attacked[t] {
			continue
		}
		target := &b.agents[t]
		if Distance(me.Pos, target.Pos) > b.rules.AttackRange {
			from := me.Pos
			if me.MoveTowards(target.Pos, occupied, b.arena) {
				occupied[me.Pos] = struct{}{}
				b.emit("move", map[string]any{
					"id": me.ID, "from": []int{from.X, from.Y}, "to": []int{me.Pos.X, me.Pos.Y},
				})
			}
			continue
		}
		attacked[t] = true
		damage += b.attack(i, t)
	}
	return damage
}

// attackOrder groups Group before Solo and then shuffles, so contention for
// targets is decided by the battle's RNG.
func (b *battle) attackOrder() []int {
	order := make([]int, len(b.agents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return b.agents[order[x]].Team < b.agents[order[y]].Team
	})
	b.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return order
}

// pair hands out the attacker and the target as two pointers into the same
// slice. Callers must never pass the same index twice.
func (b *battle) pair(ai, ti int) (*Agent, *Agent) {
	if ai == ti {
		panic("combat: agent paired with itself")
	}
	return &b.agents[ai], &b.agents[ti]
}

func (b *battle) effective(a *Agent) Stats {
	return Effective(a, Fatigue(a.Speed, b.metrics.RoundsEngaged, curveFor(b.rules.Fatigue, a.Team)))
}

func (b *battle) nearbyAllies(i int) int {
	me := &b.agents[i]
	n := 0
	for j := range b.agents {
		a := &b.agents[j]
		if j == i || !a.Alive || a.Team != me.Team {
			continue
		}
		if Distance(me.Pos, a.Pos) <= b.rules.AllyRadius {
			n++
		}
	}
	return n
}

func (b *battle) attack(ai, ti int) int {
	attacker, target := b.pair(ai, ti)
	eff := b.effective(attacker)
	targetDef := b.effective(target).Defense

	var s strike
	allies := 0
	if attacker.Team == Group {
		allies = b.nearbyAllies(ai)
		s = resolveGroupAttack(b.rng, attacker, eff, target.Speed, targetDef, allies)
	} else {
		s = resolveSoloAttack(b.rng, attacker, eff, target.Speed, targetDef)
	}

	if !s.Hit {
		b.emit("miss", map[string]any{
			"attacker": attacker.ID, "target": target.ID, "chance": s.Chance, "roll": s.Roll,
		})
		return 0
	}
	if s.Crit {
		b.metrics.TotalCriticalHits++
		b.emit("crit", map[string]any{"attacker": attacker.ID, "target": target.ID})
	}
	target.TakeDamage(s.Damage)
	attacker.DamageDealt += s.Damage
	b.emit("attack", map[string]any{
		"attacker": attacker.ID, "target": target.ID, "dmg": s.Damage, "crit": s.Crit,
		"allies": allies, "hp": target.HP,
	})
	if !target.Alive {
		b.metrics.SoloFinalBlow = attacker.Team == Solo
		b.emit("kill", map[string]any{"attacker": attacker.ID, "target": target.ID, "team": attacker.Team.String()})
	}
	return s.Damage
}
