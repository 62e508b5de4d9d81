package combat

import "battlesim/internal/config"

type Agent struct {
	ID   int
	Team Team
	Pos  Pos

	HP         int
	MaxHP      int
	Strength   int
	Speed      int
	Defense    int
	BaseDamage int
	CritChance int

	Alive       bool
	DamageDealt int
}

func NewAgent(id int, team Team, pos Pos, p config.Profile) Agent {
	return Agent{
		ID: id, Team: team, Pos: pos,
		HP: p.HP, MaxHP: p.HP,
		Strength: p.Strength, Speed: p.Speed, Defense: p.Defense,
		BaseDamage: p.BaseDamage, CritChance: p.CritChance,
		Alive: true,
	}
}

// TakeDamage lowers HP without clamping. Death is permanent: a dead agent
// keeps losing HP arithmetically but never comes back.
func (a *Agent) TakeDamage(amount int) {
	a.HP -= amount
	if a.HP <= 0 {
		a.Alive = false
	}
}

func (a Agent) RemainingHP() int { return max(a.HP, 0) }
