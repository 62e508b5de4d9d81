package combat

import "battlesim/internal/config"

// MoveTowards takes one grid step toward target: along x first, else along
// y, skipping occupied cells. Never diagonal, never off the arena. Reports
// whether the agent moved.
func (a *Agent) MoveTowards(target Pos, occupied map[Pos]struct{}, arena config.Arena) bool {
	dx := sign(target.X - a.Pos.X)
	dy := sign(target.Y - a.Pos.Y)
	for _, np := range [2]Pos{a.Pos.Add(dx, 0), a.Pos.Add(0, dy)} {
		np = np.Clamp(arena)
		if np == a.Pos {
			continue
		}
		if _, taken := occupied[np]; taken {
			continue
		}
		a.Pos = np
		return true
	}
	return false
}
