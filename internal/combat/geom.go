package combat

import "battlesim/internal/config"

type Pos struct{ X, Y int }

// Distance is the Manhattan distance used for every range check.
func Distance(a, b Pos) int { return abs(a.X-b.X) + abs(a.Y-b.Y) }

func (p Pos) Add(dx, dy int) Pos { return Pos{p.X + dx, p.Y + dy} }

func (p Pos) Clamp(a config.Arena) Pos {
	return Pos{clamp(p.X, 0, a.Width-1), clamp(p.Y, 0, a.Height-1)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
