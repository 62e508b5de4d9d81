package combat

// SelectTarget returns the index of the nearest living enemy of
// agents[self]. Ties go to the earliest agent in slice order. An agent is
// never its own enemy, so the result is always != self.
func SelectTarget(agents []Agent, self int) (int, bool) {
	me := agents[self]
	best, bestDist := -1, 0
	for i := range agents {
		a := &agents[i]
		if !a.Alive || a.Team == me.Team {
			continue
		}
		d := Distance(me.Pos, a.Pos)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
