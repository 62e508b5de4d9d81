package util

import "math/rand"

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// BattleSeed derives the seed of one battle from the batch seed. It depends
// only on the battle id, so a battle replays identically no matter which
// worker ran it.
func BattleSeed(base int64, battleID int) int64 {
	z := uint64(base) + uint64(battleID+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z)
}

// Between returns a uniform integer in [lo, hi], both ends inclusive.
func Between(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}
