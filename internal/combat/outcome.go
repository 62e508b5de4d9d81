package combat

import "battlesim/internal/environment"

type CausalMetrics struct {
	TotalCriticalHits int     `json:"total_critical_hits"`
	GroupAvgDamage    float64 `json:"group_avg_damage"`
	MaxGroupDamage    int     `json:"max_group_damage"`
	SoloEndHP         int     `json:"solo_end_hp"`
	RoundsEngaged     int     `json:"rounds_engaged"`
	SoloFinalBlow     bool    `json:"solo_final_blow"`
}

// BattleOutcome is produced once per battle and never mutated afterwards.
type BattleOutcome struct {
	BattleID        int                 `json:"battle_id"`
	Seed            int64               `json:"seed"`
	Winner          Team                `json:"winner"`
	Rounds          int                 `json:"rounds"`
	GroupCasualties int                 `json:"group_casualties"`
	SoloSurvived    bool                `json:"solo_survived"`
	Termination     Termination         `json:"termination"`
	Context         environment.Context `json:"context"`
	Causal          CausalMetrics       `json:"causal"`
}
