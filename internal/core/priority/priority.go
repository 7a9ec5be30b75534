// Package priority flags creators who need urgent manager attention
package priority

// NearObjectiveRatio is the remaining-to-target ratio below which a creator
// counts as near their objective
const NearObjectiveRatio = 0.15

// Flag carries the attention markers for one creator
type Flag struct {
	IsNewCreator     bool `json:"is_new_creator"`
	IsPriorityTarget bool `json:"is_priority_target"`
	IsNearObjective  bool `json:"is_near_objective"`
}

// Score derives the tenure-based flags.
// A new creator still below the priority tier is a priority target
func Score(tenureDays int, diamondsMTD int64, newThresholdDays int, priorityTarget int64) Flag {
	f := Flag{IsNewCreator: tenureDays < newThresholdDays}
	f.IsPriorityTarget = f.IsNewCreator && diamondsMTD < priorityTarget
	return f
}

// NearObjective reports whether remaining distance is small but nonzero
func NearObjective(remaining, target float64) bool {
	return remaining > 0 && remaining < target*NearObjectiveRatio
}
