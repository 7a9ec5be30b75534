// Package milestone tracks progress against ordered metric thresholds
package milestone

import (
	"errors"
	"math"
)

// Default threshold ladders. Diamond tiers are the graduation levels that
// unlock one-time bonuses; day and hour ladders are the activity hitos
var (
	DiamondThresholds = []float64{50_000, 100_000, 300_000, 500_000, 1_000_000}
	DayThresholds     = []float64{12, 20, 22}
	HourThresholds    = []float64{40, 60, 80}
)

// ErrEmptyThresholds means the threshold ladder was empty
var ErrEmptyThresholds = errors.New("milestone: empty threshold set")

// Status describes where current stands against a ladder.
// Achieved is monotonic within a month: once the top threshold is reached it
// cannot flip back for non-decreasing input
type Status struct {
	Target    float64 `json:"target"`
	Remaining float64 `json:"remaining"`
	Achieved  bool    `json:"achieved"`
	// Progress is percent of Target covered, clamped to [0,100]
	Progress float64 `json:"progress"`
	// ETADays estimates days to reach Target at rate, 0 when achieved
	ETADays int `json:"eta_days"`
}

// Next finds the first threshold strictly greater than current.
// When every threshold is met it returns the last one with remaining 0 and
// achieved true. Thresholds must be sorted ascending
func Next(current float64, thresholds []float64) (Status, error) {
	if len(thresholds) == 0 {
		return Status{}, ErrEmptyThresholds
	}
	for _, t := range thresholds {
		if t > current {
			return Status{
				Target:    t,
				Remaining: t - current,
				Progress:  progress(current, t),
			}, nil
		}
	}
	last := thresholds[len(thresholds)-1]
	return Status{Target: last, Remaining: 0, Achieved: true, Progress: 100}, nil
}

// Track is Next plus an ETA estimate at the given daily rate.
// ETA is capped at daysRemaining so a stale rate cannot promise a date past
// month end; a zero rate with distance left reports the cap itself
func Track(current float64, thresholds []float64, dailyRate float64, daysRemaining int) (Status, error) {
	st, err := Next(current, thresholds)
	if err != nil || st.Achieved {
		return st, err
	}
	if dailyRate > 0 {
		eta := int(math.Ceil(st.Remaining / dailyRate))
		if eta > daysRemaining {
			eta = daysRemaining
		}
		st.ETADays = eta
	} else {
		st.ETADays = daysRemaining
	}
	return st, nil
}

// Combined is the logical AND of a day ladder step and an hour ladder step,
// e.g. the 12-day/40-hour hito. Both legs must be achieved for the hito
type Combined struct {
	TargetDays    float64 `json:"target_days"`
	TargetHours   float64 `json:"target_hours"`
	DaysAchieved  bool    `json:"days_achieved"`
	HoursAchieved bool    `json:"hours_achieved"`
	BothAchieved  bool    `json:"both_achieved"`
	DaysProgress  float64 `json:"days_progress"`
	HoursProgress float64 `json:"hours_progress"`
}

// Combine evaluates a combined day and hour milestone
func Combine(currentDays, currentHours, targetDays, targetHours float64) Combined {
	c := Combined{
		TargetDays:    targetDays,
		TargetHours:   targetHours,
		DaysAchieved:  currentDays >= targetDays,
		HoursAchieved: currentHours >= targetHours,
		DaysProgress:  progress(currentDays, targetDays),
		HoursProgress: progress(currentHours, targetHours),
	}
	c.BothAchieved = c.DaysAchieved && c.HoursAchieved
	return c
}

// progress is percent of target covered, clamped to [0,100]
func progress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := current / target * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
