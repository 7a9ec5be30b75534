// Package pacing classifies current progress against a month-end target
package pacing

import (
	"errors"
	"fmt"
)

// State is the three-way semaphore for a creator's pace
type State string

const (
	// Green means the current rate comfortably covers the required rate
	Green State = "green"
	// Yellow means the current rate is close but not comfortably ahead
	Yellow State = "yellow"
	// Red means the target is out of reach at the current rate
	Red State = "red"
)

// ErrInvalidTarget means the target was zero or negative
var ErrInvalidTarget = errors.New("pacing: invalid target")

// Weights are the tunable multipliers on the required daily rate.
// They are configuration, not constants, so operators can retune the
// semaphore sensitivity without a deploy
type Weights struct {
	Green  float64 `json:"green"`
	Yellow float64 `json:"yellow"`
}

// DefaultWeights returns the stock 1.15 / 0.85 multipliers
func DefaultWeights() Weights { return Weights{Green: 1.15, Yellow: 0.85} }

// Classify compares the achieved daily rate with the rate still required.
// An already-met target is always green; a passed deadline with distance
// left is always red
func Classify(current, target float64, daysElapsed, daysRemaining int, w Weights) (State, error) {
	if target <= 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, target)
	}
	if current >= target {
		return Green, nil
	}
	if daysRemaining <= 0 {
		return Red, nil
	}

	currentRate := current / float64(maxInt(1, daysElapsed))
	requiredRate := (target - current) / float64(maxInt(1, daysRemaining))

	switch {
	case currentRate >= requiredRate*w.Green:
		return Green, nil
	case currentRate >= requiredRate*w.Yellow:
		return Yellow, nil
	default:
		return Red, nil
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
