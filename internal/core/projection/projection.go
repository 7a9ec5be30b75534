// Package projection extrapolates month-to-date curves to end of month
package projection

import (
	"errors"
	"fmt"
	"math"
	"time"

	"soullatino/internal/core/snapshot"
)

// Method is the only extrapolation method this engine implements
const Method = "linear_rate"

// MaxConfidence caps the consistency score below certainty
const MaxConfidence = 0.95

// ErrInvalidInput means the series or month length was malformed
var ErrInvalidInput = errors.New("projection: invalid input")

// Projection is the end-of-month estimate for one metric.
// Confidence is the active-day ratio capped at MaxConfidence: a creator who
// shows up every elapsed day scores near the cap, one who logged a single
// huge day and went dark scores low no matter how large the day was
type Projection struct {
	EOM         float64   `json:"eom"`
	Rate        float64   `json:"rate"`
	Confidence  float64   `json:"confidence"`
	Method      string    `json:"method"`
	DaysElapsed int       `json:"days_elapsed"`
	AsOf        time.Time `json:"as_of"`
}

// Project linearly extrapolates a cumulative daily series to daysInMonth.
// The series must already follow the max/sum reduction discipline of the
// snapshot package; this function never re-reduces. An empty series yields
// an all-zero projection with confidence 0
func Project(series []snapshot.Point, daysInMonth int, asOf time.Time) (Projection, error) {
	if daysInMonth <= 0 || daysInMonth > 31 {
		return Projection{}, fmt.Errorf("%w: %d days in month", ErrInvalidInput, daysInMonth)
	}

	p := Projection{Method: Method, AsOf: asOf}
	if len(series) == 0 {
		return p, nil
	}

	last := series[len(series)-1].Cumulative
	if last < 0 {
		return Projection{}, fmt.Errorf("%w: negative cumulative value %v", ErrInvalidInput, last)
	}

	elapsed := len(series)
	active := 0
	for _, pt := range series {
		if pt.Active {
			active++
		}
	}

	p.DaysElapsed = elapsed
	p.Rate = last / float64(elapsed)
	p.EOM = math.Round(p.Rate * float64(daysInMonth))
	p.Confidence = math.Min(MaxConfidence, float64(active)/float64(elapsed))
	return p, nil
}
