// Package snapshot reduces per-day creator rows into month-to-date totals
package snapshot

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Mode says how the per-day rows of a source encode their metric columns.
// A source is either cumulative (each row carries the month-so-far total)
// or delta (each row carries only that day's increment). The two need
// opposite reduction operators, so a caller must always say which one it
// has; the zero value is rejected rather than guessed around
type Mode uint8

const (
	// ModeUnset is the invalid zero value
	ModeUnset Mode = iota
	// ModeRunningTotal marks rows that carry a running monthly total, reduced with max
	ModeRunningTotal
	// ModeDailyDelta marks rows that carry a true per-day increment, reduced with sum
	ModeDailyDelta
)

// String returns the wire name of the mode
func (m Mode) String() string {
	switch m {
	case ModeRunningTotal:
		return "running_total"
	case ModeDailyDelta:
		return "daily_delta"
	default:
		return "unset"
	}
}

// ParseMode maps a wire name back to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "running_total":
		return ModeRunningTotal, nil
	case "daily_delta":
		return ModeDailyDelta, nil
	default:
		return ModeUnset, fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Sentinel errors for reduction failures. All are permanent input defects,
// never transient; callers must not retry or substitute zeros
var (
	// ErrInvalidMode means the reduction mode was unset or unknown
	ErrInvalidMode = errors.New("snapshot: invalid reduction mode")
	// ErrDuplicateDate means two rows share the same creator and calendar date
	ErrDuplicateDate = errors.New("snapshot: duplicate snapshot date")
	// ErrMixedCreators means the input mixes rows from different creators
	ErrMixedCreators = errors.New("snapshot: mixed creator ids")
	// ErrInvariant means the reduced aggregate violated a physical bound
	ErrInvariant = errors.New("snapshot: aggregate invariant violated")
)

// Daily is one raw row for one creator on one calendar date.
// Diamonds and LiveHours follow the semantics of the source Mode
type Daily struct {
	CreatorID uuid.UUID
	Date      time.Time
	Diamonds  int64
	LiveHours float64
}

// ActiveDay reports whether the row counts as a live day
func (d Daily) ActiveDay() bool {
	return d.Diamonds > 0 || d.LiveHours >= 1.0
}

// MonthlyAggregate is the non-duplicated month-to-date rollup for one creator
type MonthlyAggregate struct {
	CreatorID uuid.UUID `json:"creator_id"`
	Month     time.Time `json:"month"`
	LiveDays  int       `json:"live_days"`
	LiveHours float64   `json:"live_hours"`
	Diamonds  int64     `json:"diamonds"`
}

// MonthWindow describes the calendar position of asOf within its month
type MonthWindow struct {
	DaysInMonth   int
	DaysElapsed   int
	DaysRemaining int
}

// Window computes the month window for asOf.
// DaysElapsed includes asOf itself; DaysRemaining excludes it
func Window(asOf time.Time) MonthWindow {
	y, m, _ := asOf.Date()
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, asOf.Location()).Day()
	return MonthWindow{
		DaysInMonth:   last,
		DaysElapsed:   asOf.Day(),
		DaysRemaining: last - asOf.Day(),
	}
}

// MonthOf truncates t to the first day of its month
func MonthOf(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// DayOf truncates t to its calendar date
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Reduce rolls rows for one creator up into month-to-date totals as of asOf.
// Rows outside asOf's month or after asOf are ignored; an empty input is a
// zero aggregate, not an error.
//
// ModeRunningTotal reduces diamonds and hours with max because every row
// already encodes the total so far; summing such rows double counts each
// prior day, which is the classic corruption this package exists to prevent.
// ModeDailyDelta reduces with sum. LiveDays is always the count of distinct
// qualifying dates regardless of mode
func Reduce(rows []Daily, mode Mode, asOf time.Time) (MonthlyAggregate, error) {
	if mode != ModeRunningTotal && mode != ModeDailyDelta {
		return MonthlyAggregate{}, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	agg := MonthlyAggregate{Month: MonthOf(asOf)}
	cutoff := DayOf(asOf)

	seen := make(map[time.Time]struct{}, len(rows))
	for _, r := range rows {
		day := DayOf(r.Date)
		if day.After(cutoff) || !MonthOf(r.Date).Equal(agg.Month) {
			continue
		}
		if agg.CreatorID == uuid.Nil {
			agg.CreatorID = r.CreatorID
		} else if r.CreatorID != agg.CreatorID {
			return MonthlyAggregate{}, fmt.Errorf("%w: %s and %s", ErrMixedCreators, agg.CreatorID, r.CreatorID)
		}
		if _, dup := seen[day]; dup {
			// surfaced, not summed: a silent duplicate date is
			// indistinguishable from the running-total bug downstream
			return MonthlyAggregate{}, fmt.Errorf("%w: %s on %s", ErrDuplicateDate, r.CreatorID, day.Format("2006-01-02"))
		}
		seen[day] = struct{}{}

		switch mode {
		case ModeRunningTotal:
			agg.Diamonds = max(agg.Diamonds, r.Diamonds)
			agg.LiveHours = maxf(agg.LiveHours, r.LiveHours)
		case ModeDailyDelta:
			agg.Diamonds += r.Diamonds
			agg.LiveHours += r.LiveHours
		}
		if r.ActiveDay() {
			agg.LiveDays++
		}
	}

	if err := agg.check(Window(asOf)); err != nil {
		return MonthlyAggregate{}, err
	}
	return agg, nil
}

// check validates the physical bounds of a computed aggregate.
// A violation here means the input was corrupt in a way the reduction could
// not detect row by row; it is raised rather than clamped
func (a MonthlyAggregate) check(w MonthWindow) error {
	if a.Diamonds < 0 {
		return fmt.Errorf("%w: negative diamonds %d", ErrInvariant, a.Diamonds)
	}
	if a.LiveDays > w.DaysElapsed {
		return fmt.Errorf("%w: %d live days in %d elapsed days", ErrInvariant, a.LiveDays, w.DaysElapsed)
	}
	if a.LiveHours < 0 || a.LiveHours >= 24*float64(w.DaysInMonth) {
		return fmt.Errorf("%w: %.1f live hours in a %d-day month", ErrInvariant, a.LiveHours, w.DaysInMonth)
	}
	return nil
}

// Series rebuilds the day-by-day cumulative curve for one metric so the
// projection layer can share the exact reduction discipline of Reduce.
// Rows are filtered and ordered the same way; the returned slice holds one
// point per retained row
func Series(rows []Daily, mode Mode, asOf time.Time, value func(Daily) float64) ([]Point, error) {
	if mode != ModeRunningTotal && mode != ModeDailyDelta {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	month := MonthOf(asOf)
	cutoff := DayOf(asOf)

	kept := make([]Daily, 0, len(rows))
	for _, r := range rows {
		day := DayOf(r.Date)
		if day.After(cutoff) || !MonthOf(r.Date).Equal(month) {
			continue
		}
		kept = append(kept, r)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })

	out := make([]Point, 0, len(kept))
	var running float64
	seen := make(map[time.Time]struct{}, len(kept))
	for _, r := range kept {
		day := DayOf(r.Date)
		if _, dup := seen[day]; dup {
			return nil, fmt.Errorf("%w: %s on %s", ErrDuplicateDate, r.CreatorID, day.Format("2006-01-02"))
		}
		seen[day] = struct{}{}

		switch mode {
		case ModeRunningTotal:
			running = maxf(running, value(r))
		case ModeDailyDelta:
			running += value(r)
		}
		out = append(out, Point{Date: day, Cumulative: running, Active: r.ActiveDay()})
	}
	return out, nil
}

// Point is one day on a cumulative metric curve
type Point struct {
	Date       time.Time
	Cumulative float64
	Active     bool
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
