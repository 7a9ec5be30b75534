// Package engine runs the full metrics and bonus pipeline for one creator.
// Everything here is pure: snapshots and configuration in, derived insight
// out, with time entering only through the explicit asOf parameter. Running
// it twice on identical input yields byte-identical output
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"soullatino/internal/core/bonus"
	"soullatino/internal/core/message"
	"soullatino/internal/core/milestone"
	"soullatino/internal/core/pacing"
	"soullatino/internal/core/priority"
	"soullatino/internal/core/projection"
	"soullatino/internal/core/snapshot"
)

// Version identifies the pipeline revision. Bump it when thresholds,
// formulas, or the insight shape change in a way consumers can observe
const Version = 1

// Config carries every tunable of the pipeline. All of it comes from the
// configuration provider; nothing in here is hardcoded below this point
type Config struct {
	DiamondThresholds []float64
	DayThresholds     []float64
	HourThresholds    []float64

	Pacing pacing.Weights

	ExtraDayRateUSD decimal.Decimal
	TierAmountsUSD  map[int64]decimal.Decimal

	NewCreatorThresholdDays int
	PriorityTierTarget      int64

	Locale    language.Tag
	Templates message.TemplateSet
}

// DefaultConfig returns the stock thresholds, weights, and payouts
func DefaultConfig() Config {
	return Config{
		DiamondThresholds:       milestone.DiamondThresholds,
		DayThresholds:           milestone.DayThresholds,
		HourThresholds:          milestone.HourThresholds,
		Pacing:                  pacing.DefaultWeights(),
		ExtraDayRateUSD:         bonus.DefaultExtraDayRate(),
		TierAmountsUSD:          bonus.DefaultTierAmounts(),
		NewCreatorThresholdDays: 90,
		PriorityTierTarget:      300_000,
		Locale:                  language.English,
		Templates:               message.DefaultTemplates(),
	}
}

// Input is one creator-month evaluation request
type Input struct {
	CreatorName string
	Snapshots   []snapshot.Daily
	Mode        snapshot.Mode
	AsOf        time.Time
	TenureDays  int

	// Prev enables previous-month comparison deltas when the caller has it
	Prev *snapshot.MonthlyAggregate
}

// Milestones groups the per-metric milestone statuses
type Milestones struct {
	Diamonds  milestone.Status `json:"diamonds"`
	LiveDays  milestone.Status `json:"live_days"`
	LiveHours milestone.Status `json:"live_hours"`
}

// Projections groups the per-metric end-of-month projections
type Projections struct {
	Diamonds  projection.Projection `json:"diamonds"`
	LiveDays  projection.Projection `json:"live_days"`
	LiveHours projection.Projection `json:"live_hours"`
}

// PacingStates groups the per-metric semaphore states
type PacingStates struct {
	Diamonds  pacing.State `json:"diamonds"`
	LiveDays  pacing.State `json:"live_days"`
	LiveHours pacing.State `json:"live_hours"`
}

// Deltas compares this month with the previous one
type Deltas struct {
	LiveDays        int     `json:"live_days"`
	LiveHours       float64 `json:"live_hours"`
	Diamonds        int64   `json:"diamonds"`
	DiamondsPercent float64 `json:"diamonds_percent"`
}

// Insight is the full derived output for one creator-month
type Insight struct {
	Aggregate   snapshot.MonthlyAggregate `json:"aggregate"`
	Milestones  Milestones                `json:"milestones"`
	Combined    []milestone.Combined      `json:"combined"`
	Projections Projections               `json:"projections"`
	Pacing      PacingStates              `json:"pacing"`
	Bonus       bonus.Breakdown           `json:"bonus"`
	Priority    priority.Flag             `json:"priority"`
	Message     string                    `json:"message"`

	Deltas *Deltas `json:"deltas,omitempty"`

	RequiredDiamondsPerDay float64 `json:"required_diamonds_per_day"`
	RequiredHoursPerDay    float64 `json:"required_hours_per_day"`
	RecommendedGoal        string  `json:"recommended_goal"`

	DaysInMonth   int `json:"days_in_month"`
	DaysElapsed   int `json:"days_elapsed"`
	DaysRemaining int `json:"days_remaining"`
}

// Evaluate runs the whole pipeline: reduce, track, project, classify,
// pay, flag, compose
func Evaluate(in Input, cfg Config) (Insight, error) {
	agg, err := snapshot.Reduce(in.Snapshots, in.Mode, in.AsOf)
	if err != nil {
		return Insight{}, err
	}

	w := snapshot.Window(in.AsOf)
	out := Insight{
		Aggregate:     agg,
		DaysInMonth:   w.DaysInMonth,
		DaysElapsed:   w.DaysElapsed,
		DaysRemaining: w.DaysRemaining,
	}

	// milestones with ETA at the current daily rate
	diamondRate := rate(float64(agg.Diamonds), w.DaysElapsed)
	dayRate := rate(float64(agg.LiveDays), w.DaysElapsed)
	hourRate := rate(agg.LiveHours, w.DaysElapsed)

	if out.Milestones.Diamonds, err = milestone.Track(float64(agg.Diamonds), cfg.DiamondThresholds, diamondRate, w.DaysRemaining); err != nil {
		return Insight{}, err
	}
	if out.Milestones.LiveDays, err = milestone.Track(float64(agg.LiveDays), cfg.DayThresholds, dayRate, w.DaysRemaining); err != nil {
		return Insight{}, err
	}
	if out.Milestones.LiveHours, err = milestone.Track(agg.LiveHours, cfg.HourThresholds, hourRate, w.DaysRemaining); err != nil {
		return Insight{}, err
	}

	// combined day and hour hitos, pairwise over the two ladders
	for i := 0; i < len(cfg.DayThresholds) && i < len(cfg.HourThresholds); i++ {
		out.Combined = append(out.Combined, milestone.Combine(
			float64(agg.LiveDays), agg.LiveHours,
			cfg.DayThresholds[i], cfg.HourThresholds[i],
		))
	}

	// projections share the reduction discipline of the aggregate
	if out.Projections.Diamonds, err = projectMetric(in, w, func(d snapshot.Daily) float64 { return float64(d.Diamonds) }); err != nil {
		return Insight{}, err
	}
	if out.Projections.LiveHours, err = projectMetric(in, w, func(d snapshot.Daily) float64 { return d.LiveHours }); err != nil {
		return Insight{}, err
	}
	if out.Projections.LiveDays, err = projectActiveDays(in, w); err != nil {
		return Insight{}, err
	}
	// a projection cannot promise more live days than the month has
	if out.Projections.LiveDays.EOM > float64(w.DaysInMonth) {
		out.Projections.LiveDays.EOM = float64(w.DaysInMonth)
	}

	// semaphore per metric against the next unmet milestone
	if out.Pacing.Diamonds, err = pacing.Classify(float64(agg.Diamonds), out.Milestones.Diamonds.Target, w.DaysElapsed, w.DaysRemaining, cfg.Pacing); err != nil {
		return Insight{}, err
	}
	if out.Pacing.LiveDays, err = pacing.Classify(float64(agg.LiveDays), out.Milestones.LiveDays.Target, w.DaysElapsed, w.DaysRemaining, cfg.Pacing); err != nil {
		return Insight{}, err
	}
	if out.Pacing.LiveHours, err = pacing.Classify(agg.LiveHours, out.Milestones.LiveHours.Target, w.DaysElapsed, w.DaysRemaining, cfg.Pacing); err != nil {
		return Insight{}, err
	}

	// graduation flags for every configured tier
	flags := make([]bonus.TierFlag, 0, len(cfg.DiamondThresholds))
	for _, t := range cfg.DiamondThresholds {
		flags = append(flags, bonus.TierFlag{Tier: int64(t), Achieved: float64(agg.Diamonds) >= t})
	}
	if out.Bonus, err = bonus.Calculate(flags, agg.LiveDays, cfg.ExtraDayRateUSD, cfg.TierAmountsUSD); err != nil {
		return Insight{}, err
	}

	out.Priority = priority.Score(in.TenureDays, agg.Diamonds, cfg.NewCreatorThresholdDays, cfg.PriorityTierTarget)
	out.Priority.IsNearObjective = priority.NearObjective(out.Milestones.Diamonds.Remaining, out.Milestones.Diamonds.Target)

	if w.DaysRemaining > 0 {
		out.RequiredDiamondsPerDay = math.Round(out.Milestones.Diamonds.Remaining / float64(w.DaysRemaining))
		out.RequiredHoursPerDay = out.Milestones.LiveHours.Remaining / float64(w.DaysRemaining)
	} else {
		out.RequiredDiamondsPerDay = out.Milestones.Diamonds.Remaining
		out.RequiredHoursPerDay = out.Milestones.LiveHours.Remaining
	}

	out.RecommendedGoal = recommendedGoal(out.Projections.Diamonds.EOM, cfg.DiamondThresholds)

	if in.Prev != nil {
		out.Deltas = deltas(agg, *in.Prev)
	}

	composer := message.NewComposer(cfg.Locale, cfg.Templates)
	out.Message = composer.Compose(message.Inputs{
		CreatorName:    in.CreatorName,
		Aggregate:      agg,
		Milestone:      out.Milestones.Diamonds,
		Projection:     out.Projections.Diamonds,
		Bonus:          out.Bonus,
		RequiredPerDay: out.RequiredDiamondsPerDay,
		DaysRemaining:  w.DaysRemaining,
	})

	return out, nil
}

// projectMetric builds the cumulative series for one raw metric and projects it
func projectMetric(in Input, w snapshot.MonthWindow, value func(snapshot.Daily) float64) (projection.Projection, error) {
	series, err := snapshot.Series(in.Snapshots, in.Mode, in.AsOf, value)
	if err != nil {
		return projection.Projection{}, err
	}
	return projection.Project(series, w.DaysInMonth, in.AsOf)
}

// projectActiveDays projects the live-day count. Active days are a count of
// qualifying dates in either mode, so the cumulative curve is rebuilt here
// instead of reusing the max/sum reduction
func projectActiveDays(in Input, w snapshot.MonthWindow) (projection.Projection, error) {
	series, err := snapshot.Series(in.Snapshots, in.Mode, in.AsOf, func(snapshot.Daily) float64 { return 0 })
	if err != nil {
		return projection.Projection{}, err
	}
	running := 0.0
	for i := range series {
		if series[i].Active {
			running++
		}
		series[i].Cumulative = running
	}
	return projection.Project(series, w.DaysInMonth, in.AsOf)
}

// recommendedGoal picks the highest tier the projected EOM already covers,
// or the lowest tier when none is covered yet
func recommendedGoal(projectedEOM float64, tiers []float64) string {
	if len(tiers) == 0 {
		return ""
	}
	pick := tiers[0]
	for _, t := range tiers {
		if projectedEOM >= t {
			pick = t
		}
	}
	return tierName(pick)
}

func tierName(t float64) string {
	v := int64(t)
	if v >= 1_000_000 && v%1_000_000 == 0 {
		return fmt.Sprintf("%dM", v/1_000_000)
	}
	if v >= 1_000 && v%1_000 == 0 {
		return fmt.Sprintf("%dK", v/1_000)
	}
	return fmt.Sprintf("%d", v)
}

// deltas compares this month against the previous aggregate
func deltas(cur, prev snapshot.MonthlyAggregate) *Deltas {
	d := &Deltas{
		LiveDays:  cur.LiveDays - prev.LiveDays,
		LiveHours: cur.LiveHours - prev.LiveHours,
		Diamonds:  cur.Diamonds - prev.Diamonds,
	}
	if prev.Diamonds > 0 {
		d.DiamondsPercent = (float64(cur.Diamonds)/float64(prev.Diamonds) - 1) * 100
	}
	return d
}

func rate(total float64, daysElapsed int) float64 {
	if daysElapsed <= 0 {
		return 0
	}
	return total / float64(daysElapsed)
}
