package message

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"soullatino/internal/core/bonus"
	"soullatino/internal/core/milestone"
	"soullatino/internal/core/projection"
	"soullatino/internal/core/snapshot"
)

// base is a mid-month creator that matches no special rule
func base() Inputs {
	return Inputs{
		CreatorName:   "Alexa",
		Aggregate:     snapshot.MonthlyAggregate{LiveDays: 10, LiveHours: 32.5, Diamonds: 120_000},
		Milestone:     milestone.Status{Target: 300_000, Remaining: 180_000, Progress: 40},
		Projection:    projection.Projection{Confidence: 0.5},
		Bonus:         bonus.Breakdown{TotalUSD: decimal.Zero},
		DaysRemaining: 12,
	}
}

func TestSelect_RuleOrderFirstMatchWins(t *testing.T) {
	t.Parallel()

	// almost-there outranks everything else below it
	in := base()
	in.Milestone.Progress = 90
	in.Aggregate.LiveDays = 25 // would also match consistency
	in.Projection.Confidence = 0.9
	if got := Select(in); got != TemplateAlmostThere {
		t.Fatalf("got %s, want almost_there", got)
	}

	// consistency outranks congratulations
	in = base()
	in.Aggregate.LiveDays = 23
	in.Milestone.Achieved = true
	if got := Select(in); got != TemplateConsistency {
		t.Fatalf("got %s, want consistency", got)
	}

	// congratulations outranks confidence branches
	in = base()
	in.Milestone = milestone.Status{Target: 100_000, Achieved: true, Progress: 100}
	in.Projection.Confidence = 0.1
	if got := Select(in); got != TemplateCongrats {
		t.Fatalf("got %s, want congratulations", got)
	}
}

func TestSelect_ConfidenceBranchesAndFallback(t *testing.T) {
	t.Parallel()

	in := base()
	in.Projection.Confidence = 0.2
	if got := Select(in); got != TemplateLowConfidence {
		t.Fatalf("got %s, want low_confidence", got)
	}

	in.Projection.Confidence = 0.8
	if got := Select(in); got != TemplateOnTrack {
		t.Fatalf("got %s, want on_track", got)
	}

	in.Projection.Confidence = 0.5
	if got := Select(in); got != TemplateNeutral {
		t.Fatalf("got %s, want neutral", got)
	}
}

func TestSelect_IsTotal(t *testing.T) {
	t.Parallel()

	// a grid of inputs always lands on exactly one template
	for _, progress := range []float64{0, 84.9, 85, 100} {
		for _, achieved := range []bool{false, true} {
			for _, days := range []int{0, 21, 22, 30} {
				for _, conf := range []float64{0, 0.29, 0.3, 0.7, 0.71, 0.95} {
					in := base()
					in.Milestone.Progress = progress
					in.Milestone.Achieved = achieved
					in.Aggregate.LiveDays = days
					in.Projection.Confidence = conf
					if got := Select(in); got == "" {
						t.Fatalf("no template for progress=%v achieved=%v days=%d conf=%v",
							progress, achieved, days, conf)
					}
				}
			}
		}
	}
}

func TestCompose_InterpolatesLocaleNumbers(t *testing.T) {
	t.Parallel()

	c := NewComposer(language.English, nil)
	in := base()
	in.Milestone.Progress = 90
	in.Milestone.Remaining = 30_000

	out := c.Compose(in)
	if !strings.Contains(out, "Hi Alexa!") {
		t.Fatalf("missing greeting: %q", out)
	}
	if !strings.Contains(out, "120,000 diamonds") {
		t.Fatalf("missing grouped diamond count: %q", out)
	}
	if !strings.Contains(out, "300K") || !strings.Contains(out, "30,000") {
		t.Fatalf("missing almost-there analysis: %q", out)
	}
}

func TestCompose_NoActivityShortCircuit(t *testing.T) {
	t.Parallel()

	c := NewComposer(language.English, nil)
	in := base()
	in.Aggregate = snapshot.MonthlyAggregate{}

	out := c.Compose(in)
	if !strings.Contains(out, "No live activity yet this month") {
		t.Fatalf("unexpected message: %q", out)
	}
}

func TestCompose_TemplateOverride(t *testing.T) {
	t.Parallel()

	c := NewComposer(language.English, TemplateSet{
		TemplateNeutral: "custom: %v diamonds, %d days left",
	})
	out := c.Compose(base())
	if !strings.Contains(out, "custom: 120,000 diamonds, 12 days left") {
		t.Fatalf("override not applied: %q", out)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	t.Parallel()

	c := NewComposer(language.English, nil)
	in := base()
	if a, b := c.Compose(in), c.Compose(in); a != b {
		t.Fatalf("compose not deterministic:\n%q\n%q", a, b)
	}
}
