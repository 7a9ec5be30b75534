// Package message renders the rule-selected status message for a creator.
// Selection is a declarative ordered rule list, first match wins; rendering
// is plain string construction with locale-aware number formatting supplied
// by the caller. The whole thing is a total function: every input reaches
// exactly one template
package message

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	xmsg "golang.org/x/text/message"
	"golang.org/x/text/number"

	"soullatino/internal/core/bonus"
	"soullatino/internal/core/milestone"
	"soullatino/internal/core/projection"
	"soullatino/internal/core/snapshot"
)

// TemplateID names one of the fixed analysis templates
type TemplateID string

const (
	// TemplateAlmostThere fires at >= 85 percent progress to an unmet milestone
	TemplateAlmostThere TemplateID = "almost_there"
	// TemplateConsistency fires once the extra-day bonus floor is reached
	TemplateConsistency TemplateID = "consistency"
	// TemplateCongrats fires when the reported milestone is achieved
	TemplateCongrats TemplateID = "congratulations"
	// TemplateLowConfidence fires below 0.3 projection confidence
	TemplateLowConfidence TemplateID = "low_confidence"
	// TemplateOnTrack fires above 0.7 projection confidence
	TemplateOnTrack TemplateID = "on_track"
	// TemplateNeutral is the fallback
	TemplateNeutral TemplateID = "neutral"
)

// TemplateSet maps template ids to printf patterns. Each template receives a
// fixed argument list, see DefaultTemplates for the order per id
type TemplateSet map[TemplateID]string

// DefaultTemplates returns the stock English analysis lines.
// Argument order per id:
//
//	almost_there:    target label, remaining diamonds
//	consistency:     live days, total bonus USD
//	congratulations: target label
//	low_confidence:  required diamonds per day
//	on_track:        target label
//	neutral:         diamonds so far, days remaining
func DefaultTemplates() TemplateSet {
	return TemplateSet{
		TemplateAlmostThere:   "You are SO close to %s! Only %v diamonds to go.",
		TemplateConsistency:   "Your consistency of %d live days is earning you $%s extra this month. Keep it up!",
		TemplateCongrats:      "Congratulations! You reached %s diamonds. Your next goal is the next level up.",
		TemplateLowConfidence: "The goal will be tough this month, but every live counts. Aim for %v diamonds a day.",
		TemplateOnTrack:       "You are well on track to reach your %s goal.",
		TemplateNeutral:       "Keep going: %v diamonds so far and %d days remaining this month.",
	}
}

// Inputs is everything the composer may interpolate
type Inputs struct {
	CreatorName    string
	Aggregate      snapshot.MonthlyAggregate
	Milestone      milestone.Status // next diamond milestone
	Projection     projection.Projection
	Bonus          bonus.Breakdown
	RequiredPerDay float64 // diamonds needed per remaining day
	DaysRemaining  int
}

// rule pairs a predicate with the template it selects
type rule struct {
	id    TemplateID
	match func(Inputs) bool
}

// rules is the ordered cascade; order is the contract, do not sort
var rules = []rule{
	{TemplateAlmostThere, func(in Inputs) bool { return in.Milestone.Progress >= 85 && !in.Milestone.Achieved }},
	{TemplateConsistency, func(in Inputs) bool { return in.Aggregate.LiveDays >= bonus.ExtraDayFloor }},
	{TemplateCongrats, func(in Inputs) bool { return in.Milestone.Achieved }},
	{TemplateLowConfidence, func(in Inputs) bool { return in.Projection.Confidence < 0.3 }},
	{TemplateOnTrack, func(in Inputs) bool { return in.Projection.Confidence > 0.7 }},
	{TemplateNeutral, func(Inputs) bool { return true }},
}

// Select walks the cascade and returns the first matching template
func Select(in Inputs) TemplateID {
	for _, r := range rules {
		if r.match(in) {
			return r.id
		}
	}
	return TemplateNeutral // unreachable, the last rule always matches
}

// Composer renders messages for one locale and template set
type Composer struct {
	p   *xmsg.Printer
	set TemplateSet
}

// NewComposer builds a composer for the given locale.
// Missing entries in set fall back to the defaults, so partial overrides are
// fine and the composer stays total
func NewComposer(tag language.Tag, set TemplateSet) *Composer {
	merged := DefaultTemplates()
	for id, tpl := range set {
		merged[id] = tpl
	}
	return &Composer{p: xmsg.NewPrinter(tag), set: merged}
}

// Compose renders the full status message: a greeting, the month-to-date
// summary, and the analysis line chosen by Select
func (c *Composer) Compose(in Inputs) string {
	var b strings.Builder

	name := in.CreatorName
	if name == "" {
		name = "creator"
	}
	b.WriteString(c.p.Sprintf("Hi %s! Here is your month so far:\n\n", name))

	if in.Aggregate.LiveDays == 0 {
		b.WriteString("No live activity yet this month. Start your first live today!")
		return b.String()
	}

	avgPerDay := in.Aggregate.Diamonds / int64(in.Aggregate.LiveDays)
	b.WriteString(c.p.Sprintf(
		"You have %d live days and %.1f hours streamed, with %v diamonds earned (about %v per live day).\n\n",
		in.Aggregate.LiveDays,
		in.Aggregate.LiveHours,
		number.Decimal(in.Aggregate.Diamonds),
		number.Decimal(avgPerDay),
	))

	b.WriteString(c.analysis(in))
	return b.String()
}

// analysis renders the template selected for in
func (c *Composer) analysis(in Inputs) string {
	id := Select(in)
	tpl := c.set[id]
	switch id {
	case TemplateAlmostThere:
		return c.p.Sprintf(tpl, targetLabel(in.Milestone.Target), number.Decimal(int64(in.Milestone.Remaining)))
	case TemplateConsistency:
		return c.p.Sprintf(tpl, in.Aggregate.LiveDays, in.Bonus.TotalUSD.StringFixed(0))
	case TemplateCongrats:
		return c.p.Sprintf(tpl, targetLabel(in.Milestone.Target))
	case TemplateLowConfidence:
		return c.p.Sprintf(tpl, number.Decimal(int64(in.RequiredPerDay)))
	case TemplateOnTrack:
		return c.p.Sprintf(tpl, targetLabel(in.Milestone.Target))
	default:
		return c.p.Sprintf(tpl, number.Decimal(in.Aggregate.Diamonds), in.DaysRemaining)
	}
}

// targetLabel renders 300000 as "300K" and 1000000 as "1M"
func targetLabel(target float64) string {
	t := int64(target)
	if t >= 1_000_000 && t%1_000_000 == 0 {
		return fmt.Sprintf("%dM", t/1_000_000)
	}
	if t >= 1_000 && t%1_000 == 0 {
		return fmt.Sprintf("%dK", t/1_000)
	}
	return fmt.Sprintf("%d", t)
}
