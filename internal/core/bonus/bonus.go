// Package bonus turns graduation tiers and live days into dollar amounts
package bonus

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ExtraDayFloor is the live-day count beyond which each day pays extra
const ExtraDayFloor = 22

// ErrUnknownTier means an achieved tier has no configured amount
var ErrUnknownTier = errors.New("bonus: unknown graduation tier")

// TierFlag marks whether a graduation tier was reached this month.
// Tier is the diamond threshold itself (50000, 100000, ...)
type TierFlag struct {
	Tier     int64 `json:"tier"`
	Achieved bool  `json:"achieved"`
}

// Line is one human-readable entry of a bonus breakdown
type Line struct {
	Label     string          `json:"label"`
	AmountUSD decimal.Decimal `json:"amount_usd"`
}

// Breakdown is the ordered list of bonus lines plus their total
type Breakdown struct {
	Lines    []Line          `json:"lines"`
	TotalUSD decimal.Decimal `json:"total_usd"`
}

// DefaultExtraDayRate is $3 per live day past the floor
func DefaultExtraDayRate() decimal.Decimal { return decimal.NewFromInt(3) }

// DefaultTierAmounts returns the stock graduation payouts per tier
func DefaultTierAmounts() map[int64]decimal.Decimal {
	return map[int64]decimal.Decimal{
		50_000:    decimal.NewFromInt(100),
		100_000:   decimal.NewFromInt(200),
		300_000:   decimal.NewFromInt(300),
		500_000:   decimal.NewFromInt(500),
		1_000_000: decimal.NewFromInt(1000),
	}
}

// Calculate builds the monthly bonus breakdown.
//
// Graduation tiers are mutually exclusive rewards: only the highest achieved
// tier pays, never the sum of lower ones. The extra-day bonus is additive
// and independent of graduation
func Calculate(
	flags []TierFlag,
	liveDays int,
	extraDayRate decimal.Decimal,
	tierAmounts map[int64]decimal.Decimal,
) (Breakdown, error) {
	var out Breakdown
	out.TotalUSD = decimal.Zero

	// highest achieved tier wins
	achieved := make([]int64, 0, len(flags))
	for _, f := range flags {
		if f.Achieved {
			achieved = append(achieved, f.Tier)
		}
	}
	if len(achieved) > 0 {
		sort.Slice(achieved, func(i, j int) bool { return achieved[i] > achieved[j] })
		top := achieved[0]
		amount, ok := tierAmounts[top]
		if !ok {
			return Breakdown{}, fmt.Errorf("%w: %d", ErrUnknownTier, top)
		}
		out.Lines = append(out.Lines, Line{
			Label:     fmt.Sprintf("%s diamonds graduation", tierLabel(top)),
			AmountUSD: amount,
		})
		out.TotalUSD = out.TotalUSD.Add(amount)
	}

	if extra := liveDays - ExtraDayFloor; extra > 0 {
		amount := extraDayRate.Mul(decimal.NewFromInt(int64(extra)))
		out.Lines = append(out.Lines, Line{
			Label:     fmt.Sprintf("%d extra live days", extra),
			AmountUSD: amount,
		})
		out.TotalUSD = out.TotalUSD.Add(amount)
	}

	return out, nil
}

// tierLabel renders 300000 as "300K" and 1000000 as "1M"
func tierLabel(tier int64) string {
	if tier >= 1_000_000 && tier%1_000_000 == 0 {
		return fmt.Sprintf("%dM", tier/1_000_000)
	}
	if tier >= 1_000 && tier%1_000 == 0 {
		return fmt.Sprintf("%dK", tier/1_000)
	}
	return fmt.Sprintf("%d", tier)
}
