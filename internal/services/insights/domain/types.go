// Package domain defines the types and interfaces for the insights service
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Creator is one roster entry the engine evaluates
type Creator struct {
	ID       uuid.UUID
	Name     string
	JoinedAt time.Time
	Active   bool
}

// TenureDays is the whole days since the creator joined, floored at zero
func (c Creator) TenureDays(asOf time.Time) int {
	d := int(asOf.Sub(c.JoinedAt).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// BonusRun is one persisted evaluation result for a creator-month.
// Insight holds the full engine output as JSON so a run can be replayed
// without re-reading the snapshots it was computed from
type BonusRun struct {
	CreatorID uuid.UUID
	Month     time.Time // first day of the month, midnight UTC
	AsOf      time.Time
	TotalUSD  decimal.Decimal
	Insight   []byte
}

// BatchResult summarizes one roster-wide evaluation pass
type BatchResult struct {
	Evaluated int             `json:"evaluated"`
	Failed    int             `json:"failed"`
	Persisted int             `json:"persisted"`
	TotalUSD  decimal.Decimal `json:"total_usd"`
}
