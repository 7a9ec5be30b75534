package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"soullatino/internal/core/snapshot"
	"soullatino/internal/platform/store"
)

// Archive reads closed months from the ClickHouse archive. Archived rows are
// per-day deltas, not running totals, so this source always reports the
// daily-delta mode
type Archive struct {
	ch store.Clickhouse
}

// NewArchive wraps a ClickHouse seam as a snapshot source
func NewArchive(ch store.Clickhouse) *Archive { return &Archive{ch: ch} }

// Snapshots implements dom.SnapshotSource
func (a *Archive) Snapshots(
	ctx context.Context,
	creatorID uuid.UUID,
	month time.Time,
) ([]snapshot.Daily, snapshot.Mode, error) {
	const sql = `
SELECT toString(creator_id), stat_date, diamonds, live_hours
FROM daily_stats_archive
WHERE creator_id = ? AND stat_date >= ? AND stat_date < ?
ORDER BY stat_date
`
	start := snapshot.MonthOf(month)
	end := start.AddDate(0, 1, 0)

	rows, err := a.ch.Query(ctx, sql, creatorID.String(), start, end)
	if err != nil {
		return nil, snapshot.ModeUnset, err
	}
	defer rows.Close()

	var out []snapshot.Daily
	for rows.Next() {
		var d snapshot.Daily
		var idText string
		if err := rows.Scan(&idText, &d.Date, &d.Diamonds, &d.LiveHours); err != nil {
			return nil, snapshot.ModeUnset, err
		}
		if d.CreatorID, err = uuid.Parse(idText); err != nil {
			return nil, snapshot.ModeUnset, err
		}
		out = append(out, d)
	}
	return out, snapshot.ModeDailyDelta, rows.Err()
}
