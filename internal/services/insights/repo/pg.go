// Package repo provides storage access for the insights service
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"soullatino/internal/core/snapshot"
	"soullatino/internal/modkit/repokit"
	perr "soullatino/internal/platform/errors"
	dom "soullatino/internal/services/insights/domain"
)

// Storage is the full persistence surface the insights service needs
type Storage interface {
	dom.ReaderPort
	dom.WriterPort
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements Storage against the live Postgres schema, where
	// creator_daily_stats rows carry running month-to-date totals
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Storage] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Storage { return &queries{q: q} }

// Creator implements dom.ReaderPort
func (r *queries) Creator(ctx context.Context, id uuid.UUID) (dom.Creator, error) {
	const sql = `
select id::text, display_name, joined_at, active
from creators
where id = $1
`
	var c dom.Creator
	var idText string
	err := r.q.QueryRow(ctx, sql, id.String()).Scan(&idText, &c.Name, &c.JoinedAt, &c.Active)
	if err != nil {
		if errors.Is(err, stdsql.ErrNoRows) {
			return dom.Creator{}, perr.NotFoundf("creator %s", id)
		}
		return dom.Creator{}, perr.FromPostgresf(err, "load creator %s", id)
	}
	c.ID, err = uuid.Parse(idText)
	return c, err
}

// Creators implements dom.ReaderPort, returning the active roster
func (r *queries) Creators(ctx context.Context) ([]dom.Creator, error) {
	const sql = `
select id::text, display_name, joined_at, active
from creators
where active
order by joined_at, id
`
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "query roster")
	}
	defer rows.Close()

	var out []dom.Creator
	for rows.Next() {
		var c dom.Creator
		var idText string
		if err := rows.Scan(&idText, &c.Name, &c.JoinedAt, &c.Active); err != nil {
			return nil, perr.FromPostgres(err, "scan roster row")
		}
		if c.ID, err = uuid.Parse(idText); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, perr.FromPostgres(rows.Err(), "roster rows")
}

// Snapshots implements dom.SnapshotSource. The live table stores one row per
// creator per day with cumulative month-to-date values, so this source always
// reports the running-total mode
func (r *queries) Snapshots(
	ctx context.Context,
	creatorID uuid.UUID,
	month time.Time,
) ([]snapshot.Daily, snapshot.Mode, error) {
	const sql = `
select creator_id::text, stat_date, diamonds, live_hours
from creator_daily_stats
where creator_id = $1 and stat_date >= $2 and stat_date < $3
order by stat_date
`
	start := snapshot.MonthOf(month)
	end := start.AddDate(0, 1, 0)

	rows, err := r.q.Query(ctx, sql, creatorID.String(), start, end)
	if err != nil {
		return nil, snapshot.ModeUnset, perr.FromPostgresf(err, "query daily stats for %s", creatorID)
	}
	defer rows.Close()

	var out []snapshot.Daily
	for rows.Next() {
		var d snapshot.Daily
		var idText string
		if err := rows.Scan(&idText, &d.Date, &d.Diamonds, &d.LiveHours); err != nil {
			return nil, snapshot.ModeUnset, perr.FromPostgres(err, "scan daily stats row")
		}
		if d.CreatorID, err = uuid.Parse(idText); err != nil {
			return nil, snapshot.ModeUnset, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, snapshot.ModeUnset, perr.FromPostgres(err, "daily stats rows")
	}
	return out, snapshot.ModeRunningTotal, nil
}

// UpsertBonusRun implements dom.WriterPort. Re-running a month replaces the
// stored result so recomputes stay idempotent
func (r *queries) UpsertBonusRun(ctx context.Context, run dom.BonusRun) error {
	const sql = `
insert into creator_bonus_runs (creator_id, month, as_of, total_usd, insight)
values ($1, $2, $3, $4::numeric, $5)
on conflict (creator_id, month) do update
set as_of = excluded.as_of,
    total_usd = excluded.total_usd,
    insight = excluded.insight
`
	_, err := r.q.Exec(ctx, sql,
		run.CreatorID.String(),
		snapshot.MonthOf(run.Month),
		run.AsOf,
		run.TotalUSD.String(),
		run.Insight,
	)
	return perr.FromPostgresWithField(err, "upsert bonus run")
}
