// Package service implements the insights evaluation workflows
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"soullatino/internal/core/bonus"
	"soullatino/internal/core/engine"
	"soullatino/internal/core/milestone"
	"soullatino/internal/core/pacing"
	"soullatino/internal/core/projection"
	"soullatino/internal/core/snapshot"
	perr "soullatino/internal/platform/errors"
	dom "soullatino/internal/services/insights/domain"
)

// Config for the insights service
type Config struct {
	Engine  engine.Config
	Workers int

	// ArchiveAfterMonths routes reads for months at least this far behind
	// asOf to the archive source; 0 disables archive routing
	ArchiveAfterMonths int
}

// Service implements dom.EvaluatorPort
type Service struct {
	Reader  dom.ReaderPort
	Archive dom.SnapshotSource // optional
	Writer  dom.WriterPort
	Cfg     Config
}

// New constructs an insights service
func New(reader dom.ReaderPort, archive dom.SnapshotSource, writer dom.WriterPort, cfg Config) *Service {
	if reader == nil {
		panic("insights.Service requires a non nil ReaderPort")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Service{Reader: reader, Archive: archive, Writer: writer, Cfg: cfg}
}

// EvaluateCreator implements dom.EvaluatorPort
func (s *Service) EvaluateCreator(ctx context.Context, creatorID uuid.UUID, asOf time.Time) (engine.Insight, error) {
	if asOf.IsZero() {
		return engine.Insight{}, perr.New(perr.ErrorCodeInvalidArgument, "asOf is required")
	}
	asOf = asOf.UTC()

	creator, err := s.Reader.Creator(ctx, creatorID)
	if err != nil {
		return engine.Insight{}, err
	}

	rows, mode, err := s.source(asOf, asOf).Snapshots(ctx, creatorID, asOf)
	if err != nil {
		return engine.Insight{}, err
	}

	in := engine.Input{
		CreatorName: creator.Name,
		Snapshots:   rows,
		Mode:        mode,
		AsOf:        asOf,
		TenureDays:  creator.TenureDays(asOf),
	}

	if prev, ok, err := s.previousAggregate(ctx, creatorID, asOf); err != nil {
		return engine.Insight{}, err
	} else if ok {
		in.Prev = &prev
	}

	insight, err := engine.Evaluate(in, s.Cfg.Engine)
	if err != nil {
		return engine.Insight{}, mapCoreErr(err)
	}
	return insight, nil
}

// mapCoreErr lifts engine sentinel failures into coded errors so transports
// classify them instead of reporting a generic internal error
func mapCoreErr(err error) error {
	switch {
	case errors.Is(err, snapshot.ErrDuplicateDate):
		return perr.Wrap(err, perr.ErrorCodeDuplicateKey, "duplicate snapshot date")
	case errors.Is(err, snapshot.ErrInvalidMode),
		errors.Is(err, snapshot.ErrMixedCreators),
		errors.Is(err, projection.ErrInvalidInput),
		errors.Is(err, pacing.ErrInvalidTarget),
		errors.Is(err, milestone.ErrEmptyThresholds):
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "invalid evaluation input")
	case errors.Is(err, bonus.ErrUnknownTier):
		return perr.Wrap(err, perr.ErrorCodeValidation, "unknown graduation tier")
	case errors.Is(err, snapshot.ErrInvariant):
		return perr.Wrap(err, perr.ErrorCodeUnknown, "aggregate invariant violated")
	}
	return err
}

// ComposeMessage implements dom.EvaluatorPort
func (s *Service) ComposeMessage(ctx context.Context, creatorID uuid.UUID, asOf time.Time) (string, error) {
	insight, err := s.EvaluateCreator(ctx, creatorID, asOf)
	if err != nil {
		return "", err
	}
	return insight.Message, nil
}

// RunMonth implements dom.EvaluatorPort. Creators are evaluated concurrently
// under a bounded worker pool; a failed creator is counted and skipped, it
// never aborts the rest of the roster
func (s *Service) RunMonth(ctx context.Context, asOf time.Time, persist bool) (dom.BatchResult, error) {
	if asOf.IsZero() {
		return dom.BatchResult{}, perr.New(perr.ErrorCodeInvalidArgument, "asOf is required")
	}
	if persist && s.Writer == nil {
		return dom.BatchResult{}, perr.New(perr.ErrorCodeInvalidArgument, "persist requested without a writer")
	}
	asOf = asOf.UTC()

	roster, err := s.Reader.Creators(ctx)
	if err != nil {
		return dom.BatchResult{}, err
	}

	type outcome struct {
		total decimal.Decimal
		run   *dom.BonusRun
		err   error
	}
	outs := make([]outcome, len(roster))

	sem := make(chan struct{}, s.Cfg.Workers)
	wg := sync.WaitGroup{}

	for i := range roster {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			c := roster[i]

			insight, err := s.EvaluateCreator(ctx, c.ID, asOf)
			if err != nil {
				outs[i] = outcome{err: err}
				return
			}

			o := outcome{total: insight.Bonus.TotalUSD}
			if persist {
				payload, err := json.Marshal(insight)
				if err != nil {
					outs[i] = outcome{err: err}
					return
				}
				o.run = &dom.BonusRun{
					CreatorID: c.ID,
					Month:     snapshot.MonthOf(asOf),
					AsOf:      asOf,
					TotalUSD:  insight.Bonus.TotalUSD,
					Insight:   payload,
				}
			}
			outs[i] = o
		}(i)
	}
	wg.Wait()

	res := dom.BatchResult{TotalUSD: decimal.Zero}
	for i := range outs {
		if outs[i].err != nil {
			res.Failed++
			continue
		}
		res.Evaluated++
		res.TotalUSD = res.TotalUSD.Add(outs[i].total)

		// writes stay sequential so a single pool connection suffices
		if outs[i].run != nil {
			if err := s.Writer.UpsertBonusRun(ctx, *outs[i].run); err != nil {
				return res, err
			}
			res.Persisted++
		}
	}
	return res, nil
}

// source picks the snapshot source for a month: recent months come from the
// live store, months past the archive horizon come from the archive
func (s *Service) source(month, asOf time.Time) dom.SnapshotSource {
	if s.Archive == nil || s.Cfg.ArchiveAfterMonths <= 0 {
		return s.Reader
	}
	if monthsBetween(snapshot.MonthOf(month), snapshot.MonthOf(asOf)) >= s.Cfg.ArchiveAfterMonths {
		return s.Archive
	}
	return s.Reader
}

// previousAggregate reduces the previous month for comparison deltas.
// A month with no rows reports ok=false instead of a zero aggregate so new
// creators do not show fake improvements against an empty month
func (s *Service) previousAggregate(ctx context.Context, creatorID uuid.UUID, asOf time.Time) (snapshot.MonthlyAggregate, bool, error) {
	prevMonth := snapshot.MonthOf(asOf).AddDate(0, -1, 0)
	prevEnd := snapshot.MonthOf(asOf).Add(-time.Nanosecond)

	rows, mode, err := s.source(prevMonth, asOf).Snapshots(ctx, creatorID, prevMonth)
	if err != nil {
		return snapshot.MonthlyAggregate{}, false, err
	}
	if len(rows) == 0 {
		return snapshot.MonthlyAggregate{}, false, nil
	}

	agg, err := snapshot.Reduce(rows, mode, prevEnd)
	if err != nil {
		return snapshot.MonthlyAggregate{}, false, mapCoreErr(err)
	}
	return agg, true, nil
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
}
