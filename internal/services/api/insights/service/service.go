// Package service contains insights API workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"soullatino/internal/core/engine"
	perr "soullatino/internal/platform/errors"
	"soullatino/internal/services/api/insights/domain"
	insightsdom "soullatino/internal/services/insights/domain"
)

// Service defines the insights API service contract
type Service interface {
	domain.ServicePort
}

// Svc adapts the worker evaluator port to the API DTOs. Time enters the
// pipeline here: an omitted as_of resolves to today in UTC and nothing
// below this layer reads the clock
type Svc struct {
	Eval insightsdom.EvaluatorPort
	now  func() time.Time
}

// New constructs an insights API service
func New(eval insightsdom.EvaluatorPort) *Svc {
	if eval == nil {
		panic("insights API service requires a non nil EvaluatorPort")
	}
	return &Svc{Eval: eval, now: time.Now}
}

// CreatorInsight returns the full evaluation for one creator
func (s *Svc) CreatorInsight(ctx context.Context, in domain.CreatorInsightInput) (engine.Insight, error) {
	id, asOf, err := s.resolve(in.CreatorID, in.AsOf)
	if err != nil {
		return engine.Insight{}, err
	}
	return s.Eval.EvaluateCreator(ctx, id, asOf)
}

// CreatorMessage returns the composed status message for one creator
func (s *Svc) CreatorMessage(ctx context.Context, in domain.MessageInput) (domain.MessageRow, error) {
	id, asOf, err := s.resolve(in.CreatorID, in.AsOf)
	if err != nil {
		return domain.MessageRow{}, err
	}
	msg, err := s.Eval.ComposeMessage(ctx, id, asOf)
	if err != nil {
		return domain.MessageRow{}, err
	}
	return domain.MessageRow{CreatorID: id.String(), Message: msg}, nil
}

// RunBatch evaluates the whole roster
func (s *Svc) RunBatch(ctx context.Context, in domain.BatchInput) (insightsdom.BatchResult, error) {
	asOf, err := s.asOf(in.AsOf)
	if err != nil {
		return insightsdom.BatchResult{}, err
	}
	return s.Eval.RunMonth(ctx, asOf, in.Persist)
}

func (s *Svc) resolve(creatorID, asOfStr string) (uuid.UUID, time.Time, error) {
	id, err := uuid.Parse(creatorID)
	if err != nil {
		return uuid.Nil, time.Time{}, perr.WithField(
			perr.Wrap(err, perr.ErrorCodeValidation, "invalid creator id"), "creator_id")
	}
	asOf, err := s.asOf(asOfStr)
	return id, asOf, err
}

func (s *Svc) asOf(v string) (time.Time, error) {
	if v == "" {
		return s.now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, perr.WithField(
			perr.Wrap(err, perr.ErrorCodeValidation, "invalid as_of date"), "as_of")
	}
	return t.UTC(), nil
}
