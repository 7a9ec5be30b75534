package module

import (
	"context"

	"soullatino/internal/core/engine"
	"soullatino/internal/services/api/insights/domain"
	isvc "soullatino/internal/services/api/insights/service"
	insightsdom "soullatino/internal/services/insights/domain"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptInsightsPort struct{ svc isvc.Service }

// CreatorInsight returns the full evaluation for one creator
func (a adaptInsightsPort) CreatorInsight(ctx context.Context, in domain.CreatorInsightInput) (engine.Insight, error) {
	return a.svc.CreatorInsight(ctx, in)
}

// CreatorMessage returns the composed status message for one creator
func (a adaptInsightsPort) CreatorMessage(ctx context.Context, in domain.MessageInput) (domain.MessageRow, error) {
	return a.svc.CreatorMessage(ctx, in)
}

// RunBatch evaluates the whole roster
func (a adaptInsightsPort) RunBatch(ctx context.Context, in domain.BatchInput) (insightsdom.BatchResult, error) {
	return a.svc.RunBatch(ctx, in)
}
