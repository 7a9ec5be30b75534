package domain

import (
	"context"

	"soullatino/internal/core/engine"
	insightsdom "soullatino/internal/services/insights/domain"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	CreatorInsight(ctx context.Context, in CreatorInsightInput) (engine.Insight, error)
	CreatorMessage(ctx context.Context, in MessageInput) (MessageRow, error)
	RunBatch(ctx context.Context, in BatchInput) (insightsdom.BatchResult, error)
}
