package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"soullatino/internal/core/engine"
	"soullatino/internal/core/snapshot"
)

// SnapshotSource loads one creator-month of daily rows. Every implementation
// pins the reduction mode of its backing store: callers never guess how the
// rows accumulate, the source tells them
type SnapshotSource interface {
	Snapshots(ctx context.Context, creatorID uuid.UUID, month time.Time) ([]snapshot.Daily, snapshot.Mode, error)
}

// ReaderPort loads the roster and its daily stats
type ReaderPort interface {
	SnapshotSource
	Creator(ctx context.Context, id uuid.UUID) (Creator, error)
	Creators(ctx context.Context) ([]Creator, error)
}

// WriterPort persists bonus runs
type WriterPort interface {
	UpsertBonusRun(ctx context.Context, run BonusRun) error
}

// EvaluatorPort is the surface other modules consume
type EvaluatorPort interface {
	EvaluateCreator(ctx context.Context, creatorID uuid.UUID, asOf time.Time) (engine.Insight, error)
	ComposeMessage(ctx context.Context, creatorID uuid.UUID, asOf time.Time) (string, error)
	RunMonth(ctx context.Context, asOf time.Time, persist bool) (BatchResult, error)
}
