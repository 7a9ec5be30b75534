package projection

import (
	"errors"
	"math"
	"testing"
	"time"

	"soullatino/internal/core/snapshot"
)

func pt(day int, cumulative float64, active bool) snapshot.Point {
	return snapshot.Point{
		Date:       time.Date(2025, time.November, day, 0, 0, 0, 0, time.UTC),
		Cumulative: cumulative,
		Active:     active,
	}
}

func TestProject_SpikyActivityScoresLowConfidence(t *testing.T) {
	t.Parallel()

	// 10 elapsed days, diamonds concentrated in 2 active days: the
	// projection may be large but confidence must land near 0.2
	series := make([]snapshot.Point, 0, 10)
	for d := 1; d <= 10; d++ {
		active := d == 3 || d == 7
		series = append(series, pt(d, 80_000, active))
	}
	p, err := Project(series, 30, time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if math.Abs(p.Confidence-0.2) > 1e-9 {
		t.Fatalf("confidence = %v, want 0.2", p.Confidence)
	}
	if p.EOM != 240_000 {
		t.Fatalf("eom = %v, want 240000", p.EOM)
	}
}

func TestProject_SteadyActivityNearsTheCap(t *testing.T) {
	t.Parallel()

	series := make([]snapshot.Point, 0, 10)
	for d := 1; d <= 10; d++ {
		series = append(series, pt(d, float64(d)*1_000, true))
	}
	p, err := Project(series, 30, time.Time{})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	// every elapsed day active, capped below certainty
	if p.Confidence != MaxConfidence {
		t.Fatalf("confidence = %v, want %v", p.Confidence, MaxConfidence)
	}
	if p.Rate != 1_000 || p.EOM != 30_000 {
		t.Fatalf("rate = %v, eom = %v", p.Rate, p.EOM)
	}
}

func TestProject_EmptySeriesIsZeroWithZeroConfidence(t *testing.T) {
	t.Parallel()

	p, err := Project(nil, 30, time.Time{})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if p.EOM != 0 || p.Confidence != 0 || p.DaysElapsed != 0 {
		t.Fatalf("projection = %+v, want zeros", p)
	}
	if p.Method != Method {
		t.Fatalf("method = %q", p.Method)
	}
}

func TestProject_RoundsEOM(t *testing.T) {
	t.Parallel()

	series := []snapshot.Point{pt(1, 100, true), pt(2, 105, true), pt(3, 110, true)}
	p, err := Project(series, 31, time.Time{})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	// 110/3*31 = 1136.67 rounds to 1137
	if p.EOM != 1137 {
		t.Fatalf("eom = %v, want 1137", p.EOM)
	}
}

func TestProject_RejectsMalformedInput(t *testing.T) {
	t.Parallel()

	if _, err := Project(nil, 0, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero month: err = %v", err)
	}
	if _, err := Project(nil, 40, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("41-day month: err = %v", err)
	}
	if _, err := Project([]snapshot.Point{pt(1, -5, true)}, 30, time.Time{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative cumulative: err = %v", err)
	}
}

func TestProject_Idempotent(t *testing.T) {
	t.Parallel()

	series := []snapshot.Point{pt(1, 500, true), pt(2, 900, false)}
	asOf := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	a, err := Project(series, 30, asOf)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	b, err := Project(series, 30, asOf)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if a != b {
		t.Fatalf("not idempotent: %+v vs %+v", a, b)
	}
}
