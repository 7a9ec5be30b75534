package module

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"soullatino/internal/core/engine"
	"soullatino/internal/platform/config"
)

// Options holds configuration settings for the insights module
type Options struct {
	Engine             engine.Config
	Workers            int
	ArchiveAfterMonths int
}

// FromConfig reads configuration settings from the config.Conf.
// Thresholds and payouts keep their stock values; the knobs operators
// actually retune are exposed under CORE_INSIGHTS_*
func FromConfig(cfg config.Conf) Options {
	f := cfg.Prefix("CORE_INSIGHTS_")

	ec := engine.DefaultConfig()
	ec.Pacing.Green = f.MayFloat64("PACING_GREEN", ec.Pacing.Green)
	ec.Pacing.Yellow = f.MayFloat64("PACING_YELLOW", ec.Pacing.Yellow)
	ec.NewCreatorThresholdDays = f.MayInt("NEW_CREATOR_DAYS", ec.NewCreatorThresholdDays)
	ec.PriorityTierTarget = int64(f.MayInt("PRIORITY_TIER", int(ec.PriorityTierTarget)))
	ec.ExtraDayRateUSD = decimal.NewFromFloat(f.MayFloat64("EXTRA_DAY_USD", 3))

	if tag, err := language.Parse(f.MayString("LOCALE", "en")); err == nil {
		ec.Locale = tag
	}

	return Options{
		Engine:             ec,
		Workers:            f.MayInt("WORKERS", 4),
		ArchiveAfterMonths: f.MayInt("ARCHIVE_AFTER_MONTHS", 3),
	}
}
