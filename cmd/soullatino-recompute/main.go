package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"soullatino/internal/modkit"
	"soullatino/internal/modkit/module"
	"soullatino/internal/platform/config"
	"soullatino/internal/platform/logger"
	"soullatino/internal/platform/store"

	insightsmod "soullatino/internal/services/insights/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled:    chCfg.MayBool("ENABLED", true),
			URL:        chCfg.MayString("DBURL", ""),
			ClientName: "soullatino",
			ClientTag:  "recompute",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	var (
		monthStr = flag.String("month", "", "month to recompute, e.g. 2025-11 (default: current)")
		asOfStr  = flag.String("as-of", "", "evaluation cutoff date, e.g. 2025-11-20 (default: today)")
		workers  = flag.Int("workers", 4, "concurrency (>=1)")
		dryRun   = flag.Bool("dry-run", false, "evaluate but do not write bonus runs")
	)
	flag.Parse()

	asOf := time.Now().UTC()
	if *asOfStr != "" {
		t, err := time.Parse("2006-01-02", *asOfStr)
		if err != nil {
			log.Fatalf("bad -as-of: %v", err)
		}
		asOf = t.UTC()
	}
	if *monthStr != "" {
		m, err := time.Parse("2006-01", *monthStr)
		if err != nil {
			log.Fatalf("bad -month: %v", err)
		}
		// a past month closes at its last day
		if m.Year() != asOf.Year() || m.Month() != asOf.Month() {
			asOf = m.AddDate(0, 1, 0).Add(-time.Second).UTC()
		}
	}

	// Pass CLI flags into CORE_INSIGHTS_* so the module can read its own config
	mustSetEnv("CORE_INSIGHTS_WORKERS", strconv.Itoa(*workers))

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	im := insightsmod.New(deps)
	module.Register(im.Name(), im.Ports())

	eval := module.MustPortsOf[insightsmod.Ports](im).Evaluator
	res, err := eval.RunMonth(context.Background(), asOf, !*dryRun)
	if err != nil {
		l.Fatal().Err(err).Msg("recompute failed")
	}

	l.Info().
		Int("evaluated", res.Evaluated).
		Int("failed", res.Failed).
		Int("persisted", res.Persisted).
		Str("total_usd", res.TotalUSD.String()).
		Time("as_of", asOf).
		Msg("recompute done")
}
