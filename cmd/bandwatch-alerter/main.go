// Command bandwatch-alerter runs one alert cycle: read the sales windows,
// detect trend events, resolve subscribers, and dispatch notifications.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"bandwatch/internal/core/version"
	"bandwatch/internal/modkit"
	"bandwatch/internal/modkit/module"
	"bandwatch/internal/modkit/repokit"
	"bandwatch/internal/platform/config"
	"bandwatch/internal/platform/logger"
	"bandwatch/internal/platform/store"

	"bandwatch/internal/adapters/mail"
	alertsdom "bandwatch/internal/services/alerts/domain"
	alertsmod "bandwatch/internal/services/alerts/module"
	rollmod "bandwatch/internal/services/rollups/module"
	subsmod "bandwatch/internal/services/subscribers/module"
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

	bi := version.Info()
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("bandwatch-alerter starting")

	st, err := store.Open(context.Background(), store.Config{
		AppName: "bandwatch-alerter",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chCfg.MayBool("ENABLED", false),
			URL:     chCfg.MayString("DBURL", ""),
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
	repokit.MustGuard(context.Background(), st)

	var (
		atStr   = flag.String("at", "", "cycle anchor time, RFC3339 (default now)")
		workers = flag.Int("workers", 0, "dispatch concurrency (>=1)")
		dryRun  = flag.Bool("dry-run", false, "detect and resolve but do not send")
	)
	flag.Parse()

	at := time.Now().UTC()
	if *atStr != "" {
		at, err = time.Parse(time.RFC3339, *atStr)
		if err != nil {
			log.Fatalf("bad -at: %v", err)
		}
		at = at.UTC()
	}

	// Pass CLI flags into CORE_ALERTS_* so the module can read its own config
	if *workers > 0 {
		mustSetEnv("CORE_ALERTS_SEND_WORKERS", strconv.Itoa(*workers))
	}
	mustSetEnv("CORE_ALERTS_DRY_RUN", map[bool]string{true: "1", false: "0"}[*dryRun])

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	// Build dependency modules first
	rm := rollmod.New(deps)
	sm := subsmod.New(deps)

	dispatcher, err := mail.New(mail.FromConfig(root))
	if err != nil {
		l.Fatal().Err(err).Msg("mail dispatcher init failed")
	}

	// Build alerts module with ports injected from deps modules
	am := alertsmod.New(
		deps,
		alertsmod.Options{DryRun: *dryRun},
		modkit.WithPorts(alertsdom.Ports{
			Rollups:     module.MustPortsOf[rollmod.Ports](rm).Reader,
			Subscribers: module.MustPortsOf[subsmod.Ports](sm).Reader,
			Dispatcher:  dispatcher,
		}),
	)

	// Register ports
	module.Register(rm.Name(), rm.Ports())
	module.Register(sm.Name(), sm.Ports())
	module.Register(am.Name(), am.Ports())

	// Kick the runner
	ports := am.Ports().(alertsmod.Ports)
	summary, err := ports.Runner.Run(context.Background(), at)
	if err != nil {
		l.Fatal().Err(err).Msg("alert cycle failed")
	}
	l.Info().
		Str("run_id", summary.RunID).
		Time("at", summary.At).
		Bool("dry_run", summary.DryRun).
		Int("events", len(summary.Events)).
		Int("suppressed", summary.Suppressed).
		Int("jobs", summary.Jobs).
		Int("sent", summary.Sent).
		Int("failed", summary.Failed).
		Msg("alert cycle complete")
}
