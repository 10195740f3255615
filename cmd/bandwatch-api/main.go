// Command bandwatch-api serves the subscriber management HTTP API.
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"bandwatch/internal/core/version"
	"bandwatch/internal/modkit"
	"bandwatch/internal/modkit/httpkit"
	"bandwatch/internal/modkit/module"
	"bandwatch/internal/modkit/repokit"
	"bandwatch/internal/platform/config"
	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/platform/logger"
	phttp "bandwatch/internal/platform/net/http"
	"bandwatch/internal/platform/net/middleware"
	"bandwatch/internal/platform/store"

	subsmod "bandwatch/internal/services/subscribers/module"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "bandwatch-api",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
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

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg)
	r := srv.Router()
	r.Use(httpkit.CommonStack()...)
	if origins := apiCfg.MayStrings("CORS_ORIGINS", nil); len(origins) > 0 {
		r.Use(middleware.CORS(middleware.CORSOptions{AllowedOrigins: origins}))
	}

	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	// liveness is middleware.Heartbeat("/healthz"), readiness checks the stores
	httpkit.Get(r, "/readyz", func(req *http.Request) (any, error) {
		if err := st.Guard(req.Context()); err != nil {
			return nil, perr.Unavailablef("dependency check failed: %v", err)
		}
		return map[string]string{"status": "ok"}, nil
	})

	sm := subsmod.New(modkit.Deps{Cfg: root, PG: st.PG, Log: *l})
	sm.MountRoutes(r)
	module.Register(sm.Name(), sm.Ports())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
