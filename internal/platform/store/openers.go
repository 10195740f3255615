package store

import (
	"context"
	"fmt"
	"time"

	chx "bandwatch/internal/platform/store/ch"
	"bandwatch/internal/platform/store/pg"
)

// pg readiness probing defaults, overridable per PGConfig
const (
	pgPingAttempts = 20
	pgPingTimeout  = 3 * time.Second
	pgBackoffFirst = 150 * time.Millisecond
	pgBackoffCap   = 2 * time.Second
)

// openPG opens pg, waits for the pool to answer, and wraps it in the sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	if err := waitForPG(ctx, p, cfg.PG); err != nil {
		p.Close()
		return nil, err
	}

	a := newPGAdapter(p)
	s.PG = a
	return a, nil
}

// waitForPG pings the pool directly, retrying with doubling backoff.
// Pinging the bare pool keeps startup probes out of the SQL trace
func waitForPG(ctx context.Context, p *pg.PG, cfg PGConfig) error {
	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = pgPingAttempts
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = pgPingTimeout
	}

	var lastErr error
	backoff := pgBackoffFirst
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(toCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		time.Sleep(backoff)
		if backoff *= 2; backoff > pgBackoffCap {
			backoff = pgBackoffCap
		}
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
