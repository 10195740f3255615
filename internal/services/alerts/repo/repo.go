// Package repo provides the alerts repository implementation.
// The engine owns one small table, alert_state, used for optional
// cross run suppression of repeated alerts.
package repo

import (
	"context"
	"errors"

	"bandwatch/internal/modkit/repokit"
	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/platform/store"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the alerts repository
type Storage interface {
	// LastValue returns the most recently recorded value for a kind and subject
	LastValue(ctx context.Context, kind, subject string) (string, bool, error)

	// Record upserts the latest alerted value for a kind and subject
	Record(ctx context.Context, kind, subject, value string) error
}

// LastValue implements Storage
func (s *pg) LastValue(ctx context.Context, kind, subject string) (string, bool, error) {
	const sql = `
		SELECT last_value
		FROM alert_state
		WHERE alert_kind = $1 AND subject = $2`
	v, err := store.One(ctx, s.q, func(row store.Row) (string, error) {
		var s string
		err := row.Scan(&s)
		return s, err
	}, sql, kind, subject)
	if errors.Is(err, perr.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Record implements Storage
func (s *pg) Record(ctx context.Context, kind, subject, value string) error {
	const sql = `
		INSERT INTO alert_state (alert_kind, subject, last_value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (alert_kind, subject)
		DO UPDATE SET last_value = EXCLUDED.last_value, updated_at = now()`
	_, err := s.q.Exec(ctx, sql, kind, subject, value)
	return err
}
