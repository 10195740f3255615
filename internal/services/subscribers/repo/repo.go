// Package repo provides the subscribers repository implementation.
package repo

import (
	"context"
	"fmt"
	"strings"

	"bandwatch/internal/modkit/repokit"
	"bandwatch/internal/platform/store"
	"bandwatch/internal/services/subscribers/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the subscribers repository
type Storage interface {
	AlertRecipients(ctx context.Context) ([]domain.Recipient, error)
	GenreRecipients(ctx context.Context, genreID int64) ([]domain.Recipient, error)

	InsertSubscriber(ctx context.Context, email string, alerts, reports bool) (int64, error)
	InsertGenrePrefs(ctx context.Context, subscriberID int64, genreIDs []int64) error
	SubscriberIDByEmail(ctx context.Context, email string) (int64, error)
	DeleteSubscriber(ctx context.Context, email string) (int64, error)
	DeleteGenrePrefs(ctx context.Context, subscriberID int64) error

	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GenresByName(ctx context.Context, names []string) ([]domain.Genre, error)
}

// AlertRecipients implements Storage
func (s *pg) AlertRecipients(ctx context.Context) ([]domain.Recipient, error) {
	const sql = `
		SELECT subscriber_id, subscriber_email
		FROM subscriber
		WHERE subscribe_alert = true`
	return s.recipients(ctx, sql)
}

// GenreRecipients implements Storage
// genre preferences only matter for subscribers who opted into alerts
func (s *pg) GenreRecipients(ctx context.Context, genreID int64) ([]domain.Recipient, error) {
	const sql = `
		SELECT s.subscriber_id, s.subscriber_email
		FROM subscriber AS s
		JOIN subscriber_genre AS sg ON s.subscriber_id = sg.subscriber_id
		WHERE sg.genre_id = $1 AND s.subscribe_alert = true`
	return s.recipients(ctx, sql, genreID)
}

func (s *pg) recipients(ctx context.Context, sql string, args ...any) ([]domain.Recipient, error) {
	return store.Many(ctx, s.q, func(row store.Row) (domain.Recipient, error) {
		var r domain.Recipient
		err := row.Scan(&r.SubscriberID, &r.Email)
		return r, err
	}, sql, args...)
}

// InsertSubscriber implements Storage
func (s *pg) InsertSubscriber(ctx context.Context, email string, alerts, reports bool) (int64, error) {
	const sql = `
		INSERT INTO subscriber (subscriber_email, subscribe_alert, subscribe_report)
		VALUES ($1, $2, $3)
		RETURNING subscriber_id`
	return store.Scalar[int64](ctx, s.q, sql, email, alerts, reports)
}

// InsertGenrePrefs implements Storage
func (s *pg) InsertGenrePrefs(ctx context.Context, subscriberID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO subscriber_genre (subscriber_id, genre_id) VALUES `)
	args := make([]any, 0, len(genreIDs)+1)
	args = append(args, subscriberID)
	for i, gid := range genreIDs {
		if i > 0 {
			sb.WriteByte(',')
		}
		args = append(args, gid)
		fmt.Fprintf(&sb, "($1,$%d)", len(args))
	}
	sb.WriteString(` ON CONFLICT DO NOTHING`)
	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// SubscriberIDByEmail implements Storage
func (s *pg) SubscriberIDByEmail(ctx context.Context, email string) (int64, error) {
	const sql = `
		SELECT subscriber_id
		FROM subscriber
		WHERE subscriber_email = $1`
	return store.Scalar[int64](ctx, s.q, sql, email)
}

// DeleteSubscriber implements Storage, returns the removed subscriber id
func (s *pg) DeleteSubscriber(ctx context.Context, email string) (int64, error) {
	const sql = `
		DELETE FROM subscriber
		WHERE subscriber_email = $1
		RETURNING subscriber_id`
	return store.Scalar[int64](ctx, s.q, sql, email)
}

// DeleteGenrePrefs implements Storage
func (s *pg) DeleteGenrePrefs(ctx context.Context, subscriberID int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM subscriber_genre WHERE subscriber_id = $1`, subscriberID)
	return err
}

// ListGenres implements Storage
func (s *pg) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return s.genres(ctx, `SELECT genre_id, genre_name FROM genre ORDER BY genre_name`)
}

// GenresByName implements Storage
func (s *pg) GenresByName(ctx context.Context, names []string) ([]domain.Genre, error) {
	if len(names) == 0 {
		return nil, nil
	}
	return s.genres(ctx,
		`SELECT genre_id, genre_name FROM genre WHERE genre_name = ANY($1)`, names)
}

func (s *pg) genres(ctx context.Context, sql string, args ...any) ([]domain.Genre, error) {
	return store.Many(ctx, s.q, func(row store.Row) (domain.Genre, error) {
		var g domain.Genre
		err := row.Scan(&g.ID, &g.Name)
		return g, err
	}, sql, args...)
}
