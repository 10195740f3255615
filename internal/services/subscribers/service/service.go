// Package service implements subscriber management and alert targeting
package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"bandwatch/internal/modkit/repokit"
	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/platform/logger"
	"bandwatch/internal/services/subscribers/domain"
	"bandwatch/internal/services/subscribers/repo"
)

// Service implements domain.ReaderPort and domain.AdminPort
type Service struct {
	tx repokit.TxRunner
	b  repokit.Binder[repo.Storage]
}

// New constructs a subscribers service
func New(tx repokit.TxRunner, b repokit.Binder[repo.Storage]) *Service {
	if tx == nil {
		panic("subscribers service: nil TxRunner")
	}
	return &Service{tx: tx, b: b}
}

func (s *Service) store() repo.Storage { return s.b.Bind(s.tx) }

// AlertRecipients implements domain.ReaderPort
// rows with a blank email are a broken preference state, they are logged and
// skipped rather than failing the whole run
func (s *Service) AlertRecipients(ctx context.Context) ([]domain.Recipient, error) {
	rows, err := s.store().AlertRecipients(ctx)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "list alert recipients")
	}
	return filterValid(ctx, rows), nil
}

// GenreRecipients implements domain.ReaderPort
func (s *Service) GenreRecipients(ctx context.Context, genreID int64) ([]domain.Recipient, error) {
	rows, err := s.store().GenreRecipients(ctx, genreID)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "list recipients for genre %d", genreID)
	}
	return filterValid(ctx, rows), nil
}

func filterValid(ctx context.Context, rows []domain.Recipient) []domain.Recipient {
	out := rows[:0]
	for _, r := range rows {
		if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
			logger.C(ctx).Warn().
				Int64("subscriber_id", r.SubscriberID).
				Msg("skipping subscriber with invalid email")
			continue
		}
		out = append(out, r)
	}
	return out
}

// Create implements domain.AdminPort
// the subscriber row and its genre preferences commit atomically
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (domain.Subscriber, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return domain.Subscriber{}, perr.InvalidArgf("email is required")
	}

	names := dedupeFold(in.Genres)

	var sub domain.Subscriber
	err := repokit.WithTx(ctx, s.tx, func(q repokit.Queryer) error {
		st := s.b.Bind(q)

		var genreIDs []int64
		if len(names) > 0 {
			found, err := st.GenresByName(ctx, names)
			if err != nil {
				return perr.Wrap(err, perr.ErrorCodeUnavailable, "resolve genres")
			}
			if len(found) != len(names) {
				return perr.InvalidArgf("unknown genre in %v", missingNames(names, found))
			}
			for _, g := range found {
				genreIDs = append(genreIDs, g.ID)
			}
		}

		id, err := st.InsertSubscriber(ctx, email, in.Alerts, in.Reports)
		if err != nil {
			if perr.IsDuplicateKey(err) {
				return perr.WithField(perr.Conflictf("email %s is already subscribed", email), "email")
			}
			return perr.FromPostgres(err, "insert subscriber")
		}
		if err := st.InsertGenrePrefs(ctx, id, genreIDs); err != nil {
			return perr.FromPostgres(err, "insert genre preferences")
		}

		sub = domain.Subscriber{
			ID:      id,
			Email:   email,
			Alerts:  in.Alerts,
			Reports: in.Reports,
			Genres:  names,
		}
		return nil
	})
	if err != nil {
		return domain.Subscriber{}, err
	}

	logger.C(ctx).Info().
		Int64("subscriber_id", sub.ID).
		Int("genres", len(sub.Genres)).
		Msg("subscriber created")
	return sub, nil
}

// Delete implements domain.AdminPort
func (s *Service) Delete(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return perr.InvalidArgf("email is required")
	}

	err := repokit.WithTx(ctx, s.tx, func(q repokit.Queryer) error {
		st := s.b.Bind(q)
		id, err := st.SubscriberIDByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return perr.NotFoundf("no subscription for %s", email)
			}
			return perr.FromPostgres(err, "resolve subscriber")
		}
		// genre prefs reference the subscriber row and the FK does not
		// cascade, so the child rows go first
		if err := st.DeleteGenrePrefs(ctx, id); err != nil {
			return perr.FromPostgres(err, "delete genre preferences")
		}
		if _, err := st.DeleteSubscriber(ctx, email); err != nil {
			return perr.FromPostgres(err, "delete subscriber")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.C(ctx).Info().Str("email", email).Msg("subscriber removed")
	return nil
}

// Genres implements domain.AdminPort
func (s *Service) Genres(ctx context.Context) ([]domain.Genre, error) {
	gs, err := s.store().ListGenres(ctx)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "list genres")
	}
	return gs, nil
}

// dedupeFold lowercases, trims, and dedupes genre names preserving a stable order
func dedupeFold(names []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func missingNames(want []string, have []domain.Genre) []string {
	got := map[string]struct{}{}
	for _, g := range have {
		got[strings.ToLower(g.Name)] = struct{}{}
	}
	var out []string
	for _, n := range want {
		if _, ok := got[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
