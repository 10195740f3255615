// Package repo provides the rollups repository implementation.
package repo

import (
	"context"

	"bandwatch/internal/modkit/repokit"
	"bandwatch/internal/platform/store"
	"bandwatch/internal/services/rollups/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the rollups repository
type Storage interface {
	ArtistWindow(ctx context.Context, w domain.Window) ([]domain.Rollup, error)
	GenreWindow(ctx context.Context, w domain.Window) ([]domain.Rollup, error)
	TopArtistsInGenre(ctx context.Context, genreID int64, w domain.Window, limit int) ([]domain.Rollup, error)
}

const artistWindowSQL = `
	SELECT
		a.artist_id,
		a.artist_name,
		COUNT(s.sale_id) AS sale_count,
		COALESCE(SUM(s.sale_price), 0) AS revenue
	FROM sale AS s
	JOIN release AS r ON s.release_id = r.release_id
	JOIN artist AS a ON r.artist_id = a.artist_id
	WHERE s.sale_date >= $1 AND s.sale_date < $2
	GROUP BY a.artist_id, a.artist_name`

const genreWindowSQL = `
	SELECT
		g.genre_id,
		g.genre_name,
		COUNT(s.sale_id) AS sale_count,
		COALESCE(SUM(s.sale_price), 0) AS revenue
	FROM sale AS s
	JOIN release AS r ON s.release_id = r.release_id
	JOIN release_genre AS rg ON r.release_id = rg.release_id
	JOIN genre AS g ON rg.genre_id = g.genre_id
	WHERE s.sale_date >= $1 AND s.sale_date < $2
	GROUP BY g.genre_id, g.genre_name`

const topArtistsInGenreSQL = `
	SELECT
		a.artist_id,
		a.artist_name,
		COUNT(s.sale_id) AS sale_count,
		COALESCE(SUM(s.sale_price), 0) AS revenue
	FROM sale AS s
	JOIN release AS r ON s.release_id = r.release_id
	JOIN artist AS a ON r.artist_id = a.artist_id
	JOIN release_genre AS rg ON r.release_id = rg.release_id
	WHERE s.sale_date >= $1 AND s.sale_date < $2
		AND rg.genre_id = $3
	GROUP BY a.artist_id, a.artist_name
	ORDER BY revenue DESC, a.artist_id ASC
	LIMIT $4`

// ArtistWindow implements Storage
func (s *pg) ArtistWindow(ctx context.Context, w domain.Window) ([]domain.Rollup, error) {
	return s.rollups(ctx, artistWindowSQL, w.Since, w.Until)
}

// GenreWindow implements Storage
func (s *pg) GenreWindow(ctx context.Context, w domain.Window) ([]domain.Rollup, error) {
	return s.rollups(ctx, genreWindowSQL, w.Since, w.Until)
}

// TopArtistsInGenre implements Storage
func (s *pg) TopArtistsInGenre(
	ctx context.Context,
	genreID int64,
	w domain.Window,
	limit int,
) ([]domain.Rollup, error) {
	return s.rollups(ctx, topArtistsInGenreSQL, w.Since, w.Until, genreID, limit)
}

func (s *pg) rollups(ctx context.Context, sql string, args ...any) ([]domain.Rollup, error) {
	return store.Many(ctx, s.q, func(row store.Row) (domain.Rollup, error) {
		var r domain.Rollup
		err := row.Scan(&r.ID, &r.Name, &r.SaleCount, &r.Revenue)
		return r, err
	}, sql, args...)
}
