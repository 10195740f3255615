// Package service implements the rollups reader
package service

import (
	"context"

	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/platform/logger"
	"bandwatch/internal/services/rollups/domain"
	"bandwatch/internal/services/rollups/repo"
)

// Service implements domain.ReaderPort against the sales store
type Service struct {
	store repo.Storage
}

// New constructs a rollups service over bound storage
func New(store repo.Storage) *Service {
	return &Service{store: store}
}

// ReadWindow implements domain.ReaderPort
// store failures map to unavailable so callers can abort the whole run
func (s *Service) ReadWindow(ctx context.Context, dim domain.Dimension, w domain.Window) ([]domain.Rollup, error) {
	if !dim.Valid() {
		return nil, perr.InvalidArgf("unknown dimension %q", string(dim))
	}
	if !w.Until.After(w.Since) {
		return nil, perr.InvalidArgf("window until must be after since")
	}

	var (
		rows []domain.Rollup
		err  error
	)
	switch dim {
	case domain.DimensionArtist:
		rows, err = s.store.ArtistWindow(ctx, w)
	case domain.DimensionGenre:
		rows, err = s.store.GenreWindow(ctx, w)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable,
			"read %s window [%s, %s)", dim, w.Since.Format("15:04"), w.Until.Format("15:04"))
	}

	logger.C(ctx).Debug().
		Str("dimension", string(dim)).
		Int("rows", len(rows)).
		Msg("window rollup read")
	return rows, nil
}

// TopArtistsInGenre implements domain.ReaderPort
func (s *Service) TopArtistsInGenre(
	ctx context.Context,
	genreID int64,
	w domain.Window,
	limit int,
) ([]domain.Rollup, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.store.TopArtistsInGenre(ctx, genreID, w, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "read top artists for genre %d", genreID)
	}
	return rows, nil
}
