package service

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/services/rollups/domain"
)

type fakeStorage struct {
	artist []domain.Rollup
	genre  []domain.Rollup
	top    []domain.Rollup
	err    error

	topLimit int
}

func (f *fakeStorage) ArtistWindow(ctx context.Context, w domain.Window) ([]domain.Rollup, error) {
	return f.artist, f.err
}

func (f *fakeStorage) GenreWindow(ctx context.Context, w domain.Window) ([]domain.Rollup, error) {
	return f.genre, f.err
}

func (f *fakeStorage) TopArtistsInGenre(
	ctx context.Context,
	genreID int64,
	w domain.Window,
	limit int,
) ([]domain.Rollup, error) {
	f.topLimit = limit
	return f.top, f.err
}

func window(t *testing.T) domain.Window {
	t.Helper()
	until := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return domain.Window{Since: until.Add(-time.Hour), Until: until}
}

func TestReadWindowArtist(t *testing.T) {
	st := &fakeStorage{artist: []domain.Rollup{{ID: 1, Name: "Neon Mirage", Revenue: 12.5}}}
	svc := New(st)

	rows, err := svc.ReadWindow(context.Background(), domain.DimensionArtist, window(t))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("bad rows: %+v", rows)
	}
}

func TestReadWindowEmptyIsNotError(t *testing.T) {
	svc := New(&fakeStorage{})

	rows, err := svc.ReadWindow(context.Background(), domain.DimensionGenre, window(t))
	if err != nil {
		t.Fatalf("empty window must not error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestReadWindowStoreFailureIsUnavailable(t *testing.T) {
	svc := New(&fakeStorage{err: errors.New("connection refused")})

	_, err := svc.ReadWindow(context.Background(), domain.DimensionArtist, window(t))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestReadWindowRejectsBadInput(t *testing.T) {
	svc := New(&fakeStorage{})

	if _, err := svc.ReadWindow(context.Background(), "country", window(t)); err == nil {
		t.Fatalf("unknown dimension must error")
	}

	w := window(t)
	w.Until = w.Since
	if _, err := svc.ReadWindow(context.Background(), domain.DimensionArtist, w); err == nil {
		t.Fatalf("empty window range must error")
	}
}

func TestTopArtistsDefaultsLimit(t *testing.T) {
	st := &fakeStorage{top: []domain.Rollup{{ID: 2, Name: "Glass Harbor"}}}
	svc := New(st)

	if _, err := svc.TopArtistsInGenre(context.Background(), 5, window(t), 0); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if st.topLimit != 3 {
		t.Fatalf("limit %d want default 3", st.topLimit)
	}
}
