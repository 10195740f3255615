package domain

import "context"

// ReaderPort reads windowed sales rollups from the store
type ReaderPort interface {
	// ReadWindow aggregates sales grouped by dim over the window
	// an empty result means no sales in the window, not an error
	ReadWindow(ctx context.Context, dim Dimension, w Window) ([]Rollup, error)

	// TopArtistsInGenre ranks artists by revenue within one genre and window
	TopArtistsInGenre(ctx context.Context, genreID int64, w Window, limit int) ([]Rollup, error)
}
