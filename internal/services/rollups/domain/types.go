// Package domain defines the core types and interfaces for the rollups service
package domain

import "time"

// Dimension selects which axis a rollup groups sales by
type Dimension string

const (
	// DimensionArtist groups sales by the release's artist
	DimensionArtist Dimension = "artist"
	// DimensionGenre groups sales by the release's genres
	DimensionGenre Dimension = "genre"
)

// Valid reports whether d is a known dimension
func (d Dimension) Valid() bool {
	return d == DimensionArtist || d == DimensionGenre
}

// Window is a half open time range [Since, Until)
type Window struct {
	Since time.Time
	Until time.Time
}

// Hours returns the window length in hours
func (w Window) Hours() float64 { return w.Until.Sub(w.Since).Hours() }

// Rollup is one aggregated dimension row for a window
// rows are created fresh per run and discarded afterwards
type Rollup struct {
	ID        int64
	Name      string
	SaleCount int64
	Revenue   float64
}
