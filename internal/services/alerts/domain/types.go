// Package domain defines the core types and interfaces for the alerts service
package domain

import (
	"time"

	subdom "bandwatch/internal/services/subscribers/domain"
)

// EventKind identifies what kind of trend event was detected
type EventKind string

const (
	// EventTopArtistChanged fires when the revenue leading artist swaps
	EventTopArtistChanged EventKind = "TOP_ARTIST_CHANGED"
	// EventTopGenreChanged fires when the revenue leading genre swaps
	EventTopGenreChanged EventKind = "TOP_GENRE_CHANGED"
	// EventGenreSpike fires when a genre's recent revenue outgrows its baseline rate
	EventGenreSpike EventKind = "GENRE_SPIKE"
)

// TopArtist is a ranked artist attached to a genre spike
type TopArtist struct {
	ID      int64
	Name    string
	Revenue float64
}

// Event is one detected trend change
// change events carry PriorValue and NewValue, spikes carry Subject and DeltaPct
type Event struct {
	Kind       EventKind
	PriorValue string
	NewValue   string
	SubjectID  int64
	Subject    string
	DeltaPct   float64
	TopArtists []TopArtist
}

// Job pairs one event with one recipient, the unit handed to the dispatcher
type Job struct {
	Event     Event
	Recipient subdom.Recipient
}

// Summary is the per run accounting report
type Summary struct {
	RunID      string
	At         time.Time
	DryRun     bool
	Events     []Event
	Suppressed int
	Jobs       int
	Sent       int
	Failed     int
}
