package domain

import "context"

// ReaderPort resolves alert recipients for the alert run
type ReaderPort interface {
	// AlertRecipients returns every subscriber with alerts switched on
	AlertRecipients(ctx context.Context) ([]Recipient, error)

	// GenreRecipients returns alert subscribers with a preference for genreID
	GenreRecipients(ctx context.Context, genreID int64) ([]Recipient, error)
}

// AdminPort manages subscription rows for the HTTP surface
type AdminPort interface {
	Create(ctx context.Context, in CreateInput) (Subscriber, error)
	Delete(ctx context.Context, email string) error
	Genres(ctx context.Context) ([]Genre, error)
}
