// Package domain defines the core types and interfaces for the subscribers service
package domain

// Genre is one subscribable genre
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Subscriber is a stored subscription row with its genre preferences
type Subscriber struct {
	ID      int64    `json:"id"`
	Email   string   `json:"email"`
	Alerts  bool     `json:"alerts"`
	Reports bool     `json:"reports"`
	Genres  []string `json:"genres,omitempty"`
}

// Recipient is the minimal targeting row used when fanning out alerts
type Recipient struct {
	SubscriberID int64
	Email        string
}

// CreateInput is the payload for a new subscription
type CreateInput struct {
	Email   string   `json:"email" validate:"required,email"`
	Alerts  bool     `json:"alerts"`
	Reports bool     `json:"reports"`
	Genres  []string `json:"genres" validate:"max=32,dive,min=1"`
}
