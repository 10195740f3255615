package store

import (
	"bandwatch/internal/platform/logger"
)

// Option mutates a Store during Open, errors abort the open
type Option func(*Store) error

// WithLogger routes subclient logging through the given logger
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
