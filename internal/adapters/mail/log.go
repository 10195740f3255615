package mail

import (
	"context"

	"bandwatch/internal/platform/logger"
	"bandwatch/internal/services/alerts/domain"
)

// LogDispatcher writes rendered emails to the log instead of sending them.
// Default driver for local development.
type LogDispatcher struct {
	comp *Composer
}

// Send logs the rendered email
func (d *LogDispatcher) Send(ctx context.Context, job domain.Job) error {
	msg := d.comp.Compose(job)
	logger.C(ctx).Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("alert email (log driver)")
	return nil
}
