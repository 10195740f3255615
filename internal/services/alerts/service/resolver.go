package service

import (
	"context"

	"bandwatch/internal/platform/logger"
	"bandwatch/internal/services/alerts/domain"
	subdom "bandwatch/internal/services/subscribers/domain"
)

// resolve expands events into one job per (event, recipient)
// change events target every alert subscriber, spikes only target
// subscribers with a matching genre preference
func (s *Service) resolve(ctx context.Context, events []domain.Event) ([]domain.Job, error) {
	var (
		general       []subdom.Recipient
		generalLoaded bool
	)

	var jobs []domain.Job
	for _, ev := range events {
		var recips []subdom.Recipient
		var err error

		switch ev.Kind {
		case domain.EventGenreSpike:
			recips, err = s.Subs.GenreRecipients(ctx, ev.SubjectID)
		default:
			if !generalLoaded {
				general, err = s.Subs.AlertRecipients(ctx)
				generalLoaded = err == nil
			}
			recips = general
		}
		if err != nil {
			return nil, err
		}

		if len(recips) == 0 {
			// distinct from a delivery failure, nobody wanted this event
			logger.C(ctx).Info().
				Str("event", eventTag(ev)).
				Msg("no subscribers matched")
			continue
		}
		logger.C(ctx).Debug().
			Str("event", eventTag(ev)).
			Int("recipients", len(recips)).
			Msg("event resolved")

		for _, r := range recips {
			jobs = append(jobs, domain.Job{Event: ev, Recipient: r})
		}
	}
	return jobs, nil
}
