// Package service implements the alert run pipeline
// one run reads both comparison windows, detects trend events, resolves
// recipients, and fans deliveries out to the dispatcher
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"bandwatch/internal/core/trend"
	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/platform/logger"
	"bandwatch/internal/platform/store"
	"bandwatch/internal/services/alerts/domain"
	"bandwatch/internal/services/alerts/repo"
	rolldom "bandwatch/internal/services/rollups/domain"
	subdom "bandwatch/internal/services/subscribers/domain"
)

// Config for the alerts service
type Config struct {
	RecentSpan      time.Duration
	BaselineSpan    time.Duration
	SpikeThreshold  float64
	SendWorkers     int
	TopArtists      int
	SuppressRepeats bool
	DryRun          bool
}

// Service implements domain.RunnerPort
type Service struct {
	Rollups rolldom.ReaderPort
	Subs    subdom.ReaderPort
	Disp    domain.DispatcherPort
	State   repo.Storage     // optional, used when SuppressRepeats is on
	Audit   store.Clickhouse // optional event log sink
	Cfg     Config
}

// New constructs an alerts service
func New(rollups rolldom.ReaderPort, subs subdom.ReaderPort, disp domain.DispatcherPort, cfg Config) *Service {
	if cfg.RecentSpan <= 0 {
		cfg.RecentSpan = time.Hour
	}
	if cfg.BaselineSpan <= cfg.RecentSpan {
		cfg.BaselineSpan = 48 * time.Hour
	}
	if cfg.SpikeThreshold <= 0 {
		cfg.SpikeThreshold = 0.20
	}
	if cfg.SendWorkers <= 0 {
		cfg.SendWorkers = 4
	}
	if cfg.TopArtists <= 0 {
		cfg.TopArtists = 3
	}
	return &Service{Rollups: rollups, Subs: subs, Disp: disp, Cfg: cfg}
}

// WithState attaches the suppression state storage
func (s *Service) WithState(st repo.Storage) *Service {
	s.State = st
	return s
}

// WithAudit attaches the columnar event log sink
func (s *Service) WithAudit(ch store.Clickhouse) *Service {
	s.Audit = ch
	return s
}

// Run implements domain.RunnerPort
// any store read failure aborts the run before a single delivery goes out
func (s *Service) Run(ctx context.Context, at time.Time) (domain.Summary, error) {
	runID := uuid.NewString()
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)

	sum := domain.Summary{RunID: runID, At: at.UTC(), DryRun: s.Cfg.DryRun}
	w := windowsAt(at, s.Cfg.RecentSpan, s.Cfg.BaselineSpan)

	log.Info().
		Time("recent_since", w.Recent.Since).
		Time("baseline_since", w.Baseline.Since).
		Bool("dry_run", s.Cfg.DryRun).
		Msg("alert run started")

	artRecent, err := s.Rollups.ReadWindow(ctx, rolldom.DimensionArtist, w.Recent)
	if err != nil {
		return sum, err
	}
	artBase, err := s.Rollups.ReadWindow(ctx, rolldom.DimensionArtist, w.Baseline)
	if err != nil {
		return sum, err
	}
	genRecent, err := s.Rollups.ReadWindow(ctx, rolldom.DimensionGenre, w.Recent)
	if err != nil {
		return sum, err
	}
	genBase, err := s.Rollups.ReadWindow(ctx, rolldom.DimensionGenre, w.Baseline)
	if err != nil {
		return sum, err
	}

	// no sales anywhere is a quiet hour, not a failure
	if len(artRecent) == 0 && len(artBase) == 0 && len(genRecent) == 0 && len(genBase) == 0 {
		log.Info().Msg("no data in either window, nothing to do")
		return sum, nil
	}

	events, err := s.detect(ctx, w, artRecent, artBase, genRecent, genBase)
	if err != nil {
		return sum, err
	}
	events, suppressed := s.suppress(ctx, events)
	sum.Events = events
	sum.Suppressed = suppressed

	if len(events) == 0 {
		log.Info().Int("suppressed", suppressed).Msg("no trend events this run")
		s.audit(ctx, runID, sum.At, nil)
		return sum, nil
	}

	jobs, err := s.resolve(ctx, events)
	if err != nil {
		return sum, err
	}
	sum.Jobs = len(jobs)

	if !s.Cfg.DryRun {
		sum.Sent, sum.Failed = s.dispatch(ctx, jobs)
		s.record(ctx, events)
	}
	s.audit(ctx, runID, sum.At, events)

	log.Info().
		Int("events", len(events)).
		Int("jobs", sum.Jobs).
		Int("sent", sum.Sent).
		Int("failed", sum.Failed).
		Int("suppressed", sum.Suppressed).
		Msg("alert run finished")
	return sum, nil
}

// detect compares windows and builds the event list
// at most one change event per dimension plus any number of genre spikes
func (s *Service) detect(
	ctx context.Context,
	w windows,
	artRecent, artBase, genRecent, genBase []rolldom.Rollup,
) ([]domain.Event, error) {
	var events []domain.Event

	if ch, ok := trend.LeaderChanged(entries(artBase), entries(artRecent)); ok {
		events = append(events, domain.Event{
			Kind:       domain.EventTopArtistChanged,
			PriorValue: ch.From.Name,
			NewValue:   ch.To.Name,
			SubjectID:  ch.To.ID,
		})
	}
	if ch, ok := trend.LeaderChanged(entries(genBase), entries(genRecent)); ok {
		events = append(events, domain.Event{
			Kind:       domain.EventTopGenreChanged,
			PriorValue: ch.From.Name,
			NewValue:   ch.To.Name,
			SubjectID:  ch.To.ID,
		})
	}

	samples := spikeSamples(genRecent, genBase, w.Baseline.Hours())
	for _, sp := range trend.Spikes(samples, s.Cfg.SpikeThreshold) {
		top, err := s.Rollups.TopArtistsInGenre(ctx, sp.ID, w.Recent, s.Cfg.TopArtists)
		if err != nil {
			return nil, err
		}
		ev := domain.Event{
			Kind:      domain.EventGenreSpike,
			SubjectID: sp.ID,
			Subject:   sp.Name,
			DeltaPct:  sp.DeltaPct,
		}
		for _, a := range top {
			ev.TopArtists = append(ev.TopArtists, domain.TopArtist{ID: a.ID, Name: a.Name, Revenue: a.Revenue})
		}
		events = append(events, ev)
	}
	return events, nil
}

// suppress drops change events whose new leader was already alerted last run
// spikes always go out, they describe the live window
func (s *Service) suppress(ctx context.Context, events []domain.Event) ([]domain.Event, int) {
	if !s.Cfg.SuppressRepeats || s.State == nil {
		return events, 0
	}
	kept := events[:0]
	dropped := 0
	for _, ev := range events {
		if ev.Kind == domain.EventGenreSpike {
			kept = append(kept, ev)
			continue
		}
		last, ok, err := s.State.LastValue(ctx, string(ev.Kind), "global")
		if err != nil {
			logger.C(ctx).Warn().Err(err).Msg("suppression state read failed, alerting anyway")
			kept = append(kept, ev)
			continue
		}
		if ok && last == ev.NewValue {
			dropped++
			continue
		}
		kept = append(kept, ev)
	}
	return kept, dropped
}

// record persists the alerted leaders for the next run's suppression pass
func (s *Service) record(ctx context.Context, events []domain.Event) {
	if !s.Cfg.SuppressRepeats || s.State == nil {
		return
	}
	for _, ev := range events {
		if ev.Kind == domain.EventGenreSpike {
			continue
		}
		if err := s.State.Record(ctx, string(ev.Kind), "global", ev.NewValue); err != nil {
			logger.C(ctx).Warn().Err(err).Msg("suppression state write failed")
		}
	}
}

// dispatch fans jobs out to the dispatcher with bounded parallelism
// delivery failures are logged and counted, never retried
func (s *Service) dispatch(ctx context.Context, jobs []domain.Job) (sent, failed int) {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.Cfg.SendWorkers)
	)
	for i := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j domain.Job) {
			defer func() { <-sem; wg.Done() }()
			err := s.Disp.Send(ctx, j)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				logger.C(ctx).Error().
					Err(perr.Wrap(err, perr.ErrorCodeDelivery, "send alert")).
					Str("kind", string(j.Event.Kind)).
					Int64("subscriber_id", j.Recipient.SubscriberID).
					Msg("delivery failed")
				return
			}
			sent++
		}(jobs[i])
	}
	wg.Wait()
	return sent, failed
}

// audit writes the run's events to the columnar event log, best effort
func (s *Service) audit(ctx context.Context, runID string, at time.Time, events []domain.Event) {
	if s.Audit == nil {
		return
	}
	rows := make([][]any, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []any{
			runID, at, string(ev.Kind),
			ev.PriorValue, ev.NewValue,
			ev.Subject, ev.DeltaPct,
		})
	}
	if len(rows) == 0 {
		return
	}
	if err := s.Audit.Insert(ctx, "event_log", rows); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("event log write failed")
	}
}

// String renders a short human readable event tag for logs
func eventTag(ev domain.Event) string {
	if ev.Kind == domain.EventGenreSpike {
		return fmt.Sprintf("%s(%s %+.0f%%)", ev.Kind, ev.Subject, ev.DeltaPct*100)
	}
	return fmt.Sprintf("%s(%s -> %s)", ev.Kind, ev.PriorValue, ev.NewValue)
}
