package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	perr "bandwatch/internal/platform/errors"
	"bandwatch/internal/services/alerts/domain"
	rolldom "bandwatch/internal/services/rollups/domain"
	subdom "bandwatch/internal/services/subscribers/domain"
)

var anchor = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// fakeRollups serves canned windows keyed by dimension and window start
type fakeRollups struct {
	recent   map[rolldom.Dimension][]rolldom.Rollup
	baseline map[rolldom.Dimension][]rolldom.Rollup
	top      []rolldom.Rollup
	err      error

	reads int
}

func (f *fakeRollups) ReadWindow(
	ctx context.Context,
	dim rolldom.Dimension,
	w rolldom.Window,
) ([]rolldom.Rollup, error) {
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	// the recent window is the short one
	if w.Until.Sub(w.Since) == time.Hour {
		return f.recent[dim], nil
	}
	return f.baseline[dim], nil
}

func (f *fakeRollups) TopArtistsInGenre(
	ctx context.Context,
	genreID int64,
	w rolldom.Window,
	limit int,
) ([]rolldom.Rollup, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.top) > limit {
		return f.top[:limit], nil
	}
	return f.top, nil
}

type fakeSubs struct {
	general      []subdom.Recipient
	perGenre     map[int64][]subdom.Recipient
	err          error
	generalCalls int
}

func (f *fakeSubs) AlertRecipients(ctx context.Context) ([]subdom.Recipient, error) {
	f.generalCalls++
	return f.general, f.err
}

func (f *fakeSubs) GenreRecipients(ctx context.Context, genreID int64) ([]subdom.Recipient, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.perGenre[genreID], nil
}

type fakeDisp struct {
	mu   sync.Mutex
	sent []domain.Job
	fail map[int64]bool // subscriber ids that should fail
}

func (f *fakeDisp) Send(ctx context.Context, j domain.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[j.Recipient.SubscriberID] {
		return errors.New("smtp refused")
	}
	f.sent = append(f.sent, j)
	return nil
}

// steadyWindows has the same leaders in both windows and no genre growth
func steadyWindows() *fakeRollups {
	return &fakeRollups{
		recent: map[rolldom.Dimension][]rolldom.Rollup{
			rolldom.DimensionArtist: {{ID: 1, Name: "Neon Mirage", Revenue: 50}},
			rolldom.DimensionGenre:  {{ID: 10, Name: "jazz", Revenue: 2}},
		},
		baseline: map[rolldom.Dimension][]rolldom.Rollup{
			rolldom.DimensionArtist: {{ID: 1, Name: "Neon Mirage", Revenue: 500}},
			rolldom.DimensionGenre:  {{ID: 10, Name: "jazz", Revenue: 94}}, // 2/h over 47h
		},
	}
}

func newRunner(r *fakeRollups, s *fakeSubs, d *fakeDisp) *Service {
	return New(r, s, d, Config{
		RecentSpan:     time.Hour,
		BaselineSpan:   48 * time.Hour,
		SpikeThreshold: 0.20,
		SendWorkers:    2,
	})
}

func TestRunQuietHour(t *testing.T) {
	rollups := steadyWindows()
	disp := &fakeDisp{}
	svc := newRunner(rollups, &fakeSubs{general: []subdom.Recipient{{SubscriberID: 1, Email: "a@b.co"}}}, disp)

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(sum.Events) != 0 || sum.Jobs != 0 || len(disp.sent) != 0 {
		t.Fatalf("steady windows must produce nothing: %+v", sum)
	}
	if sum.RunID == "" {
		t.Fatalf("summary must carry a run id")
	}
}

func TestRunNoDataInWindow(t *testing.T) {
	rollups := &fakeRollups{
		recent:   map[rolldom.Dimension][]rolldom.Rollup{},
		baseline: map[rolldom.Dimension][]rolldom.Rollup{},
	}
	svc := newRunner(rollups, &fakeSubs{}, &fakeDisp{})

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("empty windows are not an error: %v", err)
	}
	if len(sum.Events) != 0 {
		t.Fatalf("expected no events, got %+v", sum.Events)
	}
}

func TestRunStoreFailureAbortsBeforeDispatch(t *testing.T) {
	rollups := &fakeRollups{err: perr.Unavailablef("sales store unreachable")}
	subs := &fakeSubs{general: []subdom.Recipient{{SubscriberID: 1, Email: "a@b.co"}}}
	disp := &fakeDisp{}
	svc := newRunner(rollups, subs, disp)

	_, err := svc.Run(context.Background(), anchor)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if subs.generalCalls != 0 {
		t.Fatalf("resolver must not run after a read failure")
	}
	if len(disp.sent) != 0 {
		t.Fatalf("no deliveries may go out after a read failure")
	}
}

func TestRunTopArtistChangeFansOutOnce(t *testing.T) {
	rollups := steadyWindows()
	// leader flips from Neon Mirage to Glass Harbor in the recent window
	rollups.recent[rolldom.DimensionArtist] = []rolldom.Rollup{
		{ID: 1, Name: "Neon Mirage", Revenue: 10},
		{ID: 2, Name: "Glass Harbor", Revenue: 90},
	}
	rollups.baseline[rolldom.DimensionArtist] = []rolldom.Rollup{
		{ID: 1, Name: "Neon Mirage", Revenue: 500},
		{ID: 2, Name: "Glass Harbor", Revenue: 100},
	}
	subs := &fakeSubs{general: []subdom.Recipient{
		{SubscriberID: 1, Email: "a@b.co"},
		{SubscriberID: 2, Email: "c@d.co"},
	}}
	disp := &fakeDisp{}
	svc := newRunner(rollups, subs, disp)

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var changes int
	for _, ev := range sum.Events {
		if ev.Kind == domain.EventTopArtistChanged {
			changes++
			if ev.PriorValue != "Neon Mirage" || ev.NewValue != "Glass Harbor" {
				t.Fatalf("bad change payload: %+v", ev)
			}
		}
	}
	if changes != 1 {
		t.Fatalf("exactly one artist change expected, got %d", changes)
	}
	if sum.Sent != 2 || len(disp.sent) != 2 {
		t.Fatalf("both general subscribers get the alert: sent=%d", sum.Sent)
	}
}

func TestRunGenreSpikeTargetsOnlyGenreSubscribers(t *testing.T) {
	rollups := steadyWindows()
	// jazz: 100 over 47h baseline (2.13/h) vs 3.00 recent -> ~41% growth
	rollups.recent[rolldom.DimensionGenre] = []rolldom.Rollup{{ID: 10, Name: "jazz", Revenue: 3.0}}
	rollups.baseline[rolldom.DimensionGenre] = []rolldom.Rollup{{ID: 10, Name: "jazz", Revenue: 100}}
	rollups.top = []rolldom.Rollup{
		{ID: 1, Name: "Neon Mirage", Revenue: 1.5},
		{ID: 2, Name: "Glass Harbor", Revenue: 1.0},
	}

	subs := &fakeSubs{
		general:  []subdom.Recipient{{SubscriberID: 1, Email: "general@b.co"}},
		perGenre: map[int64][]subdom.Recipient{10: {{SubscriberID: 9, Email: "jazzfan@b.co"}}},
	}
	disp := &fakeDisp{}
	svc := newRunner(rollups, subs, disp)

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(sum.Events) != 1 || sum.Events[0].Kind != domain.EventGenreSpike {
		t.Fatalf("expected one spike, got %+v", sum.Events)
	}
	ev := sum.Events[0]
	if ev.DeltaPct < 0.40 || ev.DeltaPct > 0.42 {
		t.Fatalf("delta %f want ~0.41", ev.DeltaPct)
	}
	if len(ev.TopArtists) != 2 {
		t.Fatalf("top artists attached: %+v", ev.TopArtists)
	}

	if len(disp.sent) != 1 || disp.sent[0].Recipient.SubscriberID != 9 {
		t.Fatalf("only the jazz subscriber gets the spike: %+v", disp.sent)
	}
	if subs.generalCalls != 0 {
		t.Fatalf("spike-only run must not resolve general subscribers")
	}
}

func TestRunZeroBaselineGenreSkipped(t *testing.T) {
	rollups := steadyWindows()
	rollups.recent[rolldom.DimensionGenre] = []rolldom.Rollup{{ID: 11, Name: "hyperpop", Revenue: 500}}
	rollups.baseline[rolldom.DimensionGenre] = []rolldom.Rollup{{ID: 11, Name: "hyperpop", Revenue: 0}}
	// keep artist leaders steady for this case
	rollups.baseline[rolldom.DimensionArtist] = rollups.recent[rolldom.DimensionArtist]

	svc := newRunner(rollups, &fakeSubs{}, &fakeDisp{})

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, ev := range sum.Events {
		if ev.Kind == domain.EventGenreSpike {
			t.Fatalf("zero baseline genre must not spike: %+v", ev)
		}
	}
}

func TestRunDryRunSkipsDispatch(t *testing.T) {
	rollups := steadyWindows()
	rollups.recent[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 2, Name: "Glass Harbor", Revenue: 90}}
	rollups.baseline[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 1, Name: "Neon Mirage", Revenue: 500}}

	subs := &fakeSubs{general: []subdom.Recipient{{SubscriberID: 1, Email: "a@b.co"}}}
	disp := &fakeDisp{}
	svc := New(rollups, subs, disp, Config{
		RecentSpan:   time.Hour,
		BaselineSpan: 48 * time.Hour,
		DryRun:       true,
	})

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Jobs != 1 {
		t.Fatalf("dry run still counts jobs, got %d", sum.Jobs)
	}
	if sum.Sent != 0 || len(disp.sent) != 0 {
		t.Fatalf("dry run must not deliver")
	}
}

func TestRunDeliveryFailureContinues(t *testing.T) {
	rollups := steadyWindows()
	rollups.recent[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 2, Name: "Glass Harbor", Revenue: 90}}
	rollups.baseline[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 1, Name: "Neon Mirage", Revenue: 500}}

	subs := &fakeSubs{general: []subdom.Recipient{
		{SubscriberID: 1, Email: "a@b.co"},
		{SubscriberID: 2, Email: "c@d.co"},
		{SubscriberID: 3, Email: "e@f.co"},
	}}
	disp := &fakeDisp{fail: map[int64]bool{2: true}}
	svc := newRunner(rollups, subs, disp)

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("delivery failures must not fail the run: %v", err)
	}
	if sum.Sent != 2 || sum.Failed != 1 {
		t.Fatalf("accounting wrong: sent=%d failed=%d", sum.Sent, sum.Failed)
	}
}
