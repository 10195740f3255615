package service

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"bandwatch/internal/platform/logger"
	kit "bandwatch/internal/platform/testkit"
	rolldom "bandwatch/internal/services/rollups/domain"
	subdom "bandwatch/internal/services/subscribers/domain"
)

var logSink bytes.Buffer

// the root logger is process-wide and once-guarded, so the sink has to go
// in before any test logs through it
func TestMain(m *testing.M) {
	logger.Init(logger.Options{
		Level:  "debug",
		Format: "json",
		Writer: zerolog.SyncWriter(&logSink),
	})
	os.Exit(m.Run())
}

func TestRunLogsUnmatchedEvent(t *testing.T) {
	logSink.Reset()

	rollups := steadyWindows()
	// leader flips but nobody subscribed to alerts at all
	rollups.recent[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 2, Name: "Glass Harbor", Revenue: 90}}
	rollups.baseline[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 1, Name: "Neon Mirage", Revenue: 500}}

	disp := &fakeDisp{}
	svc := newRunner(rollups, &fakeSubs{}, disp)

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(sum.Events) != 1 || sum.Jobs != 0 || len(disp.sent) != 0 {
		t.Fatalf("event without takers must produce no jobs: %+v", sum)
	}
	out := logSink.String()
	kit.MustContain(t, out, "no subscribers matched")
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "no subscribers matched") && !strings.Contains(line, `"level":"info"`) {
			t.Fatalf("unmatched event must log at info: %s", line)
		}
	}
}

func TestRunMatchedEventNotFlaggedUnmatched(t *testing.T) {
	logSink.Reset()

	rollups := steadyWindows()
	rollups.recent[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 2, Name: "Glass Harbor", Revenue: 90}}
	rollups.baseline[rolldom.DimensionArtist] = []rolldom.Rollup{{ID: 1, Name: "Neon Mirage", Revenue: 500}}

	subs := &fakeSubs{general: []subdom.Recipient{{SubscriberID: 1, Email: "a@b.co"}}}
	svc := newRunner(rollups, subs, &fakeDisp{})

	sum, err := svc.Run(context.Background(), anchor)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sum.Sent != 1 {
		t.Fatalf("expected one delivery, got %d", sum.Sent)
	}
	if out := logSink.String(); strings.Contains(out, "no subscribers matched") {
		t.Fatalf("matched event logged as unmatched:\n%s", out)
	}
}
