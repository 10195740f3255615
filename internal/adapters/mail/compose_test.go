package mail

import (
	"strings"
	"testing"

	"bandwatch/internal/services/alerts/domain"
	subdom "bandwatch/internal/services/subscribers/domain"
)

func job(ev domain.Event) domain.Job {
	return domain.Job{
		Event:     ev,
		Recipient: subdom.Recipient{SubscriberID: 7, Email: "fan@example.com"},
	}
}

func TestComposeTopArtistChange(t *testing.T) {
	c := NewComposer(48, 60)
	msg := c.Compose(job(domain.Event{
		Kind:       domain.EventTopArtistChanged,
		PriorValue: "Old Band",
		NewValue:   "New Band",
	}))

	if msg.To != "fan@example.com" {
		t.Fatalf("to = %q", msg.To)
	}
	if msg.Subject != "Top Artist Change Alert" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "last 48 hours") {
		t.Fatalf("body missing window: %q", msg.Body)
	}
	if !strings.Contains(msg.Body, "The new number 1 artist is New Band.") {
		t.Fatalf("body missing new leader: %q", msg.Body)
	}
}

func TestComposeTopGenreChange(t *testing.T) {
	c := NewComposer(48, 60)
	msg := c.Compose(job(domain.Event{
		Kind:     domain.EventTopGenreChanged,
		NewValue: "jazz",
	}))

	if msg.Subject != "Top Genre Change Alert" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "number 1 genre is 'jazz'") {
		t.Fatalf("body = %q", msg.Body)
	}
}

func TestComposeGenreSpike(t *testing.T) {
	c := NewComposer(48, 60)
	msg := c.Compose(job(domain.Event{
		Kind:     domain.EventGenreSpike,
		Subject:  "acid jazz",
		DeltaPct: 0.413,
		TopArtists: []domain.TopArtist{
			{ID: 1, Name: "Alpha", Revenue: 120.5},
			{ID: 2, Name: "Beta", Revenue: 80},
		},
	}))

	if msg.Subject != "Acid Jazz Growth Alert" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	for _, want := range []string{
		"Your subscribed genre 'acid jazz'",
		"41.3% increase",
		"last 60 minutes",
		"  - Alpha: $120.50",
		"  - Beta: $80.00",
	} {
		if !strings.Contains(msg.Body, want) {
			t.Fatalf("body missing %q:\n%s", want, msg.Body)
		}
	}
}

func TestNewSelectsDriver(t *testing.T) {
	if _, err := New(Options{Driver: "log"}); err != nil {
		t.Fatalf("log driver: %v", err)
	}
	if _, err := New(Options{Driver: "smtp"}); err == nil {
		t.Fatal("smtp driver without host should fail")
	}
	if _, err := New(Options{Driver: "carrier-pigeon"}); err == nil {
		t.Fatal("unknown driver should fail")
	}
}
