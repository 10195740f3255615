// Package mail renders and delivers alert notification emails
package mail

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bandwatch/internal/services/alerts/domain"
)

// Message is one rendered email
type Message struct {
	To      string
	Subject string
	Body    string
}

// Composer renders events into plain text emails
type Composer struct {
	// WindowHours is the full comparison span quoted in change alerts
	WindowHours float64
	// RecentMinutes is the recent span quoted in growth alerts
	RecentMinutes float64

	title cases.Caser
}

// NewComposer builds a composer with the given window spans
func NewComposer(windowHours, recentMinutes float64) *Composer {
	return &Composer{
		WindowHours:   windowHours,
		RecentMinutes: recentMinutes,
		title:         cases.Title(language.English),
	}
}

// Compose renders the email for one job
func (c *Composer) Compose(job domain.Job) Message {
	ev := job.Event
	switch ev.Kind {
	case domain.EventTopArtistChanged:
		return Message{
			To:      job.Recipient.Email,
			Subject: "Top Artist Change Alert",
			Body: fmt.Sprintf(
				"The artist with the most sales in the last %g hours has changed!\nThe new number 1 artist is %s.",
				c.WindowHours, ev.NewValue),
		}
	case domain.EventTopGenreChanged:
		return Message{
			To:      job.Recipient.Email,
			Subject: "Top Genre Change Alert",
			Body: fmt.Sprintf(
				"The genre with the most sales in the last %g hours has changed!\nThe new number 1 genre is '%s'.",
				c.WindowHours, ev.NewValue),
		}
	case domain.EventGenreSpike:
		var tops strings.Builder
		for _, a := range ev.TopArtists {
			fmt.Fprintf(&tops, "  - %s: $%.2f\n", a.Name, a.Revenue)
		}
		return Message{
			To:      job.Recipient.Email,
			Subject: fmt.Sprintf("%s Growth Alert", c.title.String(ev.Subject)),
			Body: fmt.Sprintf(
				"Your subscribed genre '%s' has seen a %.1f%% increase in sales in the last %g minutes!\n\n"+
					"The current top selling artists in %s are:\n%s",
				ev.Subject, ev.DeltaPct*100, c.RecentMinutes, ev.Subject, tops.String()),
		}
	}
	return Message{To: job.Recipient.Email, Subject: "Alert", Body: ""}
}
