package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"bandwatch/internal/platform/config"
	"bandwatch/internal/platform/logger"
	"bandwatch/internal/services/alerts/domain"
)

// Options configures the mail dispatcher
type Options struct {
	// Driver selects the transport: "smtp" or "log"
	Driver   string
	Host     string
	Port     int
	From     string
	Password string

	// WindowHours and RecentMinutes feed the composer
	WindowHours   float64
	RecentMinutes float64
}

// FromConfig reads CORE_MAIL_* settings. The composer spans come from the
// alert engine windows so the email copy always matches what was measured.
func FromConfig(cfg config.Conf) Options {
	m := cfg.Prefix("CORE_MAIL_")
	a := cfg.Prefix("CORE_ALERTS_")
	return Options{
		Driver:        m.MayString("DRIVER", "log"),
		Host:          m.MayString("HOST", "smtp.gmail.com"),
		Port:          m.MayInt("PORT", 587),
		From:          m.MayString("FROM", ""),
		Password:      m.MayString("PASSWORD", ""),
		WindowHours:   a.MayDuration("BASELINE", 48*time.Hour).Hours(),
		RecentMinutes: a.MayDuration("RECENT", time.Hour).Minutes(),
	}
}

// New builds the dispatcher selected by opts.Driver
func New(opts Options) (domain.DispatcherPort, error) {
	comp := NewComposer(opts.WindowHours, opts.RecentMinutes)
	switch strings.ToLower(opts.Driver) {
	case "", "log":
		return &LogDispatcher{comp: comp}, nil
	case "smtp":
		if opts.Host == "" || opts.From == "" {
			return nil, fmt.Errorf("mail: smtp driver requires host and from address")
		}
		return &SMTPDispatcher{
			addr: fmt.Sprintf("%s:%d", opts.Host, opts.Port),
			auth: smtp.PlainAuth("", opts.From, opts.Password, opts.Host),
			from: opts.From,
			comp: comp,
		}, nil
	default:
		return nil, fmt.Errorf("mail: unknown driver %q", opts.Driver)
	}
}

// SMTPDispatcher sends alert emails over authenticated SMTP.
// SendMail negotiates STARTTLS when the server advertises it.
type SMTPDispatcher struct {
	addr string
	auth smtp.Auth
	from string
	comp *Composer
}

// Send delivers one job as an email
func (d *SMTPDispatcher) Send(ctx context.Context, job domain.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := d.comp.Compose(job)
	raw := encode(d.from, msg)
	if err := smtp.SendMail(d.addr, d.auth, d.from, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	logger.C(ctx).Debug().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("alert email sent")
	return nil
}

func encode(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
