// Package mail delivers contact form notifications over SMTP.
package mail

import (
	"bytes"
	"context"
	"html/template"
	stdmail "net/mail"
	"strings"
	"time"

	gomail "github.com/go-mail/mail"
	"github.com/mehmetcc/nursery/internal/config"
	"github.com/pkg/errors"
)

const defaultDialTimeout = 10 * time.Second

var ErrDisabled = errors.New("mail is not configured")

type Message struct {
	Name    string
	Email   string
	Phone   string
	Body    string
	Subject string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var notificationTemplate = template.Must(template.New("contact").Parse(`<h2>New contact form submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{- if .Phone}}
<p><strong>Phone:</strong> {{.Phone}}</p>
{{- end}}
<p><strong>Message:</strong></p>
<p>{{.Body}}</p>
`))

// Compose builds the notification addressed to the site owner. The visitor's
// address becomes Reply-To when it parses.
func Compose(from, to string, msg Message) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := notificationTemplate.Execute(&body, msg); err != nil {
		return nil, errors.Wrap(err, "failed to render mail body")
	}

	subject := msg.Subject
	if subject == "" {
		subject = "New contact from " + msg.Name
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, "Nursery website")
	m.SetHeader("To", to)
	m.SetHeader("Subject", singleLine(subject))
	if addr, err := stdmail.ParseAddress(msg.Email); err == nil {
		m.SetAddressHeader("Reply-To", addr.Address, singleLine(msg.Name))
	}
	m.SetDateHeader("Date", time.Now())
	m.SetBody("text/html", body.String())
	return m, nil
}

// singleLine keeps user input from starting a new header.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

type smtpSender struct {
	dialer   *gomail.Dialer
	from     string
	receiver string
	send     func(d *gomail.Dialer, m *gomail.Message) error
}

func NewSMTPSender(cfg *config.MailConfig) Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = defaultDialTimeout

	from := cfg.Username
	if from == "" {
		from = cfg.Receiver
	}
	return &smtpSender{
		dialer:   d,
		from:     from,
		receiver: cfg.Receiver,
		send: func(d *gomail.Dialer, m *gomail.Message) error {
			return d.DialAndSend(m)
		},
	}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if s.dialer.Host == "" || s.receiver == "" {
		return ErrDisabled
	}

	m, err := Compose(s.from, s.receiver, msg)
	if err != nil {
		return err
	}

	d := *s.dialer
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < d.Timeout {
			d.Timeout = remaining
		}
	}

	// DialAndSend takes no context; run it aside so the caller's deadline holds.
	done := make(chan error, 1)
	go func() {
		done <- s.send(&d, m)
	}()
	select {
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, "failed to send mail")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
