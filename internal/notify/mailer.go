package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"text/template"
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer emails every recipient of an event through an SMTP relay.
type Mailer struct {
	cfg  SMTPConfig
	send sendFunc
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

var (
	subjects = map[Type]*template.Template{
		ApprovalRequired: template.Must(template.New("s").Parse(`Approval required: {{.description}}`)),
		ExpenseApproved:  template.Must(template.New("s").Parse(`Your expense was approved: {{.description}}`)),
		ExpenseRejected:  template.Must(template.New("s").Parse(`Your expense was rejected: {{.description}}`)),
		UserInvited:      template.Must(template.New("s").Parse(`You're invited to join {{.company}}`)),
	}

	bodies = map[Type]*template.Template{
		ApprovalRequired: template.Must(template.New("b").Parse(`Hello {{.recipient}},

{{.submitter}} submitted an expense that needs your approval.

Description: {{.description}}
Amount: {{.amount}} {{.currency}}
`)),
		ExpenseApproved: template.Must(template.New("b").Parse(`Hello {{.recipient}},

Your expense "{{.description}}" ({{.amount}} {{.currency}}) has been approved.
{{with .comments}}
Comments: {{.}}
{{end}}`)),
		ExpenseRejected: template.Must(template.New("b").Parse(`Hello {{.recipient}},

Your expense "{{.description}}" ({{.amount}} {{.currency}}) has been rejected.

Reason: {{.reason}}
`)),
		UserInvited: template.Must(template.New("b").Parse(`Hello {{.recipient}},

You have been invited to join {{.company}} on Outlay.

Accept the invitation: {{.invitation_url}}

This invitation expires in 7 days.
`)),
	}
)

func (m *Mailer) Notify(_ context.Context, events ...Event) error {
	var errs []error

	for _, e := range events {
		for _, r := range e.Recipients {
			if r.Email == "" {
				continue
			}

			msg, err := m.render(e, r)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			if err := m.deliver(r.Email, msg); err != nil {
				errs = append(errs, fmt.Errorf("sending %s email to %s: %w", e.Type, r.Email, err))
			}
		}
	}

	return errors.Join(errs...)
}

func (m *Mailer) render(e Event, r Recipient) ([]byte, error) {
	subjectTmpl, ok := subjects[e.Type]
	if !ok {
		return nil, fmt.Errorf("no email template for %s", e.Type)
	}

	data := make(map[string]any, len(e.Payload)+1)
	for k, v := range e.Payload {
		data[k] = v
	}

	data["recipient"] = r.Name

	var subject, body bytes.Buffer
	if err := subjectTmpl.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("rendering subject: %w", err)
	}

	if err := bodies[e.Type].Execute(&body, data); err != nil {
		return nil, fmt.Errorf("rendering body: %w", err)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", r.Email)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject.String())
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body.Bytes())

	return []byte(msg.String()), nil
}

func (m *Mailer) deliver(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	return m.send(addr, auth, m.cfg.From, []string{to}, msg)
}
