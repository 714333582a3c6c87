// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify sends the site owner an email for every new contact
// message or care inquiry.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"

	"caresite/internal/models"
)

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer delivers submission notifications over SMTP.
type Mailer struct {
	dialer sender
	from   string
}

// NewMailer creates a mailer for the given SMTP server.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

var submissionTmpl = template.Must(template.New("submission").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>New {{.Kind}} submission</h2>
	<p><strong>Name:</strong> {{.Name}}<br>
	<strong>Email:</strong> {{.Email}}
	{{- with .Phone}}<br><strong>Phone:</strong> {{.}}{{end}}
	{{- with .CareRecipient}}<br><strong>Care for:</strong> {{.}}{{end}}
	{{- with .PreferredStart}}<br><strong>Preferred start:</strong> {{.}}{{end}}</p>
	<p style="white-space: pre-wrap;">{{.Message}}</p>
</div>
`))

// Message builds the notification for s addressed to to.
func (m *Mailer) Message(to string, s *models.Submission) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := submissionTmpl.Execute(&body, s); err != nil {
		return nil, fmt.Errorf("render notification: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Reply-To", s.Email)
	msg.SetHeader("Subject", fmt.Sprintf("New %s from %s", s.Kind, s.Name))
	msg.SetBody("text/html", body.String())
	return msg, nil
}

// SubmissionReceived notifies to about s.
func (m *Mailer) SubmissionReceived(to string, s *models.Submission) error {
	msg, err := m.Message(to, s)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	slog.Info("submission notification sent", "kind", s.Kind, "id", s.ID)
	return nil
}
