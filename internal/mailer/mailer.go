// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mailer sends transactional email over SMTP. Delivery is always
// best-effort: the contact form must succeed even when the mail server is
// down or unconfigured, so failures are logged and swallowed.
package mailer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"studiosite/internal/models"
)

// Mailer delivers notification email for contact-form submissions. A nil
// client means SMTP is not configured and every send becomes a logged no-op.
type Mailer struct {
	client  *mail.Client
	from    string
	adminTo string
	company string
}

// New creates a Mailer. Returns a disabled (but usable) Mailer when host
// is empty.
func New(host string, port int, user, password, from, adminTo, company string) (*Mailer, error) {
	m := &Mailer{from: from, adminTo: adminTo, company: company}
	if host == "" || from == "" {
		slog.Info("smtp not configured, contact notifications disabled")
		return m, nil
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	m.client = client
	return m, nil
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.client != nil
}

// NotifyContact emails the admin inbox about a new lead and sends the lead
// a short confirmation. Errors are logged and never returned; the
// submission was already stored.
func (m *Mailer) NotifyContact(c *models.Contact) {
	if m.client == nil {
		slog.Debug("contact notification skipped, smtp disabled", "contact_id", c.ID)
		return
	}

	if m.adminTo != "" {
		m.send(c, m.adminTo,
			fmt.Sprintf("[%s] New contact from %s", m.company, c.FullName()),
			contactBody(c))
	}
	m.send(c, c.Email,
		fmt.Sprintf("Thanks for reaching out to %s", m.company),
		confirmationBody(c, m.company))
}

func (m *Mailer) send(c *models.Contact, to, subject, body string) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		slog.Warn("mail from address invalid", "error", err)
		return
	}
	if err := msg.To(to); err != nil {
		slog.Warn("mail to address invalid", "error", err)
		return
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSend(msg); err != nil {
		slog.Warn("mail delivery failed", "contact_id", c.ID, "to", to, "error", err)
		return
	}
	slog.Info("mail sent", "contact_id", c.ID, "to", to)
}

// contactBody renders the plain-text notification for a lead.
func contactBody(c *models.Contact) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New contact form submission\n\n")
	fmt.Fprintf(&b, "Name:    %s\n", c.FullName())
	fmt.Fprintf(&b, "Email:   %s\n", c.Email)
	if c.Phone != nil {
		fmt.Fprintf(&b, "Phone:   %s\n", *c.Phone)
	}
	if c.Company != nil {
		fmt.Fprintf(&b, "Company: %s\n", *c.Company)
	}
	fmt.Fprintf(&b, "Project: %s\n", c.ProjectType)
	if c.Budget != nil {
		fmt.Fprintf(&b, "Budget:  %s\n", *c.Budget)
	}
	if c.Timeline != nil {
		fmt.Fprintf(&b, "Timeline: %s\n", *c.Timeline)
	}
	fmt.Fprintf(&b, "\nDetails:\n%s\n", c.ProjectDetails)
	fmt.Fprintf(&b, "\nSubmitted from %s (%s, %s)\n", c.IPAddress, c.UABrowser, c.UAOS)
	return b.String()
}

// confirmationBody renders the plain-text confirmation sent to the lead.
func confirmationBody(c *models.Contact, company string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", c.FirstName)
	fmt.Fprintf(&b, "Thanks for getting in touch about your %s project.\n", c.ProjectType)
	fmt.Fprintf(&b, "We have received your message and will reply within one business day.\n\n")
	fmt.Fprintf(&b, "The %s team\n", company)
	return b.String()
}
