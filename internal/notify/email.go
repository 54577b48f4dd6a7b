// Package notify delivers status-change emails to buyers.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"bulk-order-api-server/config"
	"bulk-order-api-server/internal/events"
	"bulk-order-api-server/internal/models"

	"github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through the configured relay.
type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return s.client.DialAndSendWithContext(ctx, m)
}

var statusEmail = template.Must(template.New("status").Parse(`<h2>Bulk Order Update</h2>
<p>Hello {{.Name}},</p>
<p>Your bulk order request has been <strong>{{.StatusLower}}</strong>.</p>
<p><strong>Order ID:</strong> {{.OrderID}}</p>
<p><strong>Reference:</strong> {{.Reference}}</p>
<p><strong>Status:</strong> {{.Status}}</p>
{{- if .Approved}}
<p>Great news! Your bulk order has been approved. Our team will contact you soon to discuss the details and next steps.</p>
{{- if .AdminNotes}}
<p><strong>Notes:</strong> {{.AdminNotes}}</p>
{{- end}}
{{- else if .Rejected}}
<p>We regret to inform you that your bulk order request has been declined.</p>
{{- if .RejectionReason}}
<p><strong>Reason:</strong> {{.RejectionReason}}</p>
{{- end}}
{{- end}}
<p>Thank you for your interest in our products.</p>
<p>Best regards,<br>Casual Clothings Team</p>
`))

// Compose renders the buyer email for a status change.
func Compose(evt events.Event) (Message, error) {
	data := struct {
		events.Event
		StatusLower string
		Approved    bool
		Rejected    bool
	}{
		Event:       evt,
		StatusLower: strings.ToLower(string(evt.Status)),
		Approved:    evt.Status == models.StatusApproved,
		Rejected:    evt.Status == models.StatusRejected,
	}

	var body bytes.Buffer
	if err := statusEmail.Execute(&body, data); err != nil {
		return Message{}, err
	}
	return Message{
		To:      evt.Email,
		Subject: fmt.Sprintf("Bulk Order %s - %s", evt.Status, evt.OrderID),
		HTML:    body.String(),
	}, nil
}

// EmailNotifier is the events.Handler that emails the buyer on every status
// change. Other event types are ignored.
type EmailNotifier struct {
	sender Sender
}

func NewEmailNotifier(sender Sender) *EmailNotifier { return &EmailNotifier{sender: sender} }

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Handle(ctx context.Context, evt events.Event) error {
	if evt.Type != events.TypeStatusChanged {
		return nil
	}
	if evt.Email == "" {
		return fmt.Errorf("order %s has no contact email", evt.Reference)
	}
	msg, err := Compose(evt)
	if err != nil {
		return fmt.Errorf("compose status email: %w", err)
	}
	return n.sender.Send(ctx, msg)
}

var _ events.Handler = (*EmailNotifier)(nil)
