// Package notification adapts the WhatsApp gateway and the SMTP mailer to the
// receipt dispatch transports.
package notification

import (
	"context"

	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/email"
	"github.com/sangkips/pressing-api/pkg/whatsapp"
)

// WhatsAppSender is the part of the gateway client used for receipts.
type WhatsAppSender interface {
	IsConfigured() bool
	SendText(ctx context.Context, phone, body string) (string, error)
}

// WhatsAppTransport sends receipt messages through the WhatsApp gateway.
type WhatsAppTransport struct {
	client WhatsAppSender
}

// NewWhatsAppTransport creates a transport over client
func NewWhatsAppTransport(client WhatsAppSender) *WhatsAppTransport {
	return &WhatsAppTransport{client: client}
}

func (t *WhatsAppTransport) Channel() enum.DispatchChannel { return enum.DispatchChannelWhatsApp }

func (t *WhatsAppTransport) Send(ctx context.Context, msg service.OutboundMessage) (string, error) {
	if !t.client.IsConfigured() {
		return "", whatsapp.ErrNotConfigured
	}
	return t.client.SendText(ctx, msg.Recipient, msg.Text)
}

// Mailer is the part of the email service used for receipts.
type Mailer interface {
	IsConfigured() bool
	SendReceipt(ctx context.Context, r email.Receipt) (string, error)
}

// EmailTransport sends receipt messages by email.
type EmailTransport struct {
	mailer Mailer
}

// NewEmailTransport creates a transport over mailer
func NewEmailTransport(mailer Mailer) *EmailTransport {
	return &EmailTransport{mailer: mailer}
}

func (t *EmailTransport) Channel() enum.DispatchChannel { return enum.DispatchChannelEmail }

func (t *EmailTransport) Send(ctx context.Context, msg service.OutboundMessage) (string, error) {
	if !t.mailer.IsConfigured() {
		return "", email.ErrNotConfigured
	}
	return t.mailer.SendReceipt(ctx, email.Receipt{
		To:       msg.Recipient,
		Subject:  msg.Subject,
		Title:    msg.Title,
		Text:     msg.Text,
		Business: msg.Business,
	})
}

var (
	_ service.Transport = (*WhatsAppTransport)(nil)
	_ service.Transport = (*EmailTransport)(nil)
)
