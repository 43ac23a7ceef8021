package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/email"
	"github.com/sangkips/pressing-api/pkg/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWhatsApp struct {
	mock.Mock
}

func (m *mockWhatsApp) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *mockWhatsApp) SendText(ctx context.Context, phone, body string) (string, error) {
	args := m.Called(ctx, phone, body)
	return args.String(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *mockMailer) SendReceipt(ctx context.Context, r email.Receipt) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

var msg = service.OutboundMessage{
	Recipient: "+237690000001",
	Subject:   "Reçu de dépôt DEP-0001 - Pressing Étoile",
	Title:     "Reçu de dépôt",
	Text:      "Bonjour Awa Ndiaye,",
	Business:  "Pressing Étoile",
}

func TestWhatsAppTransport_Send(t *testing.T) {
	client := new(mockWhatsApp)
	client.On("IsConfigured").Return(true)
	client.On("SendText", mock.Anything, "+237690000001", "Bonjour Awa Ndiaye,").Return("wamid.1", nil)

	transport := NewWhatsAppTransport(client)
	assert.Equal(t, enum.DispatchChannelWhatsApp, transport.Channel())

	id, err := transport.Send(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", id)
	client.AssertExpectations(t)
}

func TestWhatsAppTransport_NotConfigured(t *testing.T) {
	client := new(mockWhatsApp)
	client.On("IsConfigured").Return(false)

	_, err := NewWhatsAppTransport(client).Send(context.Background(), msg)
	assert.ErrorIs(t, err, whatsapp.ErrNotConfigured)
	client.AssertNotCalled(t, "SendText", mock.Anything, mock.Anything, mock.Anything)
}

func TestEmailTransport_Send(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("IsConfigured").Return(true)
	mailer.On("SendReceipt", mock.Anything, email.Receipt{
		To:       "+237690000001",
		Subject:  msg.Subject,
		Title:    msg.Title,
		Text:     msg.Text,
		Business: msg.Business,
	}).Return("<1@pressing.cm>", nil)

	transport := NewEmailTransport(mailer)
	assert.Equal(t, enum.DispatchChannelEmail, transport.Channel())

	id, err := transport.Send(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "<1@pressing.cm>", id)
	mailer.AssertExpectations(t)
}

func TestEmailTransport_Failure(t *testing.T) {
	mailer := new(mockMailer)
	mailer.On("IsConfigured").Return(true)
	mailer.On("SendReceipt", mock.Anything, mock.Anything).Return("", errors.New("smtp: 550 mailbox unavailable"))

	_, err := NewEmailTransport(mailer).Send(context.Background(), msg)
	assert.EqualError(t, err, "smtp: 550 mailbox unavailable")
}
