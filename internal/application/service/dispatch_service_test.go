package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/event"
	"github.com/sangkips/pressing-api/pkg/locale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransport struct {
	channel enum.DispatchChannel
	sent    []OutboundMessage
	err     error
}

func (f *fakeTransport) Channel() enum.DispatchChannel { return f.channel }

func (f *fakeTransport) Send(_ context.Context, msg OutboundMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return fmt.Sprintf("msg-%d", len(f.sent)), nil
}

func messageDeposit() *entity.Deposit {
	return &entity.Deposit{
		DepositNumber:   "DEP-0042",
		CustomerName:    "Awa Ndiaye",
		CustomerPhone:   "+237690000001",
		CollectionDate:  day0,
		Currency:        "XAF",
		TotalAmount:     dec(12500),
		PaidAmount:      dec(5000),
		RemainingAmount: dec(7500),
		PaymentStatus:   enum.PaymentStatusPartial,
		TenantName:      "Pressing Étoile",
		AgencyName:      "Akwa",
		Items: []entity.DepositItem{
			{Name: "Chemise", Quantity: 3},
			{Name: "Costume", Quantity: 2},
		},
	}
}

func TestBuildMessage(t *testing.T) {
	fm := locale.MustNew("XAF", "fr-FR", "Africa/Douala")

	got := BuildMessage(messageDeposit(), enum.ReceiptTypeDeposit, fm)
	want := strings.Join([]string{
		"Bonjour Awa Ndiaye,",
		"Reçu de dépôt n° DEP-0042",
		"Articles : 5",
		"Total : 12\u202f500\u00a0FCFA",
		"Reste à payer : 7\u202f500\u00a0FCFA",
		"Date : 02/03/2026",
		"Pressing Étoile - Akwa",
	}, "\n")
	assert.Equal(t, want, got)

	// Deterministic for the same input.
	assert.Equal(t, got, BuildMessage(messageDeposit(), enum.ReceiptTypeDeposit, fm))
}

func TestBuildMessage_PaidDelivery(t *testing.T) {
	fm := locale.MustNew("XAF", "fr-FR", "Africa/Douala")
	d := messageDeposit()
	d.PaidAmount = d.TotalAmount
	d.RemainingAmount = dec(0)
	d.PaymentStatus = enum.PaymentStatusPaid
	d.AgencyName = ""
	delivered := day0.AddDate(0, 0, 4)
	d.DeliveredAt = &delivered

	got := BuildMessage(d, enum.ReceiptTypeDelivery, fm)
	assert.Contains(t, got, "Bon de livraison n° DEP-0042")
	assert.NotContains(t, got, "Reste à payer")
	assert.Contains(t, got, "Date : 06/03/2026")
	assert.True(t, strings.HasSuffix(got, "\nPressing Étoile"))
}

type dispatchFixture struct {
	env      *testEnv
	svc      *DispatchService
	whatsapp *fakeTransport
	deposit  *entity.Deposit
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	env := newTestEnv(t)
	deposit, err := env.depositService.CreateDeposit(env.ctx, intake())
	require.NoError(t, err)

	wa := &fakeTransport{channel: enum.DispatchChannelWhatsApp}
	svc := NewDispatchService(env.deposits, env.tenants, env.dispatchLogs, env.events, zap.NewNop(), wa)
	clock := day0
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return &dispatchFixture{env: env, svc: svc, whatsapp: wa, deposit: deposit}
}

func TestDispatchService_Message(t *testing.T) {
	f := newDispatchFixture(t)

	msg, err := f.svc.Message(f.env.ctx, f.deposit.ID, enum.ReceiptTypeDeposit)
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Reçu de dépôt n° DEP-0001")
	assert.True(t, strings.HasPrefix(msg.WhatsAppLink, "https://wa.me/237690000001?text=Bonjour%20Awa"))

	_, err = f.svc.Message(f.env.ctx, f.deposit.ID, enum.ReceiptType("QUOTE"))
	requireAppError(t, err, http.StatusBadRequest)
}

func TestDispatchService_Dispatch(t *testing.T) {
	f := newDispatchFixture(t)
	actor := uuid.New()

	idle, err := f.svc.LastOutcome(f.env.ctx, f.deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DispatchStatusIdle, idle.Status)

	outcome, err := f.svc.Dispatch(f.env.ctx, &DispatchInput{
		DepositID: f.deposit.ID, Type: enum.ReceiptTypeDeposit, Channel: enum.DispatchChannelWhatsApp, ActorID: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.DispatchStatusSuccess, outcome.Status)
	assert.Equal(t, "msg-1", outcome.MessageID)
	assert.Equal(t, "+237690000001", outcome.Recipient)

	require.Len(t, f.whatsapp.sent, 1)
	assert.Contains(t, f.whatsapp.sent[0].Text, "Total : 38\u00a0FCFA")
	assert.Equal(t, "Reçu de dépôt DEP-0001 - Pressing Étoile", f.whatsapp.sent[0].Subject)

	last, err := f.svc.LastOutcome(f.env.ctx, f.deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DispatchStatusSuccess, last.Status)
	assert.Equal(t, "msg-1", last.MessageID)

	dispatched := f.env.events.last().(event.ReceiptDispatched)
	assert.Equal(t, "success", dispatched.Status)
	assert.Equal(t, "WHATSAPP", dispatched.Channel)

	history, err := f.svc.History(f.env.ctx, f.deposit.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, actor, history[0].AttemptedByID)
	assert.Equal(t, "DEP-0001", history[0].Metadata["deposit_number"])
}

func TestDispatchService_DispatchFailureIsReported(t *testing.T) {
	f := newDispatchFixture(t)
	f.whatsapp.err = errors.New("gateway returned 503")

	outcome, err := f.svc.Dispatch(f.env.ctx, &DispatchInput{
		DepositID: f.deposit.ID, Type: enum.ReceiptTypePayment, Channel: enum.DispatchChannelWhatsApp,
	})
	requireAppError(t, err, http.StatusBadGateway)
	require.NotNil(t, outcome)
	assert.Equal(t, enum.DispatchStatusError, outcome.Status)
	assert.Equal(t, "gateway returned 503", outcome.Error)

	last, err := f.svc.LastOutcome(f.env.ctx, f.deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DispatchStatusError, last.Status)

	// An explicit repeat by the operator is a new attempt.
	f.whatsapp.err = nil
	outcome, err = f.svc.Dispatch(f.env.ctx, &DispatchInput{
		DepositID: f.deposit.ID, Type: enum.ReceiptTypePayment, Channel: enum.DispatchChannelWhatsApp,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.DispatchStatusSuccess, outcome.Status)

	last, err = f.svc.LastOutcome(f.env.ctx, f.deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.DispatchStatusSuccess, last.Status)

	history, err := f.svc.History(f.env.ctx, f.deposit.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestDispatchService_ChannelWithoutTransport(t *testing.T) {
	f := newDispatchFixture(t)

	outcome, err := f.svc.Dispatch(f.env.ctx, &DispatchInput{
		DepositID: f.deposit.ID, Type: enum.ReceiptTypeDeposit, Channel: enum.DispatchChannelEmail, Recipient: "awa@example.cm",
	})
	requireAppError(t, err, http.StatusBadGateway)
	assert.ErrorIs(t, err, ErrTransportNotConfigured)
	assert.Equal(t, enum.DispatchStatusError, outcome.Status)
	assert.Equal(t, "awa@example.cm", outcome.Recipient)
}

func TestDispatchService_Validation(t *testing.T) {
	f := newDispatchFixture(t)

	_, err := f.svc.Dispatch(f.env.ctx, &DispatchInput{DepositID: f.deposit.ID, Type: enum.ReceiptTypeDeposit, Channel: "SMS"})
	requireAppError(t, err, http.StatusUnprocessableEntity)

	// The customer left no email address.
	_, err = f.svc.Dispatch(f.env.ctx, &DispatchInput{DepositID: f.deposit.ID, Type: enum.ReceiptTypeDeposit, Channel: enum.DispatchChannelEmail})
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, "recipient", appErr.Errors[0].Field)

	settings := f.env.tenant.Settings
	settings.WhatsAppEnabled = false
	require.NoError(t, f.env.tenants.UpdateSettings(f.env.ctx, f.env.tenant.ID, settings))
	_, err = f.svc.Dispatch(f.env.ctx, &DispatchInput{DepositID: f.deposit.ID, Type: enum.ReceiptTypeDeposit, Channel: enum.DispatchChannelWhatsApp})
	requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Empty(t, f.whatsapp.sent)

	_, err = f.svc.LastOutcome(f.env.ctx, uuid.New())
	requireAppError(t, err, http.StatusNotFound)
}
