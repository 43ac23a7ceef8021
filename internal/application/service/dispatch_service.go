package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/event"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/locale"
	"github.com/sangkips/pressing-api/pkg/whatsapp"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ErrTransportNotConfigured is the outcome of a dispatch on a channel without a transport.
var ErrTransportNotConfigured = errors.New("no transport configured for this channel")

// OutboundMessage is what a transport delivers to the customer.
type OutboundMessage struct {
	Recipient string
	Subject   string
	Title     string
	Text      string
	Business  string
}

// Transport hands receipt messages to an external delivery service.
type Transport interface {
	Channel() enum.DispatchChannel
	// Send delivers msg and returns the provider's message id.
	Send(ctx context.Context, msg OutboundMessage) (string, error)
}

// DispatchService builds receipt messages and sends them to customers.
type DispatchService struct {
	depositRepo repository.DepositRepository
	tenantRepo  repository.TenantRepository
	logRepo     repository.DispatchLogRepository
	transports  map[enum.DispatchChannel]Transport
	events      event.Publisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewDispatchService creates a new dispatch service. A channel without a transport
// produces error outcomes.
func NewDispatchService(
	depositRepo repository.DepositRepository,
	tenantRepo repository.TenantRepository,
	logRepo repository.DispatchLogRepository,
	events event.Publisher,
	logger *zap.Logger,
	transports ...Transport,
) *DispatchService {
	byChannel := make(map[enum.DispatchChannel]Transport, len(transports))
	for _, t := range transports {
		byChannel[t.Channel()] = t
	}
	return &DispatchService{
		depositRepo: depositRepo,
		tenantRepo:  tenantRepo,
		logRepo:     logRepo,
		transports:  byChannel,
		events:      events,
		logger:      logger,
		now:         time.Now,
	}
}

// messageDate is the date a message refers to: intake for deposits, hand-over for
// deliveries, the last payment for payment receipts.
func messageDate(d *entity.Deposit, t enum.ReceiptType) time.Time {
	switch t {
	case enum.ReceiptTypeDelivery:
		if d.DeliveredAt != nil {
			return *d.DeliveredAt
		}
		if d.DeliveryDate != nil {
			return *d.DeliveryDate
		}
	case enum.ReceiptTypePayment:
		for i := len(d.Payments) - 1; i >= 0; i-- {
			if d.Payments[i].Kind == enum.PaymentKindPayment {
				return d.Payments[i].RecordedAt
			}
		}
	}
	return d.CollectionDate
}

// BuildMessage renders the plain-text summary sent to a customer. The output only
// depends on its arguments.
func BuildMessage(d *entity.Deposit, t enum.ReceiptType, fm *locale.Formatter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour %s,\n", d.CustomerName)
	fmt.Fprintf(&b, "%s n° %s\n", t.Label(), d.DepositNumber)
	fmt.Fprintf(&b, "Articles : %d\n", d.ItemCount())
	fmt.Fprintf(&b, "Total : %s\n", fm.Money(d.TotalAmount))
	if d.RemainingAmount.IsPositive() {
		fmt.Fprintf(&b, "Reste à payer : %s\n", fm.Money(d.RemainingAmount))
	}
	if d.PaymentStatus == enum.PaymentStatusRefunded {
		fmt.Fprintf(&b, "Remboursé : %s\n", fm.Money(d.RefundedAmount))
	}
	fmt.Fprintf(&b, "Date : %s\n", fm.Date(messageDate(d, t)))

	signature := d.TenantName
	if d.AgencyName != "" {
		signature += " - " + d.AgencyName
	}
	b.WriteString(signature)
	return b.String()
}

func (s *DispatchService) load(ctx context.Context, depositID uuid.UUID) (*entity.Deposit, entity.TenantSettings, *locale.Formatter, error) {
	_, settings, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return nil, settings, nil, err
	}
	deposit, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return nil, settings, nil, err
	}
	if deposit == nil {
		return nil, settings, nil, apperror.NewNotFoundError("Deposit")
	}
	fm, err := locale.New(deposit.Currency, settings.Locale, settings.Timezone)
	if err != nil {
		return nil, settings, nil, apperror.NewInternalError("Invalid tenant localization settings", err)
	}
	return deposit, settings, fm, nil
}

// Message is a receipt message with its WhatsApp deep link
type Message struct {
	Type         enum.ReceiptType `json:"type"`
	Text         string           `json:"text"`
	WhatsAppLink string           `json:"whatsapp_link,omitempty"`
}

// Message builds the message of a deposit for the operator to send by hand.
func (s *DispatchService) Message(ctx context.Context, depositID uuid.UUID, t enum.ReceiptType) (*Message, error) {
	if !t.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown receipt type")
	}
	deposit, _, fm, err := s.load(ctx, depositID)
	if err != nil {
		return nil, err
	}

	msg := &Message{Type: t, Text: BuildMessage(deposit, t, fm)}
	// A phone the gateway cannot read still gets its text, just no link.
	if link, err := whatsapp.Link(deposit.CustomerPhone, msg.Text); err == nil {
		msg.WhatsAppLink = link
	}
	return msg, nil
}

// DispatchInput represents a send request
type DispatchInput struct {
	DepositID uuid.UUID
	Type      enum.ReceiptType
	Channel   enum.DispatchChannel
	// Recipient overrides the customer's phone or email.
	Recipient string
	ActorID   uuid.UUID
}

// DispatchOutcome is the state of a deposit's last dispatch as shown to the operator
type DispatchOutcome struct {
	Status      enum.DispatchStatus  `json:"status"`
	Channel     enum.DispatchChannel `json:"channel,omitempty"`
	ReceiptType enum.ReceiptType     `json:"receipt_type,omitempty"`
	Recipient   string               `json:"recipient,omitempty"`
	MessageID   string               `json:"message_id,omitempty"`
	Error       string               `json:"error,omitempty"`
	AttemptedAt *time.Time           `json:"attempted_at,omitempty"`
}

func outcomeOf(l *entity.DispatchLog) *DispatchOutcome {
	o := &DispatchOutcome{
		Status:      l.Status,
		Channel:     l.Channel,
		ReceiptType: l.ReceiptType,
		Recipient:   l.Recipient,
		AttemptedAt: &l.CreatedAt,
	}
	if l.MessageID != nil {
		o.MessageID = *l.MessageID
	}
	if l.Error != nil {
		o.Error = *l.Error
	}
	return o
}

// Dispatch sends the receipt message on one channel and records the attempt. A failed
// delivery is stored, published and returned as an error outcome with a 502 error.
// Nothing is retried.
func (s *DispatchService) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutcome, error) {
	if !input.Type.IsValid() {
		return nil, apperror.NewFieldError("type", "Unknown receipt type")
	}
	if !input.Channel.IsValid() {
		return nil, apperror.NewFieldError("channel", "Unknown dispatch channel")
	}

	deposit, settings, fm, err := s.load(ctx, input.DepositID)
	if err != nil {
		return nil, err
	}
	if (input.Channel == enum.DispatchChannelWhatsApp && !settings.WhatsAppEnabled) ||
		(input.Channel == enum.DispatchChannelEmail && !settings.EmailEnabled) {
		return nil, apperror.NewFieldError("channel", "Channel is disabled for this tenant")
	}

	recipient := strings.TrimSpace(input.Recipient)
	if recipient == "" {
		switch input.Channel {
		case enum.DispatchChannelWhatsApp:
			recipient = deposit.CustomerPhone
		case enum.DispatchChannelEmail:
			if deposit.CustomerEmail != nil {
				recipient = *deposit.CustomerEmail
			}
		}
	}
	if recipient == "" {
		return nil, apperror.NewFieldError("recipient", "The customer has no address for this channel")
	}

	text := BuildMessage(deposit, input.Type, fm)
	msg := OutboundMessage{
		Recipient: recipient,
		Subject:   fmt.Sprintf("%s %s - %s", input.Type.Label(), deposit.DepositNumber, deposit.TenantName),
		Title:     input.Type.Label(),
		Text:      text,
		Business:  deposit.TenantName,
	}

	var messageID string
	sendErr := ErrTransportNotConfigured
	if transport, ok := s.transports[input.Channel]; ok {
		messageID, sendErr = transport.Send(ctx, msg)
	}

	attempt := &entity.DispatchLog{
		TenantID:      deposit.TenantID,
		DepositID:     deposit.ID,
		ReceiptType:   input.Type,
		Channel:       input.Channel,
		Recipient:     recipient,
		Status:        enum.DispatchStatusSuccess,
		AttemptedByID: input.ActorID,
		CreatedAt:     s.now(),
		Metadata: datatypes.JSONMap{
			"deposit_number": deposit.DepositNumber,
			"payment_status": deposit.PaymentStatus.String(),
			"text_length":    len(text),
		},
	}
	if sendErr != nil {
		reason := sendErr.Error()
		attempt.Status = enum.DispatchStatusError
		attempt.Error = &reason
	} else if messageID != "" {
		attempt.MessageID = &messageID
	}

	if err := s.logRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	s.logger.Info("Receipt dispatched",
		zap.String("deposit_number", deposit.DepositNumber),
		zap.String("channel", input.Channel.String()),
		zap.String("status", attempt.Status.String()),
		zap.String("message_id", messageID),
	)
	if err := s.events.Publish(ctx, event.NewReceiptDispatched(deposit.TenantID, deposit.ID,
		input.Type.String(), input.Channel.String(), attempt.Status.String(), messageID, attempt.CreatedAt)); err != nil {
		s.logger.Warn("Failed to publish event", zap.String("event_type", event.TypeReceiptDispatched), zap.Error(err))
	}

	outcome := outcomeOf(attempt)
	if sendErr != nil {
		return outcome, apperror.NewBadGatewayError("Receipt could not be delivered: "+sendErr.Error(), sendErr)
	}
	return outcome, nil
}

// LastOutcome returns the outcome of the latest dispatch, idle when none was attempted.
func (s *DispatchService) LastOutcome(ctx context.Context, depositID uuid.UUID) (*DispatchOutcome, error) {
	if err := s.exists(ctx, depositID); err != nil {
		return nil, err
	}
	latest, err := s.logRepo.Latest(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &DispatchOutcome{Status: enum.DispatchStatusIdle}, nil
	}
	return outcomeOf(latest), nil
}

// History lists every dispatch attempt of a deposit, newest first.
func (s *DispatchService) History(ctx context.Context, depositID uuid.UUID) ([]entity.DispatchLog, error) {
	if err := s.exists(ctx, depositID); err != nil {
		return nil, err
	}
	return s.logRepo.ListByDeposit(ctx, depositID)
}

func (s *DispatchService) exists(ctx context.Context, depositID uuid.UUID) error {
	deposit, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return err
	}
	if deposit == nil {
		return apperror.NewNotFoundError("Deposit")
	}
	return nil
}
