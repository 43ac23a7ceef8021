// Package event defines the domain events emitted by the deposit pipeline.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types
const (
	TypeDepositCreated       = "deposit.created"
	TypeDepositStatusChanged = "deposit.status_changed"
	TypePaymentRecorded      = "deposit.payment_recorded"
	TypeDepositRefunded      = "deposit.refunded"
	TypeReceiptDispatched    = "receipt.dispatched"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetTenantID() string
	GetOccurredAt() time.Time
}

// Publisher delivers events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// Base holds the fields common to every event
type Base struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	TenantID    string    `json:"tenant_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e Base) GetEventID() string       { return e.EventID }
func (e Base) GetEventType() string     { return e.EventType }
func (e Base) GetAggregateID() string   { return e.AggregateID }
func (e Base) GetTenantID() string      { return e.TenantID }
func (e Base) GetOccurredAt() time.Time { return e.OccurredAt }

func newBase(eventType string, tenantID, depositID uuid.UUID, at time.Time) Base {
	return Base{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: depositID.String(),
		TenantID:    tenantID.String(),
		OccurredAt:  at,
	}
}

// DepositCreated is emitted once a deposit and its children are committed.
type DepositCreated struct {
	Base
	DepositNumber string          `json:"deposit_number"`
	CustomerPhone string          `json:"customer_phone"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Installments  int             `json:"installments"`
}

// NewDepositCreated builds a DepositCreated event
func NewDepositCreated(tenantID, depositID uuid.UUID, number, phone string, total, paid decimal.Decimal, installments int, at time.Time) DepositCreated {
	return DepositCreated{
		Base:          newBase(TypeDepositCreated, tenantID, depositID, at),
		DepositNumber: number,
		CustomerPhone: phone,
		TotalAmount:   total,
		PaidAmount:    paid,
		Installments:  installments,
	}
}

// DepositStatusChanged is emitted on every fulfillment transition, cancellation included.
type DepositStatusChanged struct {
	Base
	DepositNumber string `json:"deposit_number"`
	From          string `json:"from"`
	To            string `json:"to"`
	Reason        string `json:"reason,omitempty"`
}

// NewDepositStatusChanged builds a DepositStatusChanged event
func NewDepositStatusChanged(tenantID, depositID uuid.UUID, number, from, to, reason string, at time.Time) DepositStatusChanged {
	return DepositStatusChanged{
		Base:          newBase(TypeDepositStatusChanged, tenantID, depositID, at),
		DepositNumber: number,
		From:          from,
		To:            to,
		Reason:        reason,
	}
}

// PaymentRecorded is emitted for each payment added to a deposit.
type PaymentRecorded struct {
	Base
	DepositNumber   string          `json:"deposit_number"`
	PaymentID       string          `json:"payment_id"`
	InstallmentID   string          `json:"installment_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Method          string          `json:"method"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PaymentStatus   string          `json:"payment_status"`
}

// NewPaymentRecorded builds a PaymentRecorded event
func NewPaymentRecorded(tenantID, depositID uuid.UUID, number string, at time.Time) PaymentRecorded {
	return PaymentRecorded{
		Base:          newBase(TypePaymentRecorded, tenantID, depositID, at),
		DepositNumber: number,
	}
}

// DepositRefunded is emitted when the paid amount is given back.
type DepositRefunded struct {
	Base
	DepositNumber string          `json:"deposit_number"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}

// NewDepositRefunded builds a DepositRefunded event
func NewDepositRefunded(tenantID, depositID uuid.UUID, number string, amount decimal.Decimal, reason string, at time.Time) DepositRefunded {
	return DepositRefunded{
		Base:          newBase(TypeDepositRefunded, tenantID, depositID, at),
		DepositNumber: number,
		Amount:        amount,
		Reason:        reason,
	}
}

// ReceiptDispatched is emitted after every dispatch attempt, failed ones included.
type ReceiptDispatched struct {
	Base
	ReceiptType string `json:"receipt_type"`
	Channel     string `json:"channel"`
	Status      string `json:"status"`
	MessageID   string `json:"message_id,omitempty"`
}

// NewReceiptDispatched builds a ReceiptDispatched event
func NewReceiptDispatched(tenantID, depositID uuid.UUID, receiptType, channel, status, messageID string, at time.Time) ReceiptDispatched {
	return ReceiptDispatched{
		Base:        newBase(TypeReceiptDispatched, tenantID, depositID, at),
		ReceiptType: receiptType,
		Channel:     channel,
		Status:      status,
		MessageID:   messageID,
	}
}
