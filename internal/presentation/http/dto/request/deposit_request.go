package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DepositItemRequest is one line of the intake form
type DepositItemRequest struct {
	ServiceID           *uuid.UUID         `json:"service_id"`
	Name                string             `json:"name" binding:"max=255"`
	Category            *enum.ItemCategory `json:"category"`
	Quantity            int                `json:"quantity" binding:"required,gte=1"`
	UnitPrice           *decimal.Decimal   `json:"unit_price" binding:"omitempty,money"`
	SpecialInstructions *string            `json:"special_instructions" binding:"omitempty,max=1000"`
}

func (r DepositItemRequest) toInput() service.DepositItemInput {
	return service.DepositItemInput{
		ServiceID:           r.ServiceID,
		Name:                r.Name,
		Category:            r.Category,
		Quantity:            r.Quantity,
		UnitPrice:           r.UnitPrice,
		SpecialInstructions: r.SpecialInstructions,
	}
}

func itemInputs(items []DepositItemRequest) []service.DepositItemInput {
	inputs := make([]service.DepositItemInput, len(items))
	for i, it := range items {
		inputs[i] = it.toInput()
	}
	return inputs
}

// PlanRequest carries the payment terms shared by the quote and the intake
type PlanRequest struct {
	PaidAmount           decimal.Decimal `json:"paid_amount" binding:"money"`
	DiscountAmount       decimal.Decimal `json:"discount_amount" binding:"money"`
	IsInstallmentPayment bool            `json:"is_installment_payment"`
	InstallmentCount     int             `json:"installment_count" binding:"omitempty,gte=2,lte=12"`
	InstallmentInterval  int             `json:"installment_interval" binding:"omitempty,gte=1,lte=90"`
}

// QuoteRequest asks for the priced preview of a form
type QuoteRequest struct {
	Items     []DepositItemRequest `json:"items" binding:"required,min=1,dive"`
	StartDate *time.Time           `json:"start_date"`
	PlanRequest
}

// ToInput converts the request into the service input
func (r *QuoteRequest) ToInput() *service.QuoteInput {
	in := &service.QuoteInput{
		Items:                itemInputs(r.Items),
		DiscountAmount:       r.DiscountAmount,
		PaidAmount:           r.PaidAmount,
		IsInstallmentPayment: r.IsInstallmentPayment,
		InstallmentCount:     r.InstallmentCount,
		InstallmentInterval:  r.InstallmentInterval,
	}
	if r.StartDate != nil {
		in.StartDate = *r.StartDate
	}
	return in
}

// CreateDepositRequest represents the intake form
type CreateDepositRequest struct {
	AgencyID *uuid.UUID `json:"agency_id"`

	CustomerName  string  `json:"customer_name" binding:"required,max=255"`
	CustomerPhone string  `json:"customer_phone" binding:"required,phone"`
	CustomerEmail *string `json:"customer_email" binding:"omitempty,email"`

	CollectionAddress string     `json:"collection_address" binding:"required"`
	CollectionDate    time.Time  `json:"collection_date" binding:"required"`
	CollectionTime    string     `json:"collection_time" binding:"max=20"`
	CollectionNotes   *string    `json:"collection_notes"`
	DeliveryAddress   *string    `json:"delivery_address"`
	DeliveryDate      *time.Time `json:"delivery_date"`
	DeliveryTime      *string    `json:"delivery_time" binding:"omitempty,max=20"`
	DeliveryNotes     *string    `json:"delivery_notes"`

	Items         []DepositItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod *enum.PaymentMethod  `json:"payment_method" binding:"required"`
	PlanRequest
}

// ToInput converts the request into the service input
func (r *CreateDepositRequest) ToInput(actorID uuid.UUID, actorName string) *service.CreateDepositInput {
	return &service.CreateDepositInput{
		ActorID:              actorID,
		ActorName:            actorName,
		AgencyID:             r.AgencyID,
		CustomerName:         r.CustomerName,
		CustomerPhone:        r.CustomerPhone,
		CustomerEmail:        r.CustomerEmail,
		CollectionAddress:    r.CollectionAddress,
		CollectionDate:       r.CollectionDate,
		CollectionTime:       r.CollectionTime,
		CollectionNotes:      r.CollectionNotes,
		DeliveryAddress:      r.DeliveryAddress,
		DeliveryDate:         r.DeliveryDate,
		DeliveryTime:         r.DeliveryTime,
		DeliveryNotes:        r.DeliveryNotes,
		Items:                itemInputs(r.Items),
		PaymentMethod:        *r.PaymentMethod,
		PaidAmount:           r.PaidAmount,
		DiscountAmount:       r.DiscountAmount,
		IsInstallmentPayment: r.IsInstallmentPayment,
		InstallmentCount:     r.InstallmentCount,
		InstallmentInterval:  r.InstallmentInterval,
	}
}

// UpdateStatusRequest moves a deposit one step along its lifecycle
type UpdateStatusRequest struct {
	Status *enum.DepositStatus `json:"status" binding:"required"`
}

// CancelDepositRequest represents a cancellation
type CancelDepositRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// PaymentRequest records money received for a deposit
type PaymentRequest struct {
	Amount        decimal.Decimal     `json:"amount" binding:"required,money"`
	Method        *enum.PaymentMethod `json:"method" binding:"required"`
	InstallmentID *uuid.UUID          `json:"installment_id"`
	Note          string              `json:"note" binding:"max=500"`
}

// RefundRequest gives the paid amount back
type RefundRequest struct {
	Reason string              `json:"reason" binding:"required,max=1000"`
	Method *enum.PaymentMethod `json:"method"`
}

// DispatchRequest sends a receipt message to the customer
type DispatchRequest struct {
	Type      enum.ReceiptType     `json:"type" binding:"required"`
	Channel   enum.DispatchChannel `json:"channel" binding:"required"`
	Recipient string               `json:"recipient" binding:"max=255"`
}
