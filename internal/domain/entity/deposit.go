package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Deposit is a customer's drop-off: the articles, what they cost, what has been
// paid and where the order is in its fulfillment.
type Deposit struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	AgencyID      *uuid.UUID `gorm:"type:uuid;index" json:"agency_id,omitempty"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CreatedByID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by_id"`
	DepositNumber string     `gorm:"size:64;uniqueIndex;not null" json:"deposit_number"`

	CustomerName  string  `gorm:"size:255;not null" json:"customer_name"`
	CustomerPhone string  `gorm:"size:50;not null;index" json:"customer_phone"`
	CustomerEmail *string `gorm:"size:255" json:"customer_email,omitempty"`

	CollectionAddress string     `gorm:"type:text" json:"collection_address"`
	CollectionDate    time.Time  `gorm:"not null;index" json:"collection_date"`
	CollectionTime    string     `gorm:"size:10" json:"collection_time,omitempty"`
	CollectionNotes   *string    `gorm:"type:text" json:"collection_notes,omitempty"`
	DeliveryAddress   *string    `gorm:"type:text" json:"delivery_address,omitempty"`
	DeliveryDate      *time.Time `json:"delivery_date,omitempty"`
	DeliveryTime      *string    `gorm:"size:10" json:"delivery_time,omitempty"`
	DeliveryNotes     *string    `gorm:"type:text" json:"delivery_notes,omitempty"`

	Currency        string          `gorm:"size:3;not null" json:"currency"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"discount_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	UpfrontAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"upfront_amount"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"paid_amount"`
	RemainingAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"remaining_amount"`
	RefundedAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"refunded_amount"`

	Status        enum.DepositStatus `gorm:"default:0;index" json:"status"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0;index" json:"payment_status"`
	PaymentMethod enum.PaymentMethod `gorm:"default:0" json:"payment_method"`

	IsInstallmentPayment bool `gorm:"default:false" json:"is_installment_payment"`
	InstallmentCount     int  `gorm:"default:0" json:"installment_count"`
	InstallmentInterval  int  `gorm:"default:0" json:"installment_interval"`

	CreatedByName string `gorm:"size:255" json:"created_by_name"`
	TenantName    string `gorm:"size:255" json:"tenant_name"`
	AgencyName    string `gorm:"size:255" json:"agency_name,omitempty"`

	CancelReason *string    `gorm:"type:text" json:"cancel_reason,omitempty"`
	RefundReason *string    `gorm:"type:text" json:"refund_reason,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	ReadyAt      *time.Time `json:"ready_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`

	// Version is bumped by every write and compared before it.
	Version   int            `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items        []DepositItem `gorm:"foreignKey:DepositID" json:"items,omitempty"`
	Installments []Installment `gorm:"foreignKey:DepositID" json:"installments,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:DepositID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new deposit
func (d *Deposit) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Deposit model
func (Deposit) TableName() string {
	return "deposits"
}

// DerivePaymentStatus maps amounts to PENDING, PARTIAL or PAID. REFUNDED is never derived.
func DerivePaymentStatus(paid, total decimal.Decimal) enum.PaymentStatus {
	switch {
	case paid.IsZero():
		return enum.PaymentStatusPending
	case paid.LessThan(total):
		return enum.PaymentStatusPartial
	default:
		return enum.PaymentStatusPaid
	}
}

// Settle recomputes the remaining balance and the payment status from the amounts.
// A refunded deposit keeps its REFUNDED status.
func (d *Deposit) Settle() {
	d.RemainingAmount = pricing.Remaining(d.TotalAmount, d.PaidAmount)
	if d.PaymentStatus == enum.PaymentStatusRefunded {
		return
	}
	d.PaymentStatus = DerivePaymentStatus(d.PaidAmount, d.TotalAmount)
}

// ItemCount is the number of physical articles, the sum of item quantities.
func (d *Deposit) ItemCount() int {
	n := 0
	for _, it := range d.Items {
		n += it.Quantity
	}
	return n
}

// TransitionTo moves the fulfillment status one step forward and stamps the time.
// Cancellation goes through Cancel.
func (d *Deposit) TransitionTo(target enum.DepositStatus, at time.Time) error {
	if target == enum.DepositStatusCancelled || !d.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, d.Status, target)
	}

	d.Status = target
	switch target {
	case enum.DepositStatusConfirmed:
		d.ConfirmedAt = &at
	case enum.DepositStatusInProgress:
		d.StartedAt = &at
	case enum.DepositStatusReady:
		d.ReadyAt = &at
	case enum.DepositStatusDelivered:
		d.DeliveredAt = &at
	}
	return nil
}

// Cancel stops a deposit that has not been delivered. Recorded payments are kept.
func (d *Deposit) Cancel(reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancelReasonRequired
	}
	if !d.Status.CanTransitionTo(enum.DepositStatusCancelled) {
		return fmt.Errorf("%w: %s to %s", ErrIllegalTransition, d.Status, enum.DepositStatusCancelled)
	}

	d.Status = enum.DepositStatusCancelled
	d.CancelReason = &reason
	d.CancelledAt = &at
	return nil
}

// AcceptsPayments reports whether ApplyPayment can succeed for some amount.
func (d *Deposit) AcceptsPayments() bool {
	return d.Status != enum.DepositStatusCancelled &&
		d.PaymentStatus.AcceptsPayments() &&
		d.RemainingAmount.IsPositive()
}

// ApplyPayment adds amount to the paid total. It never caps: an amount above the
// remaining balance is rejected.
func (d *Deposit) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if d.Status == enum.DepositStatusCancelled || d.PaymentStatus == enum.PaymentStatusRefunded {
		return ErrPaymentsClosed
	}

	paid := d.PaidAmount.Add(amount)
	if paid.GreaterThan(d.TotalAmount) {
		return fmt.Errorf("%w: remaining %s, got %s", ErrOverpayment, d.RemainingAmount, amount)
	}

	d.PaidAmount = paid
	d.Settle()
	return nil
}

// CanRefund reports whether Refund would be accepted.
func (d *Deposit) CanRefund() bool {
	if d.PaymentStatus == enum.PaymentStatusRefunded || !d.PaidAmount.IsPositive() {
		return false
	}
	return d.PaymentStatus == enum.PaymentStatusPaid || d.Status == enum.DepositStatusCancelled
}

// Refund returns everything paid to the customer. PaidAmount is kept as history,
// RefundedAmount records what went back, and the status is forced to REFUNDED.
func (d *Deposit) Refund(reason string, at time.Time) (decimal.Decimal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return decimal.Zero, ErrRefundReasonRequired
	}
	if !d.CanRefund() {
		return decimal.Zero, ErrRefundNotAllowed
	}

	amount := d.PaidAmount
	d.RefundedAmount = amount
	d.PaymentStatus = enum.PaymentStatusRefunded
	d.RefundReason = &reason
	d.RefundedAt = &at
	d.Settle()
	return amount, nil
}

// FindInstallment returns the loaded installment with the given id.
func (d *Deposit) FindInstallment(id uuid.UUID) *Installment {
	for i := range d.Installments {
		if d.Installments[i].ID == id {
			return &d.Installments[i]
		}
	}
	return nil
}

// PendingInstallments returns pointers into d.Installments for every unpaid entry,
// in plan order.
func (d *Deposit) PendingInstallments() []*Installment {
	var pending []*Installment
	for i := range d.Installments {
		if d.Installments[i].Status == enum.InstallmentStatusPending {
			pending = append(pending, &d.Installments[i])
		}
	}
	sort.Slice(pending, func(a, b int) bool {
		return pending[a].InstallmentNumber < pending[b].InstallmentNumber
	})
	return pending
}

// CoveredInstallments returns the pending installments, in plan order, that are fully
// paid for by money not yet allocated to the plan. That credit is everything received
// after intake minus the installments already marked PAID.
func (d *Deposit) CoveredInstallments() []*Installment {
	credit := d.PaidAmount.Sub(d.UpfrontAmount)
	for _, inst := range d.Installments {
		if inst.Status == enum.InstallmentStatusPaid {
			credit = credit.Sub(inst.Amount)
		}
	}

	var covered []*Installment
	for _, inst := range d.PendingInstallments() {
		if credit.LessThan(inst.Amount) {
			break
		}
		credit = credit.Sub(inst.Amount)
		covered = append(covered, inst)
	}
	return covered
}

// DepositItem is one article of a deposit. Items are written once, at intake.
type DepositItem struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	DepositID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"deposit_id"`
	ServiceID           *uuid.UUID        `gorm:"type:uuid;index" json:"service_id,omitempty"`
	Name                string            `gorm:"size:255;not null" json:"name"`
	Category            enum.ItemCategory `gorm:"default:0" json:"category"`
	Quantity            int               `gorm:"not null" json:"quantity"`
	UnitPrice           decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TotalPrice          decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"total_price"`
	SpecialInstructions *string           `gorm:"type:text" json:"special_instructions,omitempty"`
	Position            int               `gorm:"not null;default:0" json:"position"`
	CreatedAt           time.Time         `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new deposit item
func (i *DepositItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DepositItem model
func (DepositItem) TableName() string {
	return "deposit_items"
}

// Line converts the item to its pricing input.
func (i DepositItem) Line() pricing.Line {
	return pricing.Line{Quantity: i.Quantity, UnitPrice: i.UnitPrice}
}
