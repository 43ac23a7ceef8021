package receipt

import (
	"errors"
	"fmt"

	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/pricing"
	"github.com/sangkips/pressing-api/pkg/locale"
	"github.com/shopspring/decimal"
)

// ErrInconsistentTotals means the stored amounts of a deposit contradict each other.
// The receipt is not rendered.
var ErrInconsistentTotals = errors.New("receipt: inconsistent deposit totals")

// Figures are the formatted amounts of a deposit. Every format prints these
// exact strings.
type Figures struct {
	Currency     string              `json:"currency"`
	Subtotal     string              `json:"subtotal"`
	Discount     string              `json:"discount"`
	Total        string              `json:"total"`
	Paid         string              `json:"paid"`
	Remaining    string              `json:"remaining"`
	Refunded     string              `json:"refunded,omitempty"`
	HasDiscount  bool                `json:"has_discount"`
	HasRemaining bool                `json:"has_remaining"`
	Installments *InstallmentFigures `json:"installments,omitempty"`
}

// InstallmentFigures summarizes a payment plan.
type InstallmentFigures struct {
	Count        int               `json:"count"`
	IntervalDays int               `json:"interval_days"`
	Regular      string            `json:"regular_amount"`
	Last         string            `json:"last_amount"`
	Summary      string            `json:"summary"`
	Schedule     []InstallmentLine `json:"schedule"`
}

// InstallmentLine is one row of the plan.
type InstallmentLine struct {
	Number  int    `json:"number"`
	Amount  string `json:"amount"`
	DueDate string `json:"due_date"`
	Status  string `json:"status"`
	Paid    bool   `json:"paid"`
}

func inconsistent(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInconsistentTotals, fmt.Sprintf(format, args...))
}

// Verify checks every derived amount of d against its inputs without correcting anything.
func Verify(d *entity.Deposit, scale int32) error {
	if len(d.Items) == 0 {
		return inconsistent("deposit has no items")
	}

	lines := make([]pricing.Line, len(d.Items))
	sum := decimal.Zero
	for i, it := range d.Items {
		if want := pricing.LineTotal(it.Quantity, it.UnitPrice); !want.Equal(it.TotalPrice) {
			return inconsistent("item %d total %s, expected %s", i+1, it.TotalPrice, want)
		}
		lines[i] = it.Line()
		sum = sum.Add(it.TotalPrice)
	}
	if !sum.Equal(d.Subtotal) {
		return inconsistent("items sum to %s, subtotal is %s", sum, d.Subtotal)
	}

	totals := pricing.ComputeTotals(lines, d.DiscountAmount)
	if !totals.Total.Equal(d.TotalAmount) {
		return inconsistent("total %s, expected subtotal %s minus discount %s", d.TotalAmount, d.Subtotal, d.DiscountAmount)
	}
	if want := pricing.Remaining(d.TotalAmount, d.PaidAmount); !want.Equal(d.RemainingAmount) {
		return inconsistent("remaining %s, expected %s", d.RemainingAmount, want)
	}

	if !d.IsInstallmentPayment {
		return nil
	}
	if len(d.Installments) != d.InstallmentCount {
		return inconsistent("%d installments stored for a plan of %d", len(d.Installments), d.InstallmentCount)
	}

	planned := d.TotalAmount.Sub(d.UpfrontAmount)
	scheduled := decimal.Zero
	for _, inst := range d.Installments {
		scheduled = scheduled.Add(inst.Amount)
	}
	if !scheduled.Equal(planned) {
		return inconsistent("installments sum to %s, total minus upfront is %s", scheduled, planned)
	}

	regular, last, err := pricing.Split(planned, d.InstallmentCount, scale)
	if err != nil {
		return inconsistent("installment plan: %v", err)
	}
	for i, inst := range d.Installments {
		want := regular
		if i == len(d.Installments)-1 {
			want = last
		}
		if inst.InstallmentNumber != i+1 || !inst.Amount.Equal(want) {
			return inconsistent("installment %d is %s, plan gives %s", inst.InstallmentNumber, inst.Amount, want)
		}
	}
	return nil
}

// NewFigures verifies d and formats its amounts once.
func NewFigures(d *entity.Deposit, f *locale.Formatter) (Figures, error) {
	if err := Verify(d, f.Scale()); err != nil {
		return Figures{}, err
	}

	fig := Figures{
		Currency:     f.Currency(),
		Subtotal:     f.Money(d.Subtotal),
		Discount:     f.Money(d.DiscountAmount),
		Total:        f.Money(d.TotalAmount),
		Paid:         f.Money(d.PaidAmount),
		Remaining:    f.Money(d.RemainingAmount),
		HasDiscount:  d.DiscountAmount.IsPositive(),
		HasRemaining: d.RemainingAmount.IsPositive(),
	}
	if d.PaymentStatus == enum.PaymentStatusRefunded {
		fig.Refunded = f.Money(d.RefundedAmount)
	}

	if d.IsInstallmentPayment {
		// Verify already proved the split succeeds.
		regular, last, _ := pricing.Split(d.TotalAmount.Sub(d.UpfrontAmount), d.InstallmentCount, f.Scale())
		inst := &InstallmentFigures{
			Count:        d.InstallmentCount,
			IntervalDays: d.InstallmentInterval,
			Regular:      f.Money(regular),
			Last:         f.Money(last),
		}
		if regular.Equal(last) {
			inst.Summary = fmt.Sprintf("%d échéances de %s", inst.Count, inst.Regular)
		} else {
			inst.Summary = fmt.Sprintf("%d échéances de %s (dernière : %s)", inst.Count, inst.Regular, inst.Last)
		}
		for _, it := range d.Installments {
			inst.Schedule = append(inst.Schedule, InstallmentLine{
				Number:  it.InstallmentNumber,
				Amount:  f.Money(it.Amount),
				DueDate: f.Date(it.DueDate),
				Status:  it.Status.Label(),
				Paid:    it.Status == enum.InstallmentStatusPaid,
			})
		}
		fig.Installments = inst
	}
	return fig, nil
}
