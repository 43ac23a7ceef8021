package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInstallmentCount    = errors.New("installment count must be at least 2")
	ErrInstallmentInterval = errors.New("installment interval must be at least 1 day")
	ErrNothingToSchedule   = errors.New("remaining amount must be greater than zero to schedule installments")
	ErrPlanTooFine         = errors.New("remaining amount is too small for this number of installments")
	ErrAmountPrecision     = errors.New("amount has more decimals than the currency allows")
)

// ScheduledInstallment is one entry of a generated plan. Number is 1-based.
type ScheduledInstallment struct {
	Number  int             `json:"installment_number"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"due_date"`
}

// Split divides remaining into count installments at the given minor-unit scale.
// Every installment but the last is ceil(remaining / count); the last one absorbs
// the difference so that regular × (count-1) + last == remaining.
func Split(remaining decimal.Decimal, count int, scale int32) (regular, last decimal.Decimal, err error) {
	if count < 2 {
		return decimal.Zero, decimal.Zero, ErrInstallmentCount
	}
	if !remaining.IsPositive() {
		return decimal.Zero, decimal.Zero, ErrNothingToSchedule
	}

	units := remaining.Shift(scale)
	if !units.Equal(units.Truncate(0)) {
		return decimal.Zero, decimal.Zero, ErrAmountPrecision
	}

	n := decimal.NewFromInt(int64(count))
	q, r := units.QuoRem(n, 0)
	if !r.IsZero() {
		q = q.Add(decimal.NewFromInt(1))
	}

	regular = q.Shift(-scale)
	last = remaining.Sub(regular.Mul(n.Sub(decimal.NewFromInt(1))))
	if !last.IsPositive() {
		return decimal.Zero, decimal.Zero, ErrPlanTooFine
	}
	return regular, last, nil
}

// Schedule builds the installment plan. Installment i is due start + i×intervalDays days.
func Schedule(remaining decimal.Decimal, count, intervalDays int, start time.Time, scale int32) ([]ScheduledInstallment, error) {
	if intervalDays <= 0 {
		return nil, ErrInstallmentInterval
	}
	regular, last, err := Split(remaining, count, scale)
	if err != nil {
		return nil, err
	}

	plan := make([]ScheduledInstallment, count)
	for i := 1; i <= count; i++ {
		amount := regular
		if i == count {
			amount = last
		}
		plan[i-1] = ScheduledInstallment{
			Number:  i,
			Amount:  amount,
			DueDate: start.AddDate(0, 0, i*intervalDays),
		}
	}
	return plan, nil
}
