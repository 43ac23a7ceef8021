// Package pricing holds the pure money rules of a deposit: line totals,
// subtotal and discount, and the split of a balance into installments.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoItems          = errors.New("at least one item is required")
	ErrInvalidQuantity  = errors.New("item quantity must be at least 1")
	ErrInvalidUnitPrice = errors.New("item unit price must be greater than zero")
	ErrNegativeDiscount = errors.New("discount cannot be negative")
	ErrDiscountTooLarge = errors.New("discount cannot exceed the subtotal")
)

// Line is one priced article.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals is the result of pricing a list of lines.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount_amount"`
	Total    decimal.Decimal `json:"total_amount"`
}

// LineTotal is quantity × unit price.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// ComputeTotals sums the lines and applies the discount. The total never goes below zero.
func ComputeTotals(lines []Line, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l.Quantity, l.UnitPrice))
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}

// ValidateItems rejects empty lists, zero quantities and non-positive prices.
// The returned error names the offending line as items[i].
func ValidateItems(lines []Line) error {
	if len(lines) == 0 {
		return ErrNoItems
	}
	for i, l := range lines {
		if l.Quantity < 1 {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		if !l.UnitPrice.IsPositive() {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidUnitPrice)
		}
	}
	return nil
}

// ValidateDiscount checks 0 <= discount <= subtotal.
func ValidateDiscount(discount, subtotal decimal.Decimal) error {
	if discount.IsNegative() {
		return ErrNegativeDiscount
	}
	if discount.GreaterThan(subtotal) {
		return ErrDiscountTooLarge
	}
	return nil
}

// Remaining is max(0, total - paid).
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
