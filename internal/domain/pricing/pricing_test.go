package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		discount string
		subtotal string
		total    string
	}{
		{
			name:     "two shirts and a tie",
			lines:    []Line{{Quantity: 2, UnitPrice: d("15.00")}, {Quantity: 1, UnitPrice: d("8.00")}},
			discount: "0",
			subtotal: "38",
			total:    "38",
		},
		{
			name:     "with discount",
			lines:    []Line{{Quantity: 3, UnitPrice: d("1500")}, {Quantity: 1, UnitPrice: d("2500")}},
			discount: "500",
			subtotal: "7000",
			total:    "6500",
		},
		{
			name:     "discount larger than subtotal floors at zero",
			lines:    []Line{{Quantity: 1, UnitPrice: d("10")}},
			discount: "25",
			subtotal: "10",
			total:    "0",
		},
		{
			name:     "cents stay exact",
			lines:    []Line{{Quantity: 3, UnitPrice: d("0.10")}, {Quantity: 7, UnitPrice: d("0.20")}},
			discount: "0.05",
			subtotal: "1.70",
			total:    "1.65",
		},
		{
			name:     "no lines",
			discount: "0",
			subtotal: "0",
			total:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.lines, d(tt.discount))
			assert.True(t, got.Subtotal.Equal(d(tt.subtotal)), "subtotal %s", got.Subtotal)
			assert.True(t, got.Total.Equal(d(tt.total)), "total %s", got.Total)
			assert.True(t, got.Discount.Equal(d(tt.discount)))
		})
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	lines := []Line{{Quantity: 4, UnitPrice: d("1250")}, {Quantity: 2, UnitPrice: d("333")}}
	first := ComputeTotals(lines, d("100"))
	second := ComputeTotals(lines, d("100"))
	assert.Equal(t, first, second)
}

func TestComputeTotals_SubtotalIsSumOfLineTotals(t *testing.T) {
	for q := 1; q <= 12; q++ {
		for p := 1; p <= 40; p++ {
			price := decimal.New(int64(p*37), -2)
			lines := []Line{{Quantity: q, UnitPrice: price}, {Quantity: p, UnitPrice: d("0.01")}}
			want := price.Mul(decimal.NewFromInt(int64(q))).Add(decimal.New(int64(p), -2))
			assert.True(t, ComputeTotals(lines, decimal.Zero).Subtotal.Equal(want))
		}
	}
}

func TestValidateItems(t *testing.T) {
	assert.ErrorIs(t, ValidateItems(nil), ErrNoItems)
	assert.ErrorIs(t, ValidateItems([]Line{{Quantity: 0, UnitPrice: d("10")}}), ErrInvalidQuantity)
	assert.ErrorIs(t, ValidateItems([]Line{{Quantity: 1, UnitPrice: d("0")}}), ErrInvalidUnitPrice)
	assert.ErrorIs(t, ValidateItems([]Line{{Quantity: 1, UnitPrice: d("-3")}}), ErrInvalidUnitPrice)

	err := ValidateItems([]Line{{Quantity: 1, UnitPrice: d("10")}, {Quantity: -1, UnitPrice: d("10")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items[1]")

	assert.NoError(t, ValidateItems([]Line{{Quantity: 1, UnitPrice: d("10")}}))
}

func TestValidateDiscount(t *testing.T) {
	assert.NoError(t, ValidateDiscount(d("0"), d("100")))
	assert.NoError(t, ValidateDiscount(d("100"), d("100")))
	assert.True(t, errors.Is(ValidateDiscount(d("-1"), d("100")), ErrNegativeDiscount))
	assert.True(t, errors.Is(ValidateDiscount(d("101"), d("100")), ErrDiscountTooLarge))
}

func TestRemaining(t *testing.T) {
	assert.True(t, Remaining(d("50"), d("20")).Equal(d("30")))
	assert.True(t, Remaining(d("50"), d("50")).IsZero())
	assert.True(t, Remaining(d("50"), d("70")).IsZero())
}
