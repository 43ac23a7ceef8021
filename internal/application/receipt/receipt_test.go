package receipt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intake = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// installmentDeposit is 10 000 of articles, 1 000 off, 2 000 paid upfront and
// 7 000 spread over three installments of 2 334, 2 334 and 2 332.
func installmentDeposit() *entity.Deposit {
	delivery := "Bonapriso, immeuble Azur"
	deliveryDate := intake.AddDate(0, 0, 3)
	d := &entity.Deposit{
		ID:                uuid.New(),
		DepositNumber:     "DEP-7Q2K",
		CustomerName:      "Awa Ndiaye",
		CustomerPhone:     "690000001",
		CollectionAddress: "Rue Joss, Akwa",
		CollectionDate:    intake,
		CollectionTime:    "09:30",
		DeliveryAddress:   &delivery,
		DeliveryDate:      &deliveryDate,
		Currency:          "XAF",
		Subtotal:          dec(10000),
		DiscountAmount:    dec(1000),
		TotalAmount:       dec(9000),
		UpfrontAmount:     dec(2000),
		PaidAmount:        dec(2000),
		PaymentMethod:     enum.PaymentMethodMobileMoney,
		TenantName:        "Pressing Étoile",
		AgencyName:        "Akwa",
		CreatedByName:     "Jean",
		CreatedAt:         intake,
		Items: []entity.DepositItem{
			{Name: "Chemise", Category: enum.ItemCategoryWashing, Quantity: 3, UnitPrice: dec(2500), TotalPrice: dec(7500)},
			{Name: "Costume", Category: enum.ItemCategoryDryCleaning, Quantity: 1, UnitPrice: dec(2500), TotalPrice: dec(2500)},
		},
		Payments: []entity.Payment{
			{Kind: enum.PaymentKindPayment, Amount: dec(2000), Method: enum.PaymentMethodMobileMoney, RecordedAt: intake},
		},
		IsInstallmentPayment: true,
		InstallmentCount:     3,
		InstallmentInterval:  7,
	}
	for i, amount := range []int64{2334, 2334, 2332} {
		d.Installments = append(d.Installments, entity.Installment{
			InstallmentNumber: i + 1,
			Amount:            dec(amount),
			DueDate:           intake.AddDate(0, 0, 7*(i+1)),
		})
	}
	d.Settle()
	return d
}

func snapshot(d *entity.Deposit) Snapshot {
	return Snapshot{
		Deposit:  d,
		Business: Business{Phone: "233 42 00 00", Footer: "Merci et à bientôt"},
		Locale:   "fr-FR",
		Timezone: "UTC",
		IssuedAt: intake.Add(time.Hour),
	}
}

func TestCompose_SameFiguresInEveryFormat(t *testing.T) {
	c := NewComposer(printer.Width58mm)
	snap := snapshot(installmentDeposit())

	for _, rt := range enum.AllReceiptTypes() {
		var reference *Figures
		for _, f := range enum.AllReceiptFormats() {
			t.Run(string(rt)+"/"+string(f), func(t *testing.T) {
				out, err := c.Compose(snap, rt, f)
				require.NoError(t, err)

				if reference == nil {
					reference = &out.Figures
				}
				assert.Equal(t, *reference, out.Figures)

				require.NotNil(t, out.Figures.Installments)
				body := string(out.Content)
				if f == enum.ReceiptFormatCashRegister {
					body = out.Text
				} else {
					// The ticket wraps the plan summary; the other layouts print it whole.
					assert.Contains(t, body, out.Figures.Installments.Summary)
				}
				for _, amount := range []string{
					out.Figures.Subtotal,
					out.Figures.Discount,
					out.Figures.Total,
					out.Figures.Paid,
					out.Figures.Remaining,
					out.Figures.Installments.Regular,
					out.Figures.Installments.Last,
				} {
					if f == enum.ReceiptFormatCashRegister {
						amount = printer.Printable(amount)
					}
					assert.Contains(t, body, amount)
				}
			})
		}
	}
}

func TestCompose_Figures(t *testing.T) {
	out, err := NewComposer(0).Compose(snapshot(installmentDeposit()), enum.ReceiptTypeDeposit, enum.ReceiptFormatElectronic)
	require.NoError(t, err)

	fig := out.Figures
	assert.Equal(t, "XAF", fig.Currency)
	assert.Equal(t, "10\u202f000\u00a0FCFA", fig.Subtotal)
	assert.Equal(t, "9\u202f000\u00a0FCFA", fig.Total)
	assert.Equal(t, "7\u202f000\u00a0FCFA", fig.Remaining)
	assert.True(t, fig.HasDiscount)
	assert.True(t, fig.HasRemaining)
	assert.Empty(t, fig.Refunded)

	require.NotNil(t, fig.Installments)
	assert.Equal(t, 3, fig.Installments.Count)
	assert.Equal(t, "2\u202f334\u00a0FCFA", fig.Installments.Regular)
	assert.Equal(t, "2\u202f332\u00a0FCFA", fig.Installments.Last)
	assert.Equal(t, "3 échéances de 2\u202f334\u00a0FCFA (dernière : 2\u202f332\u00a0FCFA)", fig.Installments.Summary)
	require.Len(t, fig.Installments.Schedule, 3)
	assert.Equal(t, "09/03/2026", fig.Installments.Schedule[0].DueDate)
	assert.Equal(t, "À payer", fig.Installments.Schedule[0].Status)

	assert.Contains(t, out.Text, fig.Installments.Summary)
}

func TestCompose_EvenInstallmentSummary(t *testing.T) {
	d := installmentDeposit()
	d.UpfrontAmount = dec(3000)
	d.PaidAmount = dec(3000)
	d.InstallmentCount = 2
	d.Installments = d.Installments[:2]
	d.Installments[0].Amount = dec(3000)
	d.Installments[1].Amount = dec(3000)
	d.Settle()

	out, err := NewComposer(0).Compose(snapshot(d), enum.ReceiptTypePayment, enum.ReceiptFormatA4)
	require.NoError(t, err)
	assert.Equal(t, "2 échéances de 3\u202f000\u00a0FCFA", out.Figures.Installments.Summary)
	assert.Contains(t, string(out.Content), out.Figures.Installments.Summary)
}

func TestCompose_NoDiscountNoBalance(t *testing.T) {
	d := installmentDeposit()
	d.DiscountAmount = decimal.Zero
	d.TotalAmount = dec(10000)
	d.UpfrontAmount = dec(10000)
	d.PaidAmount = dec(10000)
	d.IsInstallmentPayment = false
	d.InstallmentCount = 0
	d.Installments = nil
	d.Settle()

	out, err := NewComposer(0).Compose(snapshot(d), enum.ReceiptTypeDeposit, enum.ReceiptFormatElectronic)
	require.NoError(t, err)
	assert.False(t, out.Figures.HasDiscount)
	assert.False(t, out.Figures.HasRemaining)
	assert.Nil(t, out.Figures.Installments)
	assert.NotContains(t, out.Text, "Remise")
	assert.NotContains(t, out.Text, "Reste à payer")
}

func TestCompose_SectionOrder(t *testing.T) {
	c := NewComposer(0)
	snap := snapshot(installmentDeposit())

	tests := []struct {
		rt      enum.ReceiptType
		order   []string
		missing []string
	}{
		{enum.ReceiptTypeDeposit, []string{"*Collecte*", "*Livraison*", "*Articles", "Sous-total"}, []string{"*Paiements*"}},
		{enum.ReceiptTypePayment, []string{"Sous-total", "*Paiements*", "*Articles"}, []string{"*Collecte*", "*Livraison*"}},
		{enum.ReceiptTypeDelivery, []string{"*Livraison*", "*Articles", "Sous-total"}, []string{"*Collecte*", "*Paiements*"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.rt), func(t *testing.T) {
			out, err := c.Compose(snap, tt.rt, enum.ReceiptFormatElectronic)
			require.NoError(t, err)
			assert.Contains(t, out.Text, tt.rt.Label())

			last := -1
			for _, marker := range tt.order {
				idx := strings.Index(out.Text, marker)
				require.GreaterOrEqual(t, idx, 0, marker)
				assert.Greater(t, idx, last, marker)
				last = idx
			}
			for _, marker := range tt.missing {
				assert.NotContains(t, out.Text, marker)
			}
		})
	}
}

func TestCompose_DeliverySignature(t *testing.T) {
	out, err := NewComposer(0).Compose(snapshot(installmentDeposit()), enum.ReceiptTypeDelivery, enum.ReceiptFormatA4)
	require.NoError(t, err)
	assert.Contains(t, string(out.Content), "Signature du client")

	out, err = NewComposer(0).Compose(snapshot(installmentDeposit()), enum.ReceiptTypeDeposit, enum.ReceiptFormatA4)
	require.NoError(t, err)
	assert.NotContains(t, string(out.Content), "Signature du client")
}

func TestCompose_Formats(t *testing.T) {
	c := NewComposer(printer.Width80mm)
	snap := snapshot(installmentDeposit())

	a4, err := c.Compose(snap, enum.ReceiptTypeDeposit, enum.ReceiptFormatA4)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", a4.ContentType)
	assert.Equal(t, "DEP-7Q2K-deposit-a4.html", a4.FileName)
	assert.Contains(t, string(a4.Content), "size: A4")
	// The full layout lists the schedule, the compact one only summarizes it.
	assert.Contains(t, string(a4.Content), "16/03/2026")

	a5, err := c.Compose(snap, enum.ReceiptTypeDeposit, enum.ReceiptFormatA5)
	require.NoError(t, err)
	assert.Contains(t, string(a5.Content), "size: A5")
	assert.NotContains(t, string(a5.Content), "16/03/2026")

	ticket, err := c.Compose(snap, enum.ReceiptTypeDeposit, enum.ReceiptFormatCashRegister)
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.escpos", ticket.ContentType)
	assert.True(t, bytes.HasPrefix(ticket.Content, []byte{printer.ESC, '@'}))
	assert.Contains(t, ticket.Text, "Pressing Étoile")
	for _, line := range strings.Split(ticket.Text, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), printer.Width80mm, line)
	}

	el, err := c.Compose(snap, enum.ReceiptTypeDeposit, enum.ReceiptFormatElectronic)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", el.ContentType)
	assert.Equal(t, el.Text, string(el.Content))
	assert.True(t, strings.HasPrefix(el.Text, "*Pressing Étoile*"))
}

func TestCompose_Refunded(t *testing.T) {
	d := installmentDeposit()
	require.NoError(t, d.Cancel("client absent", intake))
	amount, err := d.Refund("annulation", intake)
	require.NoError(t, err)
	d.Payments = append(d.Payments, entity.Payment{Kind: enum.PaymentKindRefund, Amount: amount, Method: enum.PaymentMethodCash, RecordedAt: intake})

	out, err := NewComposer(0).Compose(snapshot(d), enum.ReceiptTypePayment, enum.ReceiptFormatElectronic)
	require.NoError(t, err)
	assert.Equal(t, "2\u202f000\u00a0FCFA", out.Figures.Refunded)
	assert.Contains(t, out.Text, "Remboursement")
	assert.Contains(t, out.Text, "-2\u202f000\u00a0FCFA")
	assert.Contains(t, out.Text, "client absent")
}

func TestCompose_UnknownLayout(t *testing.T) {
	c := NewComposer(0)
	snap := snapshot(installmentDeposit())

	_, err := c.Compose(snap, enum.ReceiptType("INVOICE"), enum.ReceiptFormatA4)
	assert.ErrorIs(t, err, ErrUnknownLayout)

	_, err = c.Compose(snap, enum.ReceiptTypeDeposit, enum.ReceiptFormat("LETTER"))
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestVerify_Inconsistencies(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *entity.Deposit)
	}{
		{"no items", func(d *entity.Deposit) { d.Items = nil }},
		{"item total", func(d *entity.Deposit) { d.Items[0].TotalPrice = dec(7000) }},
		{"subtotal", func(d *entity.Deposit) { d.Subtotal = dec(9500) }},
		{"total", func(d *entity.Deposit) { d.TotalAmount = dec(10000) }},
		{"remaining", func(d *entity.Deposit) { d.RemainingAmount = dec(6000) }},
		{"installment count", func(d *entity.Deposit) { d.InstallmentCount = 4 }},
		{"installment sum", func(d *entity.Deposit) { d.Installments[2].Amount = dec(2000) }},
		{"installment order", func(d *entity.Deposit) {
			d.Installments[0].Amount, d.Installments[2].Amount = d.Installments[2].Amount, d.Installments[0].Amount
		}},
		{"installment numbering", func(d *entity.Deposit) { d.Installments[1].InstallmentNumber = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := installmentDeposit()
			tt.mutate(d)

			assert.ErrorIs(t, Verify(d, 0), ErrInconsistentTotals)

			_, err := NewComposer(0).Compose(snapshot(d), enum.ReceiptTypeDeposit, enum.ReceiptFormatA4)
			assert.ErrorIs(t, err, ErrInconsistentTotals)
		})
	}

	assert.NoError(t, Verify(installmentDeposit(), 0))
}
