package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/application/receipt"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPrinter struct {
	jobs [][]byte
	err  error
}

func (p *recordingPrinter) Print(_ context.Context, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *recordingPrinter) IsConnected(context.Context) bool { return p.err == nil }

func (p *recordingPrinter) Kind() string { return "network" }

func newReceiptService(env *testEnv, p printer.Printer) *ReceiptService {
	svc := NewReceiptService(env.deposits, env.tenants, receipt.NewComposer(printer.Width58mm), p, zap.NewNop())
	svc.now = func() time.Time { return day0 }
	return svc
}

func TestReceiptService_Render(t *testing.T) {
	env := newTestEnv(t)
	settings := env.tenant.Settings
	settings.ReceiptFooter = "A bientôt chez Étoile"
	settings.Phone = "+237 233 00 00 00"
	require.NoError(t, env.tenants.UpdateSettings(env.ctx, env.tenant.ID, settings))

	in := hundred()
	in.PaidAmount = dec(40)
	in.IsInstallmentPayment = true
	in.InstallmentCount = 3
	deposit, err := env.depositService.CreateDeposit(env.ctx, in)
	require.NoError(t, err)

	svc := newReceiptService(env, &recordingPrinter{})

	for _, f := range enum.AllReceiptFormats() {
		t.Run(f.String(), func(t *testing.T) {
			rendered, err := svc.Render(env.ctx, deposit.ID, enum.ReceiptTypeDeposit, f)
			require.NoError(t, err)
			assert.Equal(t, f, rendered.Format)
			assert.Equal(t, "60\u00a0FCFA", rendered.Figures.Remaining)
			assert.NotEmpty(t, rendered.Content)
		})
	}

	electronic, err := svc.Render(env.ctx, deposit.ID, enum.ReceiptTypeDeposit, enum.ReceiptFormatElectronic)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(electronic.Text, "*Pressing Étoile*"))
	assert.Contains(t, electronic.Text, "A bientôt chez Étoile")
}

func TestReceiptService_Render_Errors(t *testing.T) {
	env := newTestEnv(t)
	deposit, err := env.depositService.CreateDeposit(env.ctx, intake())
	require.NoError(t, err)
	svc := newReceiptService(env, &recordingPrinter{})

	_, err = svc.Render(env.ctx, uuid.New(), enum.ReceiptTypeDeposit, enum.ReceiptFormatA4)
	requireAppError(t, err, http.StatusNotFound)

	_, err = svc.Render(env.ctx, deposit.ID, enum.ReceiptType("INVOICE"), enum.ReceiptFormatA4)
	requireAppError(t, err, http.StatusBadRequest)

	// Corrupt the stored total: the receipt is refused, never repaired.
	require.NoError(t, env.db.Model(&entity.Deposit{}).Where("id = ?", deposit.ID).Update("total_amount", 40).Error)
	_, err = svc.Render(env.ctx, deposit.ID, enum.ReceiptTypeDeposit, enum.ReceiptFormatA4)
	requireAppError(t, err, http.StatusInternalServerError)
	assert.ErrorIs(t, err, receipt.ErrInconsistentTotals)
}

func TestReceiptService_Print(t *testing.T) {
	env := newTestEnv(t)
	deposit, err := env.depositService.CreateDeposit(env.ctx, intake())
	require.NoError(t, err)

	p := &recordingPrinter{}
	rendered, err := newReceiptService(env, p).Print(env.ctx, deposit.ID, enum.ReceiptTypeDeposit)
	require.NoError(t, err)
	require.Len(t, p.jobs, 1)
	assert.True(t, bytes.Equal(rendered.Content, p.jobs[0]))
	assert.Equal(t, enum.ReceiptFormatCashRegister, rendered.Format)

	broken := &recordingPrinter{err: errors.New("dial tcp 192.168.1.50:9100: i/o timeout")}
	rendered, err = newReceiptService(env, broken).Print(env.ctx, deposit.ID, enum.ReceiptTypeDeposit)
	requireAppError(t, err, http.StatusBadGateway)
	require.NotNil(t, rendered)
	assert.NotEmpty(t, rendered.Text)
}

func TestPrinterService(t *testing.T) {
	p := &recordingPrinter{}
	svc := NewPrinterService(p, 0, zap.NewNop())

	status := svc.GetStatus(context.Background())
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, printer.Width58mm, status.CharWidth)

	page, err := svc.TestPrint(context.Background())
	require.NoError(t, err)
	assert.True(t, page.Printed)
	assert.Contains(t, page.Preview, "TEST IMPRIMANTE")
	require.Len(t, p.jobs, 1)

	unconfigured := NewPrinterService(printer.NewNullPrinter(), 48, zap.NewNop())
	assert.False(t, unconfigured.GetStatus(context.Background()).Configured)
	page, err = unconfigured.TestPrint(context.Background())
	requireAppError(t, err, http.StatusBadGateway)
	assert.False(t, page.Printed)
	assert.NotEmpty(t, page.Preview)
}
