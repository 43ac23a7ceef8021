package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/application/receipt"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/printer"
	"go.uber.org/zap"
)

// ReceiptService composes receipts for stored deposits and prints tickets.
type ReceiptService struct {
	depositRepo repository.DepositRepository
	tenantRepo  repository.TenantRepository
	composer    *receipt.Composer
	printer     printer.Printer
	logger      *zap.Logger
	now         func() time.Time
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	depositRepo repository.DepositRepository,
	tenantRepo repository.TenantRepository,
	composer *receipt.Composer,
	p printer.Printer,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		depositRepo: depositRepo,
		tenantRepo:  tenantRepo,
		composer:    composer,
		printer:     p,
		logger:      logger,
		now:         time.Now,
	}
}

// businessOf builds the receipt letterhead from the tenant settings.
func businessOf(tenant *entity.Tenant, settings entity.TenantSettings, d *entity.Deposit) receipt.Business {
	return receipt.Business{
		Name:    tenant.Name,
		Agency:  d.AgencyName,
		Header:  settings.ReceiptHeader,
		Footer:  settings.ReceiptFooter,
		Phone:   settings.Phone,
		Address: settings.Address,
		Email:   settings.Email,
		LogoURL: settings.LogoURL,
	}
}

// Render composes the receipt of a deposit.
func (s *ReceiptService) Render(ctx context.Context, depositID uuid.UUID, t enum.ReceiptType, f enum.ReceiptFormat) (*receipt.RenderedReceipt, error) {
	tenant, settings, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}

	deposit, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, apperror.NewNotFoundError("Deposit")
	}

	rendered, err := s.composer.Compose(receipt.Snapshot{
		Deposit:  deposit,
		Business: businessOf(tenant, settings, deposit),
		Locale:   settings.Locale,
		Timezone: settings.Timezone,
		IssuedAt: s.now(),
	}, t, f)
	if err != nil {
		if errors.Is(err, receipt.ErrUnknownLayout) {
			return nil, apperror.NewBadRequestError(err.Error())
		}
		s.logger.Error("Receipt composition failed",
			zap.String("deposit_number", deposit.DepositNumber),
			zap.String("type", t.String()),
			zap.String("format", f.String()),
			zap.Error(err),
		)
		return nil, translate(err)
	}
	return rendered, nil
}

// Print composes the CASH_REGISTER ticket and sends it to the thermal printer.
// The rendered ticket is returned even when printing fails so it can be previewed.
func (s *ReceiptService) Print(ctx context.Context, depositID uuid.UUID, t enum.ReceiptType) (*receipt.RenderedReceipt, error) {
	rendered, err := s.Render(ctx, depositID, t, enum.ReceiptFormatCashRegister)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, rendered.Content); err != nil {
		s.logger.Warn("Printer error",
			zap.String("deposit_id", depositID.String()),
			zap.String("printer", s.printer.Kind()),
			zap.Error(err),
		)
		return rendered, apperror.NewBadGatewayError("Failed to print receipt", err)
	}
	return rendered, nil
}
