package service

import (
	"context"
	"strings"

	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pressing-api/internal/infrastructure/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/locale"
	"go.uber.org/zap"
)

// TenantService handles tenant-related operations
type TenantService struct {
	tenantRepo repository.TenantRepository
	agencyRepo repository.AgencyRepository
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository, agencyRepo repository.AgencyRepository, logger *zap.Logger) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, agencyRepo: agencyRepo, logger: logger}
}

// Current returns the tenant of the request with its settings completed by the defaults.
func (s *TenantService) Current(ctx context.Context) (*entity.Tenant, error) {
	tenant, settings, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}
	tenant.Settings = settings
	return tenant, nil
}

// UpdateSettings validates and replaces the settings of the current tenant.
func (s *TenantService) UpdateSettings(ctx context.Context, settings entity.TenantSettings) (*entity.Tenant, error) {
	tenant, _, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}

	settings.Currency = strings.ToUpper(strings.TrimSpace(settings.Currency))
	settings = settings.WithDefaults()

	var fieldErrors []apperror.FieldError
	if _, err := locale.New(settings.Currency, "", ""); err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "currency", Message: "Unknown currency code"})
	}
	if _, err := locale.New("", settings.Locale, ""); err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "locale", Message: "Unknown locale"})
	}
	if _, err := locale.New("", "", settings.Timezone); err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "timezone", Message: "Unknown time zone"})
	}
	if settings.DefaultInstallmentCount < 2 || settings.DefaultInstallmentCount > 12 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "default_installment_count", Message: "Must be between 2 and 12"})
	}
	if settings.DefaultInstallmentInterval < 1 || settings.DefaultInstallmentInterval > 90 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "default_installment_interval", Message: "Must be between 1 and 90 days"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	if err := s.tenantRepo.UpdateSettings(ctx, tenant.ID, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Tenant settings updated", zap.String("tenant", tenant.Slug))

	tenant.Settings = settings
	return tenant, nil
}

// CreateAgencyInput represents input for creating an agency
type CreateAgencyInput struct {
	Name    string
	Address *string
	Phone   *string
}

// CreateAgency adds a branch to the current tenant.
func (s *TenantService) CreateAgency(ctx context.Context, input *CreateAgencyInput) (*entity.Agency, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}

	agency := &entity.Agency{
		TenantID: tenantID,
		Name:     name,
		Address:  input.Address,
		Phone:    input.Phone,
	}
	if err := s.agencyRepo.Create(ctx, agency); err != nil {
		return nil, err
	}
	return agency, nil
}

// ListAgencies returns the agencies of the current tenant.
func (s *TenantService) ListAgencies(ctx context.Context) ([]entity.Agency, error) {
	return s.agencyRepo.List(ctx)
}
