package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pressing-api/internal/infrastructure/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/locale"
	"github.com/sangkips/pressing-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// CatalogService manages the tenant's list of laundry services and their counter prices
type CatalogService struct {
	catalogRepo repository.LaundryServiceRepository
	tenantRepo  repository.TenantRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo repository.LaundryServiceRepository, tenantRepo repository.TenantRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo, tenantRepo: tenantRepo}
}

// CatalogEntryInput represents the create and update input of a catalog entry
type CatalogEntryInput struct {
	Name        string
	Category    enum.ItemCategory
	UnitPrice   decimal.Decimal
	Description *string
	Active      *bool
}

// validate checks the entry against the tenant currency, whose minor unit bounds the price.
func (s *CatalogService) validate(ctx context.Context, input *CatalogEntryInput) error {
	_, settings, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return err
	}
	fm, err := locale.New(settings.Currency, settings.Locale, settings.Timezone)
	if err != nil {
		return apperror.NewInternalError("Invalid tenant localization settings", err)
	}

	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if !input.Category.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "category", Message: "Unknown category"})
	}
	if input.UnitPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "Price cannot be negative"})
	} else if !fm.FitsScale(input.UnitPrice) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unit_price", Message: "Price is finer than the currency allows"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// CreateEntry adds a service to the catalog
func (s *CatalogService) CreateEntry(ctx context.Context, input *CatalogEntryInput) (*entity.LaundryService, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	entry := &entity.LaundryService{
		TenantID:    tenantID,
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		UnitPrice:   input.UnitPrice,
		Description: input.Description,
		Active:      true,
	}
	if err := s.catalogRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	// The column defaults to true, an inactive entry needs a second write.
	if input.Active != nil && !*input.Active {
		entry.Active = false
		if err := s.catalogRepo.Update(ctx, entry); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// GetEntry retrieves a catalog entry by ID
func (s *CatalogService) GetEntry(ctx context.Context, id uuid.UUID) (*entity.LaundryService, error) {
	entry, err := s.catalogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	return entry, nil
}

// UpdateEntry replaces a catalog entry. Deposits keep the price they were taken at.
func (s *CatalogService) UpdateEntry(ctx context.Context, id uuid.UUID, input *CatalogEntryInput) (*entity.LaundryService, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	entry.Name = strings.TrimSpace(input.Name)
	entry.Category = input.Category
	entry.UnitPrice = input.UnitPrice
	entry.Description = input.Description
	if input.Active != nil {
		entry.Active = *input.Active
	}

	if err := s.catalogRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry soft-deletes a catalog entry
func (s *CatalogService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEntry(ctx, id); err != nil {
		return err
	}
	return s.catalogRepo.Delete(ctx, id)
}

// ListEntries lists catalog entries. activeOnly hides entries withdrawn from the counter.
func (s *CatalogService) ListEntries(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) (*pagination.PaginatedResult[entity.LaundryService], error) {
	entries, total, err := s.catalogRepo.List(ctx, params, search, activeOnly)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(entries, pag), nil
}
