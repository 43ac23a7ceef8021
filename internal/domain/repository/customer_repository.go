package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// GetByPhone finds the tenant's customer with this phone number, or nil.
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// List returns customers with page-based pagination
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// ListWithCursor returns customers using cursor-based pagination
	ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error)
}

// LaundryServiceRepository defines the interface for the service catalog
type LaundryServiceRepository interface {
	Create(ctx context.Context, service *entity.LaundryService) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.LaundryService, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.LaundryService, error)
	Update(ctx context.Context, service *entity.LaundryService) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.LaundryService, int64, error)
}

// AgencyRepository defines the interface for agency data operations
type AgencyRepository interface {
	Create(ctx context.Context, agency *entity.Agency) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Agency, error)
	List(ctx context.Context) ([]entity.Agency, error)
}
