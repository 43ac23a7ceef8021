package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&customer, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &customer, err
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return conn(ctx, r.db).Save(customer).Error
}

func searchCustomers(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	like := "%" + strings.ToLower(search) + "%"
	return query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
		like, like, "%"+search+"%")
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := searchCustomers(conn(ctx, r.db).Model(&entity.Customer{}).Scopes(TenantScope(ctx)), search)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&customers).Error

	return customers, total, err
}

// ListWithCursor returns customers using cursor-based pagination
// Fetches limit+1 items to detect if there are more results
func (r *customerRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	var customers []entity.Customer

	params.Validate()
	query := searchCustomers(conn(ctx, r.db).Model(&entity.Customer{}).Scopes(TenantScope(ctx)), search)

	cursor, err := params.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Limit + 1).
		Order("created_at ASC, id ASC").
		Find(&customers).Error

	return customers, err
}

type laundryServiceRepository struct {
	db *gorm.DB
}

// NewLaundryServiceRepository creates a new catalog repository
func NewLaundryServiceRepository(db *gorm.DB) domainRepo.LaundryServiceRepository {
	return &laundryServiceRepository{db: db}
}

func (r *laundryServiceRepository) Create(ctx context.Context, service *entity.LaundryService) error {
	return conn(ctx, r.db).Create(service).Error
}

func (r *laundryServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.LaundryService, error) {
	var service entity.LaundryService
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &service, err
}

// GetByIDs batch-loads catalog entries in one query
func (r *laundryServiceRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.LaundryService, error) {
	var services []entity.LaundryService
	if len(ids) == 0 {
		return services, nil
	}
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Where("id IN ?", ids).Find(&services).Error
	return services, err
}

func (r *laundryServiceRepository) Update(ctx context.Context, service *entity.LaundryService) error {
	return conn(ctx, r.db).Save(service).Error
}

func (r *laundryServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Delete(&entity.LaundryService{}, "id = ?", id).Error
}

func (r *laundryServiceRepository) List(ctx context.Context, params *pagination.PaginationParams, search string, activeOnly bool) ([]entity.LaundryService, int64, error) {
	var services []entity.LaundryService
	var total int64

	query := conn(ctx, r.db).Model(&entity.LaundryService{}).Scopes(TenantScope(ctx))
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("category ASC, name ASC").
		Find(&services).Error

	return services, total, err
}

type agencyRepository struct {
	db *gorm.DB
}

// NewAgencyRepository creates a new agency repository
func NewAgencyRepository(db *gorm.DB) domainRepo.AgencyRepository {
	return &agencyRepository{db: db}
}

func (r *agencyRepository) Create(ctx context.Context, agency *entity.Agency) error {
	return conn(ctx, r.db).Create(agency).Error
}

func (r *agencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Agency, error) {
	var agency entity.Agency
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&agency, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agency, err
}

func (r *agencyRepository) List(ctx context.Context) ([]entity.Agency, error) {
	var agencies []entity.Agency
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).Order("name ASC").Find(&agencies).Error
	return agencies, err
}
