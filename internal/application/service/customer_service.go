package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/pagination"
)

// CustomerService handles customer-related operations. Customers are created at intake.
type CustomerService struct {
	customerRepo repository.CustomerRepository
	depositRepo  repository.DepositRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, depositRepo repository.DepositRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, depositRepo: depositRepo}
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists the tenant's customers, optionally filtered by name or phone
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// ListCustomersWithCursor lists customers using cursor-based pagination
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, params *pagination.CursorParams, search string) (*pagination.CursorPaginatedResult[entity.Customer], error) {
	if _, err := params.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	customers, err := s.customerRepo.ListWithCursor(ctx, params, search)
	if err != nil {
		return nil, err
	}

	cursorPag, items := pagination.NewCursorPagination(customers, params,
		func(c entity.Customer) (string, time.Time) { return c.ID.String(), c.CreatedAt },
	)
	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// UpdateCustomerInput represents the update customer input. Nil fields are left unchanged.
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Email   *string
	Address *string
	Notes   *string
}

// UpdateCustomer edits the contact details of a customer. The phone is the customer's
// identity within the tenant and cannot be changed.
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		customer.Name = name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// ListDeposits returns the deposits of one customer, newest first
func (s *CustomerService) ListDeposits(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Deposit], error) {
	if _, err := s.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	deposits, total, err := s.depositRepo.List(ctx, &repository.DepositFilterParams{
		DepositFilter: repository.DepositFilter{CustomerID: &customerID},
		Pagination:    params,
	})
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(deposits, pag), nil
}
