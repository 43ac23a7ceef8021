package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pressing-api/internal/infrastructure/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/utils"
	"go.uber.org/zap"
)

// UserService manages the counter operators of a tenant
type UserService struct {
	userRepo   repository.UserRepository
	agencyRepo repository.AgencyRepository
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, agencyRepo repository.AgencyRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, agencyRepo: agencyRepo, logger: logger}
}

// ListUsers returns the operators of the current tenant
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.List(ctx)
}

// CreateUserInput represents the input for creating an operator
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      enum.UserRole
	AgencyID  *uuid.UUID
}

func (s *UserService) checkAgency(ctx context.Context, agencyID *uuid.UUID) error {
	if agencyID == nil {
		return nil
	}
	agency, err := s.agencyRepo.GetByID(ctx, *agencyID)
	if err != nil {
		return err
	}
	if agency == nil {
		return apperror.NewFieldError("agency_id", "Unknown agency")
	}
	return nil
}

// CreateUser adds an operator to the current tenant
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.FirstName) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "first_name", Message: "First name is required"})
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "Invalid email address"})
	}
	if len(input.Password) < 8 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}
	if input.Role == "" {
		input.Role = enum.UserRoleOperator
	}
	if !input.Role.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "role", Message: "Unknown role"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}
	if err := s.checkAgency(ctx, input.AgencyID); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		TenantID:  tenantID,
		AgencyID:  input.AgencyID,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  hashedPassword,
		Role:      input.Role,
		Active:    true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Operator created", zap.String("user_id", user.ID.String()), zap.String("role", user.Role.String()))
	return user, nil
}

// UpdateUserInput represents the input for updating an operator. Nil fields are left unchanged.
type UpdateUserInput struct {
	ID       uuid.UUID
	ActorID  uuid.UUID
	Role     *enum.UserRole
	AgencyID *uuid.UUID
	Active   *bool
}

// UpdateUser changes the role, agency or activation of an operator of the current tenant
func (s *UserService) UpdateUser(ctx context.Context, input *UpdateUserInput) (*entity.User, error) {
	user, err := s.getTenantUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.ID == input.ActorID && ((input.Active != nil && !*input.Active) || (input.Role != nil && *input.Role != user.Role)) {
		return nil, apperror.NewBadRequestError("You cannot change your own role or disable your own account")
	}

	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewFieldError("role", "Unknown role")
		}
		user.Role = *input.Role
	}
	if input.AgencyID != nil {
		if err := s.checkAgency(ctx, input.AgencyID); err != nil {
			return nil, err
		}
		user.AgencyID = input.AgencyID
		user.Agency = nil
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// getTenantUser loads a user and hides users of other tenants.
func (s *UserService) getTenantUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != tenantID {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
