package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/event"
	"github.com/sangkips/pressing-api/internal/domain/pricing"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	infraRepo "github.com/sangkips/pressing-api/internal/infrastructure/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/locale"
	"github.com/sangkips/pressing-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NumberSource hands out business-facing deposit numbers.
type NumberSource interface {
	Next(prefix string) string
}

// DepositService owns the deposit lifecycle: intake, fulfillment transitions,
// payments and refunds.
type DepositService struct {
	tx              repository.Transactor
	depositRepo     repository.DepositRepository
	installmentRepo repository.InstallmentRepository
	paymentRepo     repository.PaymentRepository
	customerRepo    repository.CustomerRepository
	catalogRepo     repository.LaundryServiceRepository
	agencyRepo      repository.AgencyRepository
	tenantRepo      repository.TenantRepository
	numbers         NumberSource
	events          event.Publisher
	logger          *zap.Logger
	now             func() time.Time
}

// NewDepositService creates a new deposit service
func NewDepositService(
	tx repository.Transactor,
	depositRepo repository.DepositRepository,
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	catalogRepo repository.LaundryServiceRepository,
	agencyRepo repository.AgencyRepository,
	tenantRepo repository.TenantRepository,
	numbers NumberSource,
	events event.Publisher,
	logger *zap.Logger,
) *DepositService {
	return &DepositService{
		tx:              tx,
		depositRepo:     depositRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		customerRepo:    customerRepo,
		catalogRepo:     catalogRepo,
		agencyRepo:      agencyRepo,
		tenantRepo:      tenantRepo,
		numbers:         numbers,
		events:          events,
		logger:          logger,
		now:             time.Now,
	}
}

// DepositItemInput is one article typed at the counter. When ServiceID is set,
// missing name, category and price are taken from the catalog.
type DepositItemInput struct {
	ServiceID           *uuid.UUID
	Name                string
	Category            *enum.ItemCategory
	Quantity            int
	UnitPrice           *decimal.Decimal
	SpecialInstructions *string
}

// CreateDepositInput represents the intake form
type CreateDepositInput struct {
	ActorID   uuid.UUID
	ActorName string
	AgencyID  *uuid.UUID

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	CollectionAddress string
	CollectionDate    time.Time
	CollectionTime    string
	CollectionNotes   *string
	DeliveryAddress   *string
	DeliveryDate      *time.Time
	DeliveryTime      *string
	DeliveryNotes     *string

	Items          []DepositItemInput
	PaymentMethod  enum.PaymentMethod
	PaidAmount     decimal.Decimal
	DiscountAmount decimal.Decimal

	IsInstallmentPayment bool
	InstallmentCount     int
	InstallmentInterval  int
}

// tenantContext loads the tenant of ctx with its settings completed by the defaults.
func tenantContext(ctx context.Context, tenantRepo repository.TenantRepository) (*entity.Tenant, entity.TenantSettings, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, entity.TenantSettings{}, apperror.NewBadRequestError("Tenant context required")
	}
	tenant, err := tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, entity.TenantSettings{}, err
	}
	if tenant == nil {
		return nil, entity.TenantSettings{}, apperror.NewNotFoundError("Tenant")
	}
	return tenant, tenant.Settings.WithDefaults(), nil
}

// resolveItems fills catalog defaults and returns the priced items with their pricing lines.
func (s *DepositService) resolveItems(ctx context.Context, inputs []DepositItemInput, fm *locale.Formatter) ([]entity.DepositItem, []pricing.Line, error) {
	if len(inputs) == 0 {
		return nil, nil, translate(pricing.ErrNoItems)
	}

	// Batch fetch the referenced catalog entries in one query
	var ids []uuid.UUID
	for _, in := range inputs {
		if in.ServiceID != nil {
			ids = append(ids, *in.ServiceID)
		}
	}
	catalog := make(map[uuid.UUID]*entity.LaundryService, len(ids))
	if len(ids) > 0 {
		services, err := s.catalogRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		for i := range services {
			catalog[services[i].ID] = &services[i]
		}
	}

	items := make([]entity.DepositItem, len(inputs))
	lines := make([]pricing.Line, len(inputs))
	for i, in := range inputs {
		item := entity.DepositItem{
			ServiceID:           in.ServiceID,
			Name:                strings.TrimSpace(in.Name),
			Quantity:            in.Quantity,
			SpecialInstructions: in.SpecialInstructions,
			Position:            i,
		}
		if in.Category != nil {
			item.Category = *in.Category
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}

		if in.ServiceID != nil {
			svc, ok := catalog[*in.ServiceID]
			if !ok || !svc.Active {
				return nil, nil, apperror.NewFieldError(fmt.Sprintf("items[%d].service_id", i), "Service not found or inactive")
			}
			if item.Name == "" {
				item.Name = svc.Name
			}
			if in.Category == nil {
				item.Category = svc.Category
			}
			if in.UnitPrice == nil {
				item.UnitPrice = svc.UnitPrice
			}
		}

		if item.Name == "" {
			return nil, nil, apperror.NewFieldError(fmt.Sprintf("items[%d].name", i), "Item name is required")
		}
		if !item.Category.IsValid() {
			return nil, nil, apperror.NewFieldError(fmt.Sprintf("items[%d].category", i), "Unknown item category")
		}
		if !fm.FitsScale(item.UnitPrice) {
			return nil, nil, apperror.NewFieldError(fmt.Sprintf("items[%d].unit_price", i), pricing.ErrAmountPrecision.Error())
		}

		item.TotalPrice = pricing.LineTotal(item.Quantity, item.UnitPrice)
		items[i] = item
		lines[i] = item.Line()
	}

	if err := pricing.ValidateItems(lines); err != nil {
		return nil, nil, translate(err)
	}
	return items, lines, nil
}

// QuoteInput is the live state of the intake form
type QuoteInput struct {
	Items                []DepositItemInput
	DiscountAmount       decimal.Decimal
	PaidAmount           decimal.Decimal
	IsInstallmentPayment bool
	InstallmentCount     int
	InstallmentInterval  int
	StartDate            time.Time
}

// Quote is the priced preview of an intake form
type Quote struct {
	Currency        string                         `json:"currency"`
	Items           []entity.DepositItem           `json:"items"`
	Totals          pricing.Totals                 `json:"totals"`
	PaidAmount      decimal.Decimal                `json:"paid_amount"`
	RemainingAmount decimal.Decimal                `json:"remaining_amount"`
	PaymentStatus   enum.PaymentStatus             `json:"payment_status"`
	Installments    []pricing.ScheduledInstallment `json:"installments,omitempty"`
}

// Quote prices a form without writing anything. It is safe to call on every edit.
func (s *DepositService) Quote(ctx context.Context, input *QuoteInput) (*Quote, error) {
	_, settings, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}
	fm, err := locale.New(settings.Currency, settings.Locale, settings.Timezone)
	if err != nil {
		return nil, apperror.NewInternalError("Invalid tenant localization settings", err)
	}

	items, lines, err := s.resolveItems(ctx, input.Items, fm)
	if err != nil {
		return nil, err
	}

	totals, remaining, err := priceDeposit(lines, input.DiscountAmount, input.PaidAmount, fm)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		Currency:        fm.Currency(),
		Items:           items,
		Totals:          totals,
		PaidAmount:      input.PaidAmount,
		RemainingAmount: remaining,
		PaymentStatus:   entity.DerivePaymentStatus(input.PaidAmount, totals.Total),
	}

	if input.IsInstallmentPayment {
		count, interval := planDefaults(input.InstallmentCount, input.InstallmentInterval, settings)
		start := input.StartDate
		if start.IsZero() {
			start = s.now()
		}
		q.Installments, err = schedule(remaining, count, interval, start, fm.Scale())
		if err != nil {
			return nil, err
		}
	}
	return q, nil
}

// priceDeposit validates the discount and the up-front payment against the item lines.
func priceDeposit(lines []pricing.Line, discount, paid decimal.Decimal, fm *locale.Formatter) (pricing.Totals, decimal.Decimal, error) {
	subtotal := pricing.ComputeTotals(lines, decimal.Zero).Subtotal
	if err := pricing.ValidateDiscount(discount, subtotal); err != nil {
		return pricing.Totals{}, decimal.Zero, translate(err)
	}
	if !fm.FitsScale(discount) {
		return pricing.Totals{}, decimal.Zero, apperror.NewFieldError("discount_amount", pricing.ErrAmountPrecision.Error())
	}

	totals := pricing.ComputeTotals(lines, discount)
	if paid.IsNegative() {
		return pricing.Totals{}, decimal.Zero, translate(entity.ErrUpfrontNegative)
	}
	if paid.GreaterThan(totals.Total) {
		return pricing.Totals{}, decimal.Zero, translate(entity.ErrUpfrontExceedsTotal)
	}
	if !fm.FitsScale(paid) {
		return pricing.Totals{}, decimal.Zero, apperror.NewFieldError("paid_amount", pricing.ErrAmountPrecision.Error())
	}
	return totals, pricing.Remaining(totals.Total, paid), nil
}

func planDefaults(count, interval int, settings entity.TenantSettings) (int, int) {
	if count == 0 {
		count = settings.DefaultInstallmentCount
	}
	if interval == 0 {
		interval = settings.DefaultInstallmentInterval
	}
	return count, interval
}

func schedule(remaining decimal.Decimal, count, interval int, start time.Time, scale int32) ([]pricing.ScheduledInstallment, error) {
	if !remaining.IsPositive() {
		return nil, translate(fmt.Errorf("%w: %w", entity.ErrInstallmentPlanRequired, pricing.ErrNothingToSchedule))
	}
	plan, err := pricing.Schedule(remaining, count, interval, start, scale)
	if err != nil {
		return nil, translate(err)
	}
	return plan, nil
}

// CreateDeposit validates and prices the intake form, then writes the deposit, its
// items, its installment plan and the up-front payment in one transaction.
func (s *DepositService) CreateDeposit(ctx context.Context, input *CreateDepositInput) (*entity.Deposit, error) {
	tenant, settings, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}
	fm, err := locale.New(settings.Currency, settings.Locale, settings.Timezone)
	if err != nil {
		return nil, apperror.NewInternalError("Invalid tenant localization settings", err)
	}

	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, translate(entity.ErrCustomerNameRequired)
	}
	phone := strings.TrimSpace(input.CustomerPhone)
	if phone == "" {
		return nil, translate(entity.ErrCustomerPhoneRequired)
	}
	if !input.PaymentMethod.IsValid() {
		return nil, apperror.NewFieldError("payment_method", "Unknown payment method")
	}

	items, lines, err := s.resolveItems(ctx, input.Items, fm)
	if err != nil {
		return nil, err
	}
	totals, remaining, err := priceDeposit(lines, input.DiscountAmount, input.PaidAmount, fm)
	if err != nil {
		return nil, err
	}

	now := s.now()
	deposit := &entity.Deposit{
		TenantID:          tenant.ID,
		AgencyID:          input.AgencyID,
		CreatedByID:       input.ActorID,
		DepositNumber:     s.numbers.Next(settings.DepositPrefix),
		CustomerName:      name,
		CustomerPhone:     phone,
		CustomerEmail:     input.CustomerEmail,
		CollectionAddress: strings.TrimSpace(input.CollectionAddress),
		CollectionDate:    input.CollectionDate,
		CollectionTime:    input.CollectionTime,
		CollectionNotes:   input.CollectionNotes,
		DeliveryAddress:   input.DeliveryAddress,
		DeliveryDate:      input.DeliveryDate,
		DeliveryTime:      input.DeliveryTime,
		DeliveryNotes:     input.DeliveryNotes,
		Currency:          fm.Currency(),
		Subtotal:          totals.Subtotal,
		DiscountAmount:    totals.Discount,
		TotalAmount:       totals.Total,
		UpfrontAmount:     input.PaidAmount,
		PaidAmount:        input.PaidAmount,
		RefundedAmount:    decimal.Zero,
		Status:            enum.DepositStatusNew,
		PaymentMethod:     input.PaymentMethod,
		CreatedByName:     input.ActorName,
		TenantName:        tenant.Name,
		Version:           1,
		Items:             items,
	}
	if deposit.CollectionDate.IsZero() {
		deposit.CollectionDate = now
	}
	deposit.Settle()

	if input.AgencyID != nil {
		agency, err := s.agencyRepo.GetByID(ctx, *input.AgencyID)
		if err != nil {
			return nil, err
		}
		if agency == nil {
			return nil, apperror.NewFieldError("agency_id", "Agency not found")
		}
		deposit.AgencyName = agency.Name
	}

	if input.IsInstallmentPayment {
		count, interval := planDefaults(input.InstallmentCount, input.InstallmentInterval, settings)
		plan, err := schedule(remaining, count, interval, now, fm.Scale())
		if err != nil {
			return nil, err
		}
		deposit.IsInstallmentPayment = true
		deposit.InstallmentCount = count
		deposit.InstallmentInterval = interval
		for _, p := range plan {
			deposit.Installments = append(deposit.Installments, entity.Installment{
				InstallmentNumber: p.Number,
				Amount:            p.Amount,
				DueDate:           p.DueDate,
				Status:            enum.InstallmentStatusPending,
			})
		}
	}

	if deposit.PaidAmount.IsPositive() {
		note := "Acompte"
		deposit.Payments = []entity.Payment{{
			Kind:         enum.PaymentKindPayment,
			Amount:       deposit.PaidAmount,
			Method:       input.PaymentMethod,
			Note:         &note,
			RecordedByID: input.ActorID,
			RecordedAt:   now,
		}}
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		customerID, err := s.upsertCustomer(ctx, tenant.ID, name, phone, input.CustomerEmail)
		if err != nil {
			return err
		}
		deposit.CustomerID = &customerID
		return s.depositRepo.Create(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit created",
		zap.String("deposit_id", deposit.ID.String()),
		zap.String("deposit_number", deposit.DepositNumber),
		zap.String("total", deposit.TotalAmount.String()),
		zap.Int("installments", len(deposit.Installments)),
	)
	s.publish(ctx, event.NewDepositCreated(deposit.TenantID, deposit.ID, deposit.DepositNumber, deposit.CustomerPhone,
		deposit.TotalAmount, deposit.PaidAmount, len(deposit.Installments), now))

	return deposit, nil
}

// upsertCustomer returns the tenant's customer with this phone, creating it or
// refreshing its name and email.
func (s *DepositService) upsertCustomer(ctx context.Context, tenantID uuid.UUID, name, phone string, email *string) (uuid.UUID, error) {
	customer, err := s.customerRepo.GetByPhone(ctx, phone)
	if err != nil {
		return uuid.Nil, err
	}
	if customer == nil {
		customer = &entity.Customer{TenantID: tenantID, Name: name, Phone: phone, Email: email}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return uuid.Nil, err
		}
		return customer.ID, nil
	}

	if customer.Name != name || (email != nil && (customer.Email == nil || *customer.Email != *email)) {
		customer.Name = name
		if email != nil {
			customer.Email = email
		}
		if err := s.customerRepo.Update(ctx, customer); err != nil {
			return uuid.Nil, err
		}
	}
	return customer.ID, nil
}

// mutate loads a deposit inside a transaction, applies fn and writes the new state
// with a compare-and-set on its version.
func (s *DepositService) mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, d *entity.Deposit) error) (*entity.Deposit, error) {
	var deposit *entity.Deposit
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		d, err := s.depositRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return apperror.NewNotFoundError("Deposit")
		}
		if err := fn(ctx, d); err != nil {
			return err
		}
		deposit = d
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return deposit, nil
}

// AdvanceStatus moves a deposit one step along NEW → CONFIRMED → IN_PROGRESS → READY → DELIVERED.
func (s *DepositService) AdvanceStatus(ctx context.Context, id uuid.UUID, target enum.DepositStatus) (*entity.Deposit, error) {
	var from enum.DepositStatus
	now := s.now()

	deposit, err := s.mutate(ctx, id, func(ctx context.Context, d *entity.Deposit) error {
		from = d.Status
		if err := d.TransitionTo(target, now); err != nil {
			return err
		}
		return s.depositRepo.UpdateState(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit status changed",
		zap.String("deposit_number", deposit.DepositNumber),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
	)
	s.publish(ctx, event.NewDepositStatusChanged(deposit.TenantID, deposit.ID, deposit.DepositNumber,
		from.String(), target.String(), "", now))
	return deposit, nil
}

// Cancel stops a deposit that has not been delivered. Payments are kept; see Refund.
func (s *DepositService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*entity.Deposit, error) {
	var from enum.DepositStatus
	now := s.now()

	deposit, err := s.mutate(ctx, id, func(ctx context.Context, d *entity.Deposit) error {
		from = d.Status
		if err := d.Cancel(reason, now); err != nil {
			return err
		}
		return s.depositRepo.UpdateState(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit cancelled",
		zap.String("deposit_number", deposit.DepositNumber),
		zap.String("from", from.String()),
	)
	s.publish(ctx, event.NewDepositStatusChanged(deposit.TenantID, deposit.ID, deposit.DepositNumber,
		from.String(), enum.DepositStatusCancelled.String(), *deposit.CancelReason, now))
	return deposit, nil
}

// ApplyPaymentInput represents a payment taken at the counter
type ApplyPaymentInput struct {
	DepositID     uuid.UUID
	Amount        decimal.Decimal
	Method        enum.PaymentMethod
	InstallmentID *uuid.UUID
	Note          string
	ActorID       uuid.UUID
}

// PaymentResult is the deposit after a payment and the ledger row that recorded it
type PaymentResult struct {
	Deposit *entity.Deposit `json:"deposit"`
	Payment *entity.Payment `json:"payment"`
}

// ApplyPayment adds a payment to a deposit. With an installment id the amount must
// match that installment, which flips to PAID. Without one the money goes to the
// pending installments in plan order, each flipping to PAID once fully covered. Once
// the deposit is fully paid every installment still pending is settled as well.
func (s *DepositService) ApplyPayment(ctx context.Context, input *ApplyPaymentInput) (*PaymentResult, error) {
	if !input.Method.IsValid() {
		return nil, apperror.NewFieldError("method", "Unknown payment method")
	}

	now := s.now()
	var payment *entity.Payment

	deposit, err := s.mutate(ctx, input.DepositID, func(ctx context.Context, d *entity.Deposit) error {
		scale, err := locale.Scale(d.Currency)
		if err != nil {
			return err
		}
		if !input.Amount.Equal(input.Amount.Truncate(scale)) {
			return pricing.ErrAmountPrecision
		}

		var target *entity.Installment
		if input.InstallmentID != nil {
			target = d.FindInstallment(*input.InstallmentID)
			if target == nil {
				return entity.ErrInstallmentNotFound
			}
			if target.Status == enum.InstallmentStatusPaid {
				return entity.ErrInstallmentAlreadyPaid
			}
			if !input.Amount.Equal(target.Amount) {
				return fmt.Errorf("%w: expected %s", entity.ErrInstallmentMismatch, target.Amount)
			}
		}

		if err := d.ApplyPayment(input.Amount); err != nil {
			return err
		}
		if err := s.depositRepo.UpdateState(ctx, d); err != nil {
			return err
		}

		var settle []*entity.Installment
		switch {
		case d.PaymentStatus == enum.PaymentStatusPaid:
			settle = d.PendingInstallments()
		case target != nil:
			settle = []*entity.Installment{target}
		default:
			settle = d.CoveredInstallments()
		}
		for _, inst := range settle {
			if err := inst.MarkPaid(input.Method, now, input.Note); err != nil {
				return err
			}
			if err := s.installmentRepo.MarkPaid(ctx, inst); err != nil {
				return err
			}
		}

		payment = &entity.Payment{
			TenantID:      d.TenantID,
			DepositID:     d.ID,
			InstallmentID: input.InstallmentID,
			Kind:          enum.PaymentKindPayment,
			Amount:        input.Amount,
			Method:        input.Method,
			RecordedByID:  input.ActorID,
			RecordedAt:    now,
		}
		if input.Note != "" {
			payment.Note = &input.Note
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		d.Payments = append(d.Payments, *payment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment recorded",
		zap.String("deposit_number", deposit.DepositNumber),
		zap.String("amount", input.Amount.String()),
		zap.String("payment_status", deposit.PaymentStatus.String()),
	)

	e := event.NewPaymentRecorded(deposit.TenantID, deposit.ID, deposit.DepositNumber, now)
	e.PaymentID = payment.ID.String()
	if input.InstallmentID != nil {
		e.InstallmentID = input.InstallmentID.String()
	}
	e.Amount = payment.Amount
	e.Method = payment.Method.String()
	e.PaidAmount = deposit.PaidAmount
	e.RemainingAmount = deposit.RemainingAmount
	e.PaymentStatus = deposit.PaymentStatus.String()
	s.publish(ctx, e)

	return &PaymentResult{Deposit: deposit, Payment: payment}, nil
}

// RefundInput represents a refund request
type RefundInput struct {
	DepositID uuid.UUID
	Reason    string
	Method    *enum.PaymentMethod
	ActorID   uuid.UUID
}

// Refund gives the whole paid amount back. It is allowed on fully paid deposits and on
// cancelled deposits holding payments. PaidAmount is kept as history and a REFUND row
// is added to the ledger.
func (s *DepositService) Refund(ctx context.Context, input *RefundInput) (*PaymentResult, error) {
	now := s.now()
	var payment *entity.Payment

	deposit, err := s.mutate(ctx, input.DepositID, func(ctx context.Context, d *entity.Deposit) error {
		amount, err := d.Refund(input.Reason, now)
		if err != nil {
			return err
		}
		if err := s.depositRepo.UpdateState(ctx, d); err != nil {
			return err
		}

		method := d.PaymentMethod
		if input.Method != nil {
			method = *input.Method
		}
		payment = &entity.Payment{
			TenantID:     d.TenantID,
			DepositID:    d.ID,
			Kind:         enum.PaymentKindRefund,
			Amount:       amount,
			Method:       method,
			Note:         d.RefundReason,
			RecordedByID: input.ActorID,
			RecordedAt:   now,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		d.Payments = append(d.Payments, *payment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deposit refunded",
		zap.String("deposit_number", deposit.DepositNumber),
		zap.String("amount", payment.Amount.String()),
	)
	s.publish(ctx, event.NewDepositRefunded(deposit.TenantID, deposit.ID, deposit.DepositNumber,
		payment.Amount, *deposit.RefundReason, now))

	return &PaymentResult{Deposit: deposit, Payment: payment}, nil
}

// GetDeposit retrieves a deposit with its items, installments and payments
func (s *DepositService) GetDeposit(ctx context.Context, id uuid.UUID) (*entity.Deposit, error) {
	deposit, err := s.depositRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, apperror.NewNotFoundError("Deposit")
	}
	return deposit, nil
}

// GetByNumber retrieves a deposit by its business number
func (s *DepositService) GetByNumber(ctx context.Context, number string) (*entity.Deposit, error) {
	deposit, err := s.depositRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, apperror.NewNotFoundError("Deposit")
	}
	return deposit, nil
}

// ListDeposits lists deposits with filtering
func (s *DepositService) ListDeposits(ctx context.Context, params *repository.DepositFilterParams) (*pagination.PaginatedResult[entity.Deposit], error) {
	deposits, total, err := s.depositRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(deposits, pag), nil
}

// ListDepositsWithCursor lists deposits with cursor-based pagination
func (s *DepositService) ListDepositsWithCursor(ctx context.Context, params *repository.DepositCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Deposit], error) {
	if params.Cursor == nil {
		params.Cursor = pagination.DefaultCursorParams()
	}
	if _, err := params.Cursor.DecodeCursor(); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	deposits, err := s.depositRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	cursorPag, items := pagination.NewCursorPagination(deposits, params.Cursor,
		func(d entity.Deposit) (string, time.Time) { return d.ID.String(), d.CreatedAt },
	)
	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// ListInstallments returns the plan of a deposit
func (s *DepositService) ListInstallments(ctx context.Context, depositID uuid.UUID) ([]entity.Installment, error) {
	if _, err := s.GetDeposit(ctx, depositID); err != nil {
		return nil, err
	}
	return s.installmentRepo.ListByDeposit(ctx, depositID)
}

// ListPayments returns the payment ledger of a deposit
func (s *DepositService) ListPayments(ctx context.Context, depositID uuid.UUID) ([]entity.Payment, error) {
	if _, err := s.GetDeposit(ctx, depositID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByDeposit(ctx, depositID)
}

// ListOverdueInstallments returns pending installments of open deposits already due
func (s *DepositService) ListOverdueInstallments(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Installment], error) {
	installments, total, err := s.installmentRepo.ListOverdue(ctx, s.now(), params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(installments, pag), nil
}

// publish hands an event to the publisher after commit. Failures are logged only.
func (s *DepositService) publish(ctx context.Context, e event.DomainEvent) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("event_type", e.GetEventType()),
			zap.String("aggregate_id", e.GetAggregateID()),
			zap.Error(err),
		)
	}
}
