package service

import (
	"context"
	"time"

	"github.com/sangkips/pressing-api/internal/domain/enum"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
	"github.com/sangkips/pressing-api/pkg/locale"
	"github.com/shopspring/decimal"
)

// DashboardService provides dashboard statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	tenantRepo    repository.TenantRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository, tenantRepo repository.TenantRepository) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		tenantRepo:    tenantRepo,
		now:           time.Now,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	Currency            string           `json:"currency"`
	ByStatus            map[string]int64 `json:"by_status"`
	ByPaymentStatus     map[string]int64 `json:"by_payment_status"`
	OutstandingAmount   decimal.Decimal  `json:"outstanding_amount"`
	CollectedToday      decimal.Decimal  `json:"collected_today"`
	OverdueInstallments int64            `json:"overdue_installments"`
	Formatted           DashboardFigures `json:"formatted"`
}

// DashboardFigures holds the amounts formatted for display
type DashboardFigures struct {
	OutstandingAmount string `json:"outstanding_amount"`
	CollectedToday    string `json:"collected_today"`
}

// GetDashboardStats returns the counters of the current tenant. "Today" is the
// calendar day in the tenant's time zone.
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	_, settings, err := tenantContext(ctx, s.tenantRepo)
	if err != nil {
		return nil, err
	}
	fm, err := locale.New(settings.Currency, settings.Locale, settings.Timezone)
	if err != nil {
		return nil, apperror.NewInternalError("Invalid tenant localization settings", err)
	}

	stats := &DashboardStats{
		Currency:        fm.Currency(),
		ByStatus:        make(map[string]int64),
		ByPaymentStatus: make(map[string]int64),
	}
	// Every state is listed, with zero when no deposit is in it.
	for _, st := range enum.AllDepositStatuses() {
		stats.ByStatus[st.String()] = 0
	}
	for _, ps := range enum.AllPaymentStatuses() {
		stats.ByPaymentStatus[ps.String()] = 0
	}

	byStatus, err := s.analyticsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range byStatus {
		stats.ByStatus[c.Status.String()] = c.Count
	}

	byPayment, err := s.analyticsRepo.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range byPayment {
		stats.ByPaymentStatus[c.PaymentStatus.String()] = c.Count
	}

	if stats.OutstandingAmount, err = s.analyticsRepo.OutstandingAmount(ctx); err != nil {
		return nil, err
	}

	now := s.now().In(fm.Location())
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.CollectedToday, err = s.analyticsRepo.CollectedBetween(ctx, startOfDay.UTC(), startOfDay.AddDate(0, 0, 1).UTC()); err != nil {
		return nil, err
	}

	if stats.OverdueInstallments, err = s.analyticsRepo.OverdueInstallments(ctx, now.UTC()); err != nil {
		return nil, err
	}

	stats.Formatted = DashboardFigures{
		OutstandingAmount: fm.Money(stats.OutstandingAmount),
		CollectedToday:    fm.Money(stats.CollectedToday),
	}
	return stats, nil
}
