package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pressing-api/internal/config"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/event"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/pressing-api/internal/infrastructure/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// day0 is the intake instant used across service tests.
var day0 = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

type sequenceNumbers struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceNumbers) Next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%04d", prefix, s.n)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e event.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.GetEventType()
	}
	return types
}

func (p *recordingPublisher) last() event.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

type testEnv struct {
	db     *gorm.DB
	ctx    context.Context
	tenant *entity.Tenant
	events *recordingPublisher

	tx             repository.Transactor
	deposits       repository.DepositRepository
	installments   repository.InstallmentRepository
	payments       repository.PaymentRepository
	customers      repository.CustomerRepository
	catalog        repository.LaundryServiceRepository
	agencies       repository.AgencyRepository
	tenants        repository.TenantRepository
	users          repository.UserRepository
	dispatchLogs   repository.DispatchLogRepository
	analytics      repository.AnalyticsRepository
	numbers        *sequenceNumbers
	depositService *DepositService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	env := &testEnv{
		db:           db,
		events:       &recordingPublisher{},
		tx:           infraRepo.NewTransactor(db),
		deposits:     infraRepo.NewDepositRepository(db),
		installments: infraRepo.NewInstallmentRepository(db),
		payments:     infraRepo.NewPaymentRepository(db),
		customers:    infraRepo.NewCustomerRepository(db),
		catalog:      infraRepo.NewLaundryServiceRepository(db),
		agencies:     infraRepo.NewAgencyRepository(db),
		tenants:      infraRepo.NewTenantRepository(db),
		users:        infraRepo.NewUserRepository(db),
		dispatchLogs: infraRepo.NewDispatchLogRepository(db),
		analytics:    infraRepo.NewAnalyticsRepository(db),
		numbers:      &sequenceNumbers{},
	}

	env.tenant = &entity.Tenant{Name: "Pressing Étoile", Slug: "pressing-etoile", Settings: entity.DefaultTenantSettings()}
	require.NoError(t, env.tenants.Create(context.Background(), env.tenant))
	env.ctx = infraRepo.WithTenant(context.Background(), env.tenant.ID)

	env.depositService = NewDepositService(env.tx, env.deposits, env.installments, env.payments,
		env.customers, env.catalog, env.agencies, env.tenants, env.numbers, env.events, zap.NewNop())
	env.depositService.now = func() time.Time { return day0 }
	return env
}

func withTenant(tenantID uuid.UUID) context.Context {
	return infraRepo.WithTenant(context.Background(), tenantID)
}
