package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/pressing-api/internal/application/receipt"
	"github.com/sangkips/pressing-api/internal/application/service"
	"github.com/sangkips/pressing-api/internal/config"
	"github.com/sangkips/pressing-api/internal/domain/event"
	"github.com/sangkips/pressing-api/internal/infrastructure/database"
	"github.com/sangkips/pressing-api/internal/infrastructure/logger"
	"github.com/sangkips/pressing-api/internal/infrastructure/messaging"
	"github.com/sangkips/pressing-api/internal/infrastructure/notification"
	"github.com/sangkips/pressing-api/internal/infrastructure/repository"
	"github.com/sangkips/pressing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pressing-api/internal/presentation/http/handler"
	"github.com/sangkips/pressing-api/internal/presentation/http/middleware"
	"github.com/sangkips/pressing-api/internal/presentation/http/routes"
	"github.com/sangkips/pressing-api/pkg/email"
	"github.com/sangkips/pressing-api/pkg/printer"
	"github.com/sangkips/pressing-api/pkg/utils"
	"github.com/sangkips/pressing-api/pkg/whatsapp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	for _, w := range cfg.Warnings {
		zapLogger.Warn(w)
	}

	// Set Gin mode based on environment
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := database.Bootstrap(db, &cfg.Bootstrap, &cfg.Receipt, zapLogger); err != nil {
		zapLogger.Warn("Failed to bootstrap first tenant", zap.Error(err))
	}

	if err := request.RegisterValidators(); err != nil {
		zapLogger.Fatal("Failed to register validators", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	numbers, err := utils.NewNumberGenerator(cfg.Receipt.NumberNode)
	if err != nil {
		zapLogger.Fatal("Failed to create number generator", zap.Error(err))
	}

	// Domain events go to Redis streams when enabled, to the log otherwise.
	var events event.Publisher = messaging.NewLogPublisher(zapLogger)
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			zapLogger.Warn("Redis unreachable, events will only be logged", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			events = messaging.NewRedisEventPublisher(rdb, cfg.Redis.StreamMaxLen, zapLogger)
		}
	}

	// Initialize repositories
	tx := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	agencyRepo := repository.NewAgencyRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	catalogRepo := repository.NewLaundryServiceRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	installmentRepo := repository.NewInstallmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	dispatchLogRepo := repository.NewDispatchLogRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Receipt transports
	whatsappClient := whatsapp.NewClient(ctx, whatsapp.Config{
		BaseURL:      cfg.WhatsApp.BaseURL,
		ClientID:     cfg.WhatsApp.ClientID,
		ClientSecret: cfg.WhatsApp.ClientSecret,
		TokenURL:     cfg.WhatsApp.TokenURL,
		Sender:       cfg.WhatsApp.Sender,
		Timeout:      cfg.WhatsApp.Timeout,
	})
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		zapLogger.Warn("Failed to initialize printer", zap.String("type", cfg.Printer.Type), zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, zapLogger)
	tenantService := service.NewTenantService(tenantRepo, agencyRepo, zapLogger)
	userService := service.NewUserService(userRepo, agencyRepo, zapLogger)
	customerService := service.NewCustomerService(customerRepo, depositRepo)
	catalogService := service.NewCatalogService(catalogRepo, tenantRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, tenantRepo)
	depositService := service.NewDepositService(tx, depositRepo, installmentRepo, paymentRepo,
		customerRepo, catalogRepo, agencyRepo, tenantRepo, numbers, events, zapLogger)
	receiptService := service.NewReceiptService(depositRepo, tenantRepo,
		receipt.NewComposer(cfg.Printer.CharWidth), thermalPrinter, zapLogger)
	printerService := service.NewPrinterService(thermalPrinter, cfg.Printer.CharWidth, zapLogger)
	dispatchService := service.NewDispatchService(depositRepo, tenantRepo, dispatchLogRepo, events, zapLogger,
		notification.NewWhatsAppTransport(whatsappClient),
		notification.NewEmailTransport(emailService),
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Tenant:    handler.NewTenantHandler(tenantService),
		User:      handler.NewUserHandler(userService),
		Customer:  handler.NewCustomerHandler(customerService),
		Catalog:   handler.NewCatalogHandler(catalogService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Printer:   handler.NewPrinterHandler(printerService),
		Deposit:   handler.NewDepositHandler(depositService),
		Receipt:   handler.NewReceiptHandler(receiptService, dispatchService),
	}

	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("Failed to access database pool", zap.Error(err))
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          zapLogger,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
		Ping:            sqlDB.PingContext,
		Done:            ctx.Done(),
	})

	go middleware.PurgeIdempotencyKeys(idempotencyRepo, time.Hour, zapLogger, ctx.Done())

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		zapLogger.Warn("Failed to close database", zap.Error(err))
	}
}
