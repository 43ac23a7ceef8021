package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pressing-api/internal/config"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/internal/infrastructure/logger"
	"github.com/sangkips/pressing-api/internal/presentation/http/handler"
	"github.com/sangkips/pressing-api/internal/presentation/http/middleware"
	"github.com/sangkips/pressing-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Tenant    *handler.TenantHandler
	User      *handler.UserHandler
	Customer  *handler.CustomerHandler
	Catalog   *handler.CatalogHandler
	Dashboard *handler.DashboardHandler
	Printer   *handler.PrinterHandler
	Deposit   *handler.DepositHandler
	Receipt   *handler.ReceiptHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
	// Ping reports database health. Optional.
	Ping func(ctx context.Context) error
	// Done stops the background cleanup of the rate limiter.
	Done <-chan struct{}
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(logger.GinMiddleware(deps.Logger))
	router.Use(logger.Recovery(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		if deps.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ping(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(&deps.Cfg.RateLimit), deps.Done)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes, limited per client IP
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerAuthRoutes(public, h)

		// Protected routes, limited per tenant
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	protected.GET("/dashboard", middleware.RequirePermission(entity.PermDashboardView), h.Dashboard.GetStats)

	registerTenantRoutes(protected, h)
	registerUserRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerCatalogRoutes(protected, h)
	registerDepositRoutes(protected, h, deps)
	registerPrinterRoutes(protected, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("/current", h.Tenant.GetCurrent)
		tenants.PUT("/current/settings", middleware.RequirePermission(entity.PermSettingsManage), h.Tenant.UpdateSettings)
	}

	agencies := protected.Group("/agencies")
	{
		agencies.GET("", h.Tenant.ListAgencies)
		agencies.POST("", middleware.RequirePermission(entity.PermAgenciesManage), h.Tenant.CreateAgency)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(entity.PermUsersManage))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.PUT("/:id", h.User.Update)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(entity.PermCustomersView))
	{
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.GET("/:id/deposits", h.Customer.Deposits)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	services := protected.Group("/services")
	{
		// Operators read the catalog to fill the intake form.
		services.GET("", h.Catalog.List)
		services.GET("/:id", h.Catalog.Get)

		manage := services.Group("")
		manage.Use(middleware.RequirePermission(entity.PermCatalogManage))
		manage.POST("", h.Catalog.Create)
		manage.PUT("/:id", h.Catalog.Update)
		manage.DELETE("/:id", h.Catalog.Delete)
	}
}

func registerDepositRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	view := middleware.RequirePermission(entity.PermDepositsView)
	idempotent := middleware.IdempotencyRequired(deps.IdempotencyRepo)

	deposits := protected.Group("/deposits")
	{
		deposits.GET("", view, h.Deposit.List)
		deposits.POST("", middleware.RequirePermission(entity.PermDepositsCreate), idempotent, h.Deposit.Create)
		deposits.POST("/quote", middleware.RequirePermission(entity.PermDepositsCreate), h.Deposit.Quote)
		deposits.GET("/number/:number", view, h.Deposit.GetByNumber)
		deposits.GET("/:id", view, h.Deposit.Get)
		deposits.PUT("/:id/status", middleware.RequirePermission(entity.PermDepositsUpdate), h.Deposit.UpdateStatus)
		deposits.POST("/:id/cancel", middleware.RequirePermission(entity.PermDepositsCancel), h.Deposit.Cancel)

		deposits.GET("/:id/payments", view, h.Deposit.ListPayments)
		deposits.POST("/:id/payments", middleware.RequirePermission(entity.PermPaymentsRecord), idempotent, h.Deposit.RecordPayment)
		deposits.POST("/:id/refund", middleware.RequirePermission(entity.PermPaymentsRefund), h.Deposit.Refund)
		deposits.GET("/:id/installments", view, h.Deposit.ListInstallments)

		deposits.GET("/:id/receipt", view, h.Receipt.Render)
		deposits.POST("/:id/receipt/print", middleware.RequirePermission(entity.PermReceiptsPrint), h.Receipt.Print)
		deposits.GET("/:id/receipt/message", view, h.Receipt.Message)
		deposits.POST("/:id/dispatch", middleware.RequirePermission(entity.PermReceiptsSend), h.Receipt.Dispatch)
		deposits.GET("/:id/dispatch", view, h.Receipt.DispatchStatus)
	}

	protected.GET("/installments/overdue", view, h.Deposit.ListOverdueInstallments)
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequirePermission(entity.PermReceiptsPrint))
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
