package router

import (
	"github.com/lecongphu/quan-ly-tap-hoa/internal/config"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/handler"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/middleware"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/model"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/repository"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/service"
	"github.com/lecongphu/quan-ly-tap-hoa/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	rateLimit, err := middleware.NewRateLimiter(rdb, cfg.RateLimitPerMin)
	if err != nil {
		log.Warn().Err(err).Msg("rate limiter disabled")
	} else {
		r.Use(rateLimit)
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	ledger := service.NewLedgerService(customerRepo)
	authSvc := service.NewAuthService(userRepo, cfg, dispatcher)
	customerSvc := service.NewCustomerService(customerRepo, saleRepo, paymentRepo)
	debtSvc := service.NewDebtService(saleRepo, paymentRepo, customerRepo, ledger, dispatcher)
	posSvc := service.NewPOSService(saleRepo, productRepo, batchRepo, ledger, dispatcher)
	catalogSvc := service.NewCatalogService(productRepo, categoryRepo, rdb)
	inventorySvc := service.NewInventoryService(batchRepo, productRepo, supplierRepo, poRepo, dispatcher, rdb)
	reportSvc := service.NewReportService(reportRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	debtH := handler.NewDebtHandler(debtSvc)
	posH := handler.NewPOSHandler(posSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc, cfg.ExpiryAlertDays)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	api := r.Group("/", jwtMW)
	{
		api.POST("/auth/logout", anyRole, authH.Logout)
		api.GET("/auth/me", anyRole, authH.Me)

		users := api.Group("/auth/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.DELETE("/:id", authH.DeactivateUser)
		}

		// Catalog — staff can read, admin writes
		api.GET("/catalog/categories", anyRole, catalogH.ListCategories)
		api.GET("/catalog/products", anyRole, catalogH.ListProducts)
		api.GET("/catalog/products/:id", anyRole, catalogH.GetProduct)
		catalog := api.Group("/catalog", adminOnly)
		{
			catalog.POST("/categories", catalogH.CreateCategory)
			catalog.POST("/products", catalogH.CreateProduct)
			catalog.PUT("/products/:id", catalogH.UpdateProduct)
			catalog.DELETE("/products/:id", catalogH.DeactivateProduct)
		}

		pos := api.Group("/pos", anyRole)
		{
			pos.POST("/checkout", posH.Checkout)
			pos.GET("/sales", posH.ListSales)
			pos.GET("/sales/:id", posH.GetSale)
			pos.GET("/customers", customersH.List)
			pos.POST("/sales/:id/lock", adminOnly, posH.Lock)
			pos.POST("/sales/:id/refund", adminOnly, posH.Refund)
		}

		debt := api.Group("/debt", anyRole)
		{
			debt.POST("/customers", customersH.Create)
			debt.GET("/customers", customersH.List)
			debt.GET("/customers/:id", customersH.Get)
			debt.PUT("/customers/:id", customersH.Update)
			debt.DELETE("/customers/:id", adminOnly, customersH.Deactivate)
			debt.GET("/customers/:id/history", customersH.History)

			debt.POST("/customers/:id/debt-lines", debtH.CreateDebtLine)
			debt.GET("/customers/:id/debt-lines", debtH.ListDebtLines)
			debt.PUT("/debt-lines/:id", adminOnly, debtH.UpdateDebtLine)
			debt.DELETE("/debt-lines/:id", adminOnly, debtH.DeleteDebtLine)

			debt.POST("/payments", debtH.CreatePayment)
			debt.GET("/customers/:id/payments", debtH.ListPayments)
			debt.PUT("/payments/:id", adminOnly, debtH.UpdatePayment)
			debt.DELETE("/payments/:id", adminOnly, debtH.DeletePayment)
		}

		inv := api.Group("/inventory", anyRole)
		{
			inv.POST("/stock-in", inventoryH.StockIn)
			inv.GET("/alerts", inventoryH.Alerts)
			inv.GET("/suppliers", inventoryH.ListSuppliers)
			inv.GET("/purchase-orders", inventoryH.ListPurchaseOrders)
			inv.GET("/purchase-orders/:id", inventoryH.GetPurchaseOrder)
		}
		invAdmin := api.Group("/inventory", adminOnly)
		{
			invAdmin.POST("/suppliers", inventoryH.CreateSupplier)
			invAdmin.PUT("/suppliers/:id", inventoryH.UpdateSupplier)
			invAdmin.DELETE("/suppliers/:id", inventoryH.DeactivateSupplier)
			invAdmin.POST("/purchase-orders", inventoryH.CreatePurchaseOrder)
			invAdmin.PUT("/purchase-orders/:id", inventoryH.UpdatePurchaseOrder)
			invAdmin.DELETE("/purchase-orders/:id", inventoryH.DeletePurchaseOrder)
		}

		reports := api.Group("/reports", anyRole)
		{
			reports.GET("/daily", reportsH.Daily)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
