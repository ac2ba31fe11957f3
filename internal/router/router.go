package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/DanielCanisOrtega/tienda-backend/internal/config"
	"github.com/DanielCanisOrtega/tienda-backend/internal/handler"
	"github.com/DanielCanisOrtega/tienda-backend/internal/middleware"
	"github.com/DanielCanisOrtega/tienda-backend/internal/repository"
	"github.com/DanielCanisOrtega/tienda-backend/internal/service"
	"github.com/DanielCanisOrtega/tienda-backend/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	tillRepo := repository.NewTillRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	accessSvc := service.NewAccessService(storeRepo)
	authSvc := service.NewAuthService(userRepo, cfg)
	storeSvc := service.NewStoreService(storeRepo, userRepo, accessSvc)
	priceCache := service.NewPriceCache(rdb)
	productSvc := service.NewProductService(productRepo, movementRepo, accessSvc, priceCache)
	tillSvc := service.NewTillService(tillRepo, accessSvc)
	saleSvc := service.NewSaleService(saleRepo, productRepo, movementRepo, tillSvc, accessSvc, dispatcher, cfg.ReceiptStoragePath)
	expenseSvc := service.NewExpenseService(expenseRepo, tillSvc, accessSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	storesH := handler.NewStoresHandler(storeSvc)
	productsH := handler.NewProductsHandler(productSvc)
	priceH := handler.NewPriceCheckHandler(productSvc)
	tillsH := handler.NewTillsHandler(tillSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required (self-service scanners)
	r.GET("/v1/price/:barcode", priceH.ByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		users := v1.Group("/users")
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
		}

		v1.POST("/stores", storesH.Create)
		v1.GET("/stores", storesH.List)

		store := v1.Group("/stores/:store_id")
		{
			store.GET("", storesH.Get)
			store.PUT("", storesH.Update)
			store.DELETE("", storesH.Delete)

			store.POST("/employees", storesH.AddEmployee)
			store.GET("/employees", storesH.ListEmployees)
			store.DELETE("/employees/:user_id", storesH.RemoveEmployee)

			store.POST("/products", productsH.Create)
			store.GET("/products", productsH.List)
			store.GET("/products/available", productsH.ListAvailable)
			store.GET("/products/:product_id", productsH.Get)
			store.PUT("/products/:product_id", productsH.Update)
			store.PATCH("/products/:product_id/quantity", productsH.AdjustQuantity)
			store.GET("/products/:product_id/movements", productsH.Movements)
			store.DELETE("/products/:product_id", productsH.Delete)

			store.POST("/tills", tillsH.Open)
			store.GET("/tills", tillsH.ListByStore)

			store.POST("/sales", salesH.Create)
			store.GET("/sales", salesH.List)
			store.GET("/sales/:sale_id", salesH.Get)

			store.POST("/expenses", expensesH.Record)
			store.GET("/expenses", expensesH.List)
			store.GET("/expenses/by-category", expensesH.ByCategory)
		}

		v1.GET("/tills/:till_id", tillsH.Get)
		v1.POST("/tills/:till_id/close", tillsH.Close)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
