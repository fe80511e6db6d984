// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/easyretail/shop-backend/internal/config"
	"github.com/easyretail/shop-backend/internal/handlers"
	"github.com/easyretail/shop-backend/internal/middleware"
	"github.com/easyretail/shop-backend/internal/repository"
	"github.com/easyretail/shop-backend/internal/services"
	"github.com/easyretail/shop-backend/internal/utils"
)

type Dependencies struct {
	Config       *config.Config
	Repositories repository.Repositories
	Storage      *services.StorageService
	Logger       *logrus.Logger
}

// Initialize builds the engine. The returned func stops background work
// started for it.
func Initialize(deps Dependencies) (*gin.Engine, func()) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// Initialize services
	productService := services.NewProductService(deps.Repositories.Products)
	customerService := services.NewCustomerService(deps.Repositories.Customers)
	supplierService := services.NewSupplierService(deps.Repositories.Suppliers)
	orderService := services.NewOrderService(deps.Repositories.Orders, deps.Repositories.Customers, productService)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService, deps.Storage)
	customerHandler := handlers.NewCustomerHandler(customerService)
	supplierHandler := handlers.NewSupplierHandler(supplierService)
	orderHandler := handlers.NewOrderHandler(orderService)

	metrics := middleware.NewMetrics()
	limiter := middleware.PerMinute(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(logger, cfg.IsProduction()))
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.Static(cfg.Upload.PublicURL, cfg.Upload.Dir)

	api := r.Group("/api")
	api.Use(limiter.Middleware())
	{
		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.DELETE("", productHandler.DeleteAllProducts)
			products.GET("/stats", productHandler.GetStats)
			products.GET("/export", productHandler.ExportProducts)
			products.GET("/low-stock", productHandler.GetLowStock)
			products.GET("/out-of-stock", productHandler.GetOutOfStock)
			products.POST("/import", productHandler.ImportProducts)
			products.POST("/sales", productHandler.RecordSale)
			products.PATCH("/bulk", productHandler.BulkUpdate)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.PATCH("/:id/toggle-active", productHandler.ToggleActive)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		customers := api.Group("/customers")
		{
			customers.GET("", customerHandler.GetCustomers)
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("/search", customerHandler.SearchCustomers)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		suppliers := api.Group("/suppliers")
		{
			suppliers.GET("", supplierHandler.GetSuppliers)
			suppliers.POST("", supplierHandler.CreateSupplier)
			suppliers.GET("/search", supplierHandler.SearchSuppliers)
			suppliers.GET("/:id", supplierHandler.GetSupplier)
			suppliers.PUT("/:id", supplierHandler.UpdateSupplier)
			suppliers.DELETE("/:id", supplierHandler.DeleteSupplier)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", orderHandler.GetOrders)
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PATCH("/:id/status", orderHandler.UpdateStatus)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
		}
	}

	r.NoRoute(utils.RouteNotFoundResponse)

	return r, limiter.Stop
}
