package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shopscribe/shopscribe-backend/internal/handlers"
	"github.com/shopscribe/shopscribe-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	ProductHandler   *handlers.ProductHandler
	CartHandler      *handlers.CartHandler
	ReceiptHandler   *handlers.ReceiptHandler
	DashboardHandler *handlers.DashboardHandler
	ShopHandler      *handlers.ShopHandler

	AllowOrigins []string
	MediaDir     string
	TracingOn    bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingOn {
		router.Use(otelgin.Middleware("shopscribe-backend"))
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	if strings.TrimSpace(cfg.MediaDir) != "" {
		router.Static("/media", cfg.MediaDir)
	}
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Catalog
	protected.GET("/products", cfg.ProductHandler.List)
	protected.POST("/products", cfg.ProductHandler.Create)
	protected.GET("/products/low-stock", cfg.ProductHandler.ListLowStock)
	protected.GET("/products/:id", cfg.ProductHandler.Get)
	protected.PATCH("/products/:id", cfg.ProductHandler.Update)
	protected.DELETE("/products/:id", cfg.ProductHandler.Delete)
	// Cart
	protected.GET("/cart", cfg.CartHandler.Get)
	protected.POST("/cart/items", cfg.CartHandler.AddItem)
	protected.PUT("/cart/items/:productId", cfg.CartHandler.SetQuantity)
	protected.DELETE("/cart/items/:productId", cfg.CartHandler.RemoveItem)
	protected.DELETE("/cart", cfg.CartHandler.Clear)
	protected.POST("/cart/checkout", cfg.CartHandler.Checkout)
	// Receipts
	protected.GET("/receipts", cfg.ReceiptHandler.List)
	protected.GET("/receipts/:id", cfg.ReceiptHandler.Get)
	protected.DELETE("/receipts/:id", cfg.ReceiptHandler.Delete)
	// Dashboard
	protected.GET("/dashboard/summary", cfg.DashboardHandler.Summary)
	protected.GET("/dashboard/sales-by-day", cfg.DashboardHandler.SalesByDay)
	protected.GET("/dashboard/recent-receipts", cfg.DashboardHandler.RecentReceipts)
	// Shop
	protected.GET("/shop", cfg.ShopHandler.Get)
	protected.PUT("/shop", cfg.ShopHandler.Save)
	protected.POST("/shop/logo", cfg.ShopHandler.UploadLogo)

	return router
}
