package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopscribe/shopscribe-backend/internal/data/aggregates"
	"github.com/shopscribe/shopscribe-backend/internal/db"
	"github.com/shopscribe/shopscribe-backend/internal/handlers"
	"github.com/shopscribe/shopscribe-backend/internal/middleware"
	"github.com/shopscribe/shopscribe-backend/internal/observability"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/repos"
	"github.com/shopscribe/shopscribe-backend/internal/server"
	"github.com/shopscribe/shopscribe-backend/internal/services"
	"github.com/shopscribe/shopscribe-backend/internal/utils"

	redisclient "github.com/shopscribe/shopscribe-backend/internal/clients/redis"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	mediaDir := utils.GetEnv("MEDIA_DIR", "./media", log)
	mediaBaseURL := utils.GetEnv("MEDIA_BASE_URL", "http://localhost:8080", log)
	logoFontPath := utils.GetEnv("LOGO_FONT", "", log)
	serverPort := utils.GetEnv("PORT", "8080", log)

	// Tracing
	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "shopscribe-backend",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := otelShutdown(ctx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Cart store (Redis when configured, in-process otherwise)
	var cartStore redisclient.CartStore
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		cartStore, err = redisclient.NewCartStore(log)
		if err != nil {
			log.Error("Could not init Redis cart store", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("REDIS_ADDR not set, carts are held in process memory")
		cartStore = services.NewMemoryCartStore()
	}
	defer cartStore.Close()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	shopRepo := repos.NewShopRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	receiptRepo := repos.NewReceiptRepo(thePG, log)

	// Aggregates
	writeStats := observability.NewWriteStats(log)
	checkoutAggregate := aggregates.NewCheckoutAggregate(aggregates.CheckoutAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:    thePG,
			Log:   log,
			Hooks: writeStats,
		},
		Products: productRepo,
		Receipts: receiptRepo,
	})

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	catalogService := services.NewCatalogService(thePG, log, productRepo)
	cartService := services.NewCartService(log, cartStore, catalogService, checkoutAggregate)
	receiptService := services.NewReceiptService(log, receiptRepo)
	dashboardService := services.NewDashboardService(log, productRepo, receiptRepo)
	logoService, err := services.NewLogoService(log, mediaDir, mediaBaseURL, logoFontPath)
	if err != nil {
		log.Warn("Could not init LogoService, shop logos disabled", "error", err)
		logoService = nil
	}
	shopService := services.NewShopService(log, shopRepo, logoService)

	// Demo catalog seed
	seedFile := utils.GetEnv("SEED_FILE", "", log)
	seedOwner := utils.GetEnv("SEED_OWNER_ID", "", log)
	if seedFile != "" && seedOwner != "" {
		ownerID, err := uuid.Parse(seedOwner)
		if err != nil {
			log.Warn("Invalid SEED_OWNER_ID, skipping seed", "error", err)
		} else if err := db.SeedProducts(thePG, log, seedFile, ownerID); err != nil {
			log.Warn("Catalog seed failed", "error", err)
		}
	}

	// Handlers
	log.Info("Setting up Handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	shopHandler := handlers.NewShopHandler(shopService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	corsOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",")
	var origins []string
	for _, o := range corsOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		ProductHandler:   productHandler,
		CartHandler:      cartHandler,
		ReceiptHandler:   receiptHandler,
		DashboardHandler: dashboardHandler,
		ShopHandler:      shopHandler,
		AllowOrigins:     origins,
		MediaDir:         mediaDir,
		TracingOn:        observability.Enabled(),
	})

	log.Info("Starting server...", "port", serverPort)
	if err := router.Run(":" + serverPort); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
