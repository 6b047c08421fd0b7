package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gazi-tiles/internal/cache"
	"gazi-tiles/internal/config"
	"gazi-tiles/internal/handler"
	"gazi-tiles/internal/middleware"
	"gazi-tiles/internal/repository"
	"gazi-tiles/internal/scheduler"
	"gazi-tiles/internal/service"
	"gazi-tiles/internal/ws"
	"gazi-tiles/pkg/database"
	"gazi-tiles/pkg/jwt"
	"gazi-tiles/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env", "", "path to an .env file (defaults to ./.env when present)")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	// 2. Setup Database
	db, err := database.Connect(cfg.Database, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(baseLogger.Named("ws"))
	go wsHub.Run()

	storeCache := newStoreCache(cfg.Redis, baseLogger.Named("cache"))

	// 4. Dependency Injection (Wiring Layers)
	companyRepo := repository.NewCompanyRepo(db)
	productRepo := repository.NewProductRepo(db)
	storeRepo := repository.NewStoreRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	userRepo := repository.NewUserRepo(db)

	loc := cfg.Location()
	companyService := service.NewCompanyService(companyRepo, baseLogger.Named("svc.company"))
	productService := service.NewProductService(db, productRepo, companyRepo, storeRepo, storeCache, wsHub, baseLogger.Named("svc.product"))
	storeService := service.NewStoreService(storeRepo, storeCache, cfg.Redis.StoreTTL, baseLogger.Named("svc.store"))
	purchaseService := service.NewPurchaseService(db, purchaseRepo, productRepo, storeRepo, storeCache, wsHub, loc, baseLogger.Named("svc.purchase"))
	saleService := service.NewSaleService(db, saleRepo, productRepo, storeRepo, storeCache, wsHub, loc, baseLogger.Named("svc.sale"))
	reportService := service.NewReportService(purchaseRepo, saleRepo, storeService, loc, baseLogger.Named("svc.report"))
	userService := service.NewUserService(userRepo, baseLogger.Named("svc.user"))

	// 5. Seed the bootstrap admin
	if err := userService.EnsureAdmin(context.Background(), cfg.Auth.AdminEmail); err != nil {
		baseLogger.Warn("failed to seed admin user", zap.Error(err))
	}

	handlerLogger := baseLogger.Named("handler")
	handlers := handler.Handlers{
		Company:  handler.NewCompanyHandler(companyService, handlerLogger),
		Product:  handler.NewProductHandler(productService, handlerLogger),
		Store:    handler.NewStoreHandler(storeService, handlerLogger),
		Purchase: handler.NewPurchaseHandler(purchaseService, handlerLogger),
		Sale:     handler.NewSaleHandler(saleService, handlerLogger),
		Report:   handler.NewReportHandler(reportService, handlerLogger),
		User:     handler.NewUserHandler(userService, handlerLogger),
		Guide:    handler.NewGuideHandler(cfg.Guide.VideoLink),
	}

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		UnescapePath: true,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions}, ","),
	}))

	// 7. Routes
	signer := jwt.NewSigner(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	handlers.Register(app, middleware.RequireAuth(signer, userRepo), wsHub)

	// 8. Scheduler
	sched := scheduler.NewScheduler(cfg, reportService, storeService, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// 9. Graceful Shutdown
	go func() {
		baseLogger.Info("server starting", zap.String("addr", cfg.Address()))
		if err := app.Listen(cfg.Address()); err != nil {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	baseLogger.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		baseLogger.Error("server forced to shutdown", zap.Error(err))
	}
	if closer, ok := storeCache.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	baseLogger.Info("server exited")
}

// newStoreCache connects to Redis when configured and falls back to an
// in-process cache if it is unset or unreachable.
func newStoreCache(cfg config.RedisConfig, log *zap.Logger) cache.StoreCache {
	if cfg.Addr == "" {
		log.Info("redis not configured, caching store listing in process")
		return cache.NewMemoryStoreCache()
	}
	rc := cache.NewRedisStoreCache(cfg.Addr, cfg.Password, cfg.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		log.Warn("redis unreachable, caching store listing in process", zap.String("addr", cfg.Addr), zap.Error(err))
		_ = rc.Close()
		return cache.NewMemoryStoreCache()
	}
	log.Info("redis store cache enabled", zap.String("addr", cfg.Addr))
	return rc
}
