package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/adisood/mandi/internal"
	"github.com/adisood/mandi/internal/auth"
	"github.com/adisood/mandi/internal/coupon"
	"github.com/adisood/mandi/internal/delivery"
	"github.com/adisood/mandi/internal/handler/api"
	"github.com/adisood/mandi/internal/jobs"
	"github.com/adisood/mandi/internal/middleware"
	"github.com/adisood/mandi/internal/repository"
	"github.com/adisood/mandi/internal/router"
	"github.com/adisood/mandi/internal/routes"
	"github.com/adisood/mandi/internal/service"
	"github.com/adisood/mandi/internal/tax"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Initialize repository
	repo := repository.New(pool)

	// Initialize pricing policies
	deliveryCalc := delivery.NewTableCalculator()
	taxCalc := tax.NewPercentageCalculator(cfg.Tax.Rate)
	if cfg.Tax.Rate <= 0 {
		taxCalc = tax.NewNoTaxCalculator()
	}
	couponPolicy := coupon.NewDefaultPolicy()

	// Initialize token manager
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Initialize services
	cartService := service.NewCartService(repo, deliveryCalc, taxCalc, couponPolicy, service.CartConfig{
		TTL:         cfg.Cart.TTL,
		MaxQuantity: cfg.Cart.MaxQuantity,
	})
	catalogService := service.NewCatalogService(repo)
	categoryService := service.NewCategoryService(repo)

	// OTP codes go to the log until an SMS gateway is wired up.
	otpSender := &service.LogSender{Logger: logger}
	authService := service.NewAuthService(repo, otpSender, tokens, service.AuthConfig{
		OTPTTL:      cfg.OTP.TTL,
		MaxAttempts: cfg.OTP.MaxAttempts,
	})

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	metrics := middleware.NewMetrics("mandi")
	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	otpRateLimiter := middleware.NewRateLimiter(middleware.OTPRateLimiterConfig())
	defer otpRateLimiter.Stop()

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.CORS(cfg.CORS.AllowedOrigins),
		defaultRateLimiter.Middleware,
		middleware.WithUser(tokens),
		middleware.WithRequestLogger(logger),
	)

	routes.RegisterAPIRoutes(r, routes.APIDeps{
		AuthHandler:     api.NewAuthHandler(authService, logger),
		ProductHandler:  api.NewProductHandler(catalogService, logger),
		CategoryHandler: api.NewCategoryHandler(categoryService, logger),
		CartHandler:     api.NewCartHandler(cartService, logger),
		AdminHandler:    api.NewAdminHandler(catalogService, categoryService, logger),
		OTPRateLimit:    otpRateLimiter.Middleware,
		Metrics:         metrics,
	})

	// ==========================================================================
	// Start background jobs and serve
	// ==========================================================================

	sweeper := jobs.NewCartSweeper(repo, jobs.CartSweeperConfig{
		Interval:  cfg.Sweep.Interval,
		Retention: cfg.Sweep.Retention,
	}, logger)
	go sweeper.Run(ctx)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down...")
		server.Shutdown(context.Background())
	}()

	logger.Info("Starting server", "address", addr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
