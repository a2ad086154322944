package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"posmart/internal/analytics"
	"posmart/internal/caching"
	"posmart/internal/handlers"
	"posmart/internal/jobs/background"
	"posmart/internal/middleware"
	"posmart/internal/reports"
	"posmart/internal/repositories"
	"posmart/internal/services"
	"posmart/internal/timezone"
	"posmart/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret: %s", jwtSecret)
	}

	// Business timezone. Orders are stored in UTC; daily boundaries, bucket
	// keys and reports follow this zone.
	clock, err := timezone.New(os.Getenv("BUSINESS_TIMEZONE"))
	if err != nil {
		log.Fatalf("Failed to load business timezone: %v", err)
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0 // Default DB
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	reportBucket := os.Getenv("MINIO_REPORT_BUCKET")
	if reportBucket == "" {
		reportBucket = "sales-reports"
	}

	storageSvc, err := services.NewStorageService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL, reportBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage service: %v", err)
	}
	if err := storageSvc.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: report bucket check failed: %v", err)
	}

	// Create repositories
	itemRepo := repositories.NewItemRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	companyRepo := repositories.NewCompanyRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	orderSvc := services.NewOrderService(orderRepo, orderItemRepo, itemRepo, cacheSvc, clock)
	analyticsSvc := analytics.NewService(orderRepo, cacheSvc, clock)
	reportSvc := reports.NewService(orderRepo, orderItemRepo, storageSvc, clock)

	// Create handlers
	itemHandlers := handlers.NewItemHandlers(itemRepo)
	orderHandlers := handlers.NewOrderHandlers(orderSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(analyticsSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storageSvc)

	// JWT middleware configuration
	jwtConfig := echojwt.Config{
		SigningKey: []byte(jwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(middleware.JWTCustomClaims)
		},
		SuccessHandler: middleware.PropagateClaims,
		ErrorHandler:   middleware.JWTErrorHandler,
	}

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/metrics", healthHandlers.GetMetrics)

	// Protected routes (require JWT)
	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(jwtConfig))

	// Catalog routes
	v1.GET("/items", itemHandlers.ListItems)

	// Order routes
	v1.GET("/orders", orderHandlers.ListTodayOrders)
	v1.POST("/orders", orderHandlers.CreateOrder)
	v1.POST("/orders/:id/refund", orderHandlers.RefundOrder)

	// Dashboard routes
	v1.GET("/dashboard/metrics", dashboardHandlers.Metrics)
	v1.GET("/dashboard/sales/daily", dashboardHandlers.DailySales)
	v1.GET("/dashboard/sales/weekly", dashboardHandlers.WeeklySales)
	v1.GET("/dashboard/sales/monthly", dashboardHandlers.MonthlySales)

	// Report routes
	v1.GET("/reports", reportHandlers.GetReport)
	v1.GET("/reports/export", reportHandlers.ExportReport)

	// Background jobs
	jobScheduler := background.NewJobScheduler(analyticsSvc, companyRepo)
	if err := jobScheduler.Start(); err != nil {
		log.Printf("Failed to start job scheduler: %v", err)
	}
	defer jobScheduler.Stop()

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("POS server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
