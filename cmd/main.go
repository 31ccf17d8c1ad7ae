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

	"buspulse/internal/config"
	"buspulse/internal/handlers"
	"buspulse/internal/middleware"
	"buspulse/internal/repository"
	"buspulse/internal/service"
	"buspulse/internal/worker"
	"buspulse/pkg/database"
	"buspulse/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	// Загрузка .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("=== BusPulse Backend Starting ===")

	cfg := config.Load()

	// Подключение к PostgreSQL
	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	// Подключение к Redis
	redisClient, err := redis.Connect(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Автомиграция моделей
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Репозитории
	busRepo := repository.NewBusRepository(db)
	stopRepo := repository.NewStopRepository(db)
	gpsRepo := repository.NewGPSRepository(db)
	crowdingRepo := repository.NewCrowdingRepository(db)
	etaRepo := repository.NewEtaRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	// Сервисы
	derivationService := service.NewDerivationService(gpsRepo, crowdingRepo, etaRepo)
	ingestService := service.NewIngestService(busRepo, stopRepo, derivationService)
	dashboardService := service.NewDashboardService(
		busRepo, stopRepo, crowdingRepo, etaRepo, cacheRepo,
		cfg.Dashboard.SeriesWindow, cfg.Dashboard.CacheTTL,
	)
	exportService := service.NewExportService(busRepo, stopRepo, crowdingRepo, etaRepo)

	// Фоновая очистка старых записей
	scheduler := worker.NewScheduler()
	if cfg.Retention.Enabled {
		scheduler.AddWorker(worker.NewRetentionWorker(
			gpsRepo, crowdingRepo, etaRepo,
			cfg.Retention.MaxAge, cfg.Retention.Interval,
		))
		log.Printf("Retention Worker enabled (max age: %v)", cfg.Retention.MaxAge)
	}
	go scheduler.Start()
	defer scheduler.Stop()

	// Инициализация Gin
	if cfg.App.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in DEBUG mode")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Общий rate limit (только для продакшена)
	if !cfg.App.Debug {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
		r.Use(middleware.RateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	uploadHandler := handlers.NewUploadHandler(ingestService, cacheRepo, cfg.Upload.MaxFileSizeMB)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, stopRepo)
	exportHandler := handlers.NewExportHandler(exportService)

	// Загрузка файлов ограничивается поклиентно
	uploadLimiter := middleware.NewIPRateLimiter(
		rate.Limit(float64(cfg.RateLimit.UploadPerMinute)/60.0), cfg.RateLimit.UploadPerMinute)

	api := r.Group("/api/v1")

	api.POST("/upload", middleware.IPRateLimitMiddleware(uploadLimiter), uploadHandler.UploadCSV)
	api.GET("/dashboard", dashboardHandler.GetDashboard)
	api.GET("/stops", dashboardHandler.ListStops)
	api.GET("/export.xlsx", exportHandler.ExportXLSX)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": gin.H{
				"database": "connected",
				"redis":    "connected",
			},
		})
	})

	api.GET("/system/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		redisStats, _ := redis.GetStats(redisClient)

		busCount, _ := busRepo.Count(ctx)
		stopCount, _ := stopRepo.Count(ctx)
		gpsCount, _ := gpsRepo.Count(ctx)
		crowdingCount, _ := crowdingRepo.Count(ctx)
		etaCount, _ := etaRepo.Count(ctx)

		c.JSON(200, gin.H{
			"database": gin.H{
				"buses":            busCount,
				"stops":            stopCount,
				"gps_records":      gpsCount,
				"crowding_samples": crowdingCount,
				"eta_samples":      etaCount,
			},
			"redis": redisStats,
			"workers": gin.H{
				"retention_enabled": cfg.Retention.Enabled,
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.App.Port)
		log.Printf("API available at http://localhost:%s/api/v1", cfg.App.Port)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start:", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited properly")
}
