package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/chillouts/beheer-api/api/swagger"
	"github.com/chillouts/beheer-api/internal/handler"
	"github.com/chillouts/beheer-api/internal/middleware"
	"github.com/chillouts/beheer-api/internal/models"
	"github.com/chillouts/beheer-api/internal/repository"
	"github.com/chillouts/beheer-api/internal/service"
	"github.com/chillouts/beheer-api/pkg/cache"
	"github.com/chillouts/beheer-api/pkg/config"
	"github.com/chillouts/beheer-api/pkg/database"
	"github.com/chillouts/beheer-api/pkg/logger"
	corsmiddleware "github.com/chillouts/beheer-api/pkg/middleware/cors"
	reqidmiddleware "github.com/chillouts/beheer-api/pkg/middleware/requestid"
)

// @title Chill-outs Beheer API
// @version 1.0.0
// @description Registration and reporting backend for chill-out moments
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The API works without Redis, report caching is skipped.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	metricsService := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled && redisClient != nil)

	studentRepo := repository.NewStudentRepository(db)
	recordRepo := repository.NewRecordRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authService := service.NewAuthService(userRepo, auditRepo, validate, logr, service.AuthConfig{
		Secret:            cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		RefreshExpiry:     cfg.JWT.RefreshExpiration,
		Issuer:            "chillouts-beheer",
	})
	studentService := service.NewStudentService(studentRepo, auditRepo, cacheService, validate, logr)
	klasService := service.NewKlasService(studentRepo, auditRepo, cacheService, validate, logr)
	recordService := service.NewRecordService(recordRepo, auditRepo, cacheService, validate, logr)
	reportService := service.NewReportService(recordRepo, studentRepo, cacheService, logr, cfg.Reports.CacheTTL)
	exportService := service.NewExportService(reportService, logr)
	userService := service.NewUserService(userRepo, auditRepo, validate, logr)
	auditService := service.NewAuditService(auditRepo, studentRepo, logr, cfg.Audit.MaxListSize)

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	klasHandler := handler.NewKlasHandler(klasService)
	recordHandler := handler.NewRecordHandler(recordService)
	reportHandler := handler.NewReportHandler(reportService, exportService)
	userHandler := handler.NewUserHandler(userService)
	auditHandler := handler.NewAuditHandler(auditService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/snapshot", metricsHandler.Snapshot)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authService))

	students := protected.Group("/students")
	students.Use(middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Students }))
	{
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.POST("", studentHandler.Create)
		students.PUT("/:id", studentHandler.Update)
		students.DELETE("/:id", studentHandler.Delete)
	}

	klassen := protected.Group("/klassen")
	klassen.Use(middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Students }))
	{
		klassen.GET("", klasHandler.List)
		klassen.POST("/rename", klasHandler.Rename)
		klassen.DELETE("/:name", klasHandler.Delete)
	}

	records := protected.Group("/records")
	records.Use(middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Dagelijks }))
	{
		records.GET("/:date", recordHandler.GetDay)
		records.POST("/:date/entries", recordHandler.SetEntries)
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/daily/:date",
			middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Dagelijks }),
			reportHandler.Daily)
		reports.GET("/weekly",
			middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Weekoverzicht }),
			reportHandler.Weekly)
		reports.GET("/weekly/students",
			middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Weekoverzicht }),
			reportHandler.WeeklyStudents)
		reports.GET("/weekly/export",
			middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Rapporten }),
			reportHandler.ExportWeekly)
		reports.GET("/stats",
			middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Statistieken }),
			reportHandler.Stats)
		reports.GET("/stats/export",
			middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Rapporten }),
			reportHandler.ExportStats)
	}

	users := protected.Group("/users")
	users.Use(middleware.RequireAdmin())
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	audit := protected.Group("/audit")
	audit.Use(middleware.RequirePermission(authService, func(p models.Permissions) bool { return p.Audit }))
	{
		audit.GET("", auditHandler.List)
		audit.POST("/:id/revert", auditHandler.Revert)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Sugar().Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
	if err := cacheRepo.Close(); err != nil {
		logr.Sugar().Warnw("failed to close redis", "error", err)
	}
}
