package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edusetu/edusetu-api/api/swagger"
	"github.com/edusetu/edusetu-api/internal/handler"
	"github.com/edusetu/edusetu-api/internal/middleware"
	"github.com/edusetu/edusetu-api/internal/repository"
	"github.com/edusetu/edusetu-api/internal/service"
	"github.com/edusetu/edusetu-api/pkg/cache"
	"github.com/edusetu/edusetu-api/pkg/config"
	"github.com/edusetu/edusetu-api/pkg/database"
	"github.com/edusetu/edusetu-api/pkg/logger"
	corsmiddleware "github.com/edusetu/edusetu-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edusetu/edusetu-api/pkg/middleware/requestid"
)

// @title EduSetu API
// @version 1.0.0
// @description School management platform: school dashboards, super-admin console and the public tutor/product marketplace
// @BasePath /api/v1
// @schemes http https
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

	if cfg.Database.RunMigrations {
		if err := database.Migrate(db); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
		logr.Info("database migrations applied")
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(redisClient, cfg.Cart.TTL)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	bootstrapSvc := service.NewBootstrapService(userRepo, logr, cfg.Bootstrap.Email, cfg.Bootstrap.Password)
	tutorSvc := service.NewTutorService(tutorRepo, userRepo, validate, logr)
	schoolSvc := service.NewSchoolService(schoolRepo, validate, logr)
	schoolAdminSvc := service.NewSchoolAdminService(userRepo, schoolRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	feeSvc := service.NewFeeService(feeRepo, studentRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, studentRepo, validate, logr)
	videoSvc := service.NewVideoService(videoRepo, validate, logr)
	productSvc := service.NewProductService(productRepo, validate, logr)
	cartSvc := service.NewCartService(cartRepo, productRepo, logr)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Bootstrap:   handler.NewBootstrapHandler(bootstrapSvc, cfg.Bootstrap.Enabled),
		Tutor:       handler.NewTutorHandler(tutorSvc, metricsSvc),
		School:      handler.NewSchoolHandler(schoolSvc),
		SchoolAdmin: handler.NewSchoolAdminHandler(schoolAdminSvc),
		Student:     handler.NewStudentHandler(studentSvc),
		Fee:         handler.NewFeeHandler(feeSvc),
		Attendance:  handler.NewAttendanceHandler(attendanceSvc),
		Video:       handler.NewVideoHandler(videoSvc),
		Product:     handler.NewProductHandler(productSvc),
		Cart:        handler.NewCartHandler(cartSvc, metricsSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", handlers.Metrics.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", handlers.Metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
