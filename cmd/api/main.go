package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/helpora/helpora-api/api/swagger"
	"github.com/helpora/helpora-api/internal/handler"
	internalmiddleware "github.com/helpora/helpora-api/internal/middleware"
	"github.com/helpora/helpora-api/internal/repository"
	"github.com/helpora/helpora-api/internal/service"
	"github.com/helpora/helpora-api/pkg/cache"
	"github.com/helpora/helpora-api/pkg/config"
	"github.com/helpora/helpora-api/pkg/database"
	"github.com/helpora/helpora-api/pkg/logger"
	corsmiddleware "github.com/helpora/helpora-api/pkg/middleware/cors"
	reqidmiddleware "github.com/helpora/helpora-api/pkg/middleware/requestid"
)

// @title Helpora API
// @version 1.0.0
// @description Local services marketplace API
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	eventSvc := service.NewEventService(logr)
	eventSvc.Start(context.Background())
	defer eventSvc.Stop()

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	providerSvc := service.NewProviderService(providerRepo, validate, logr)
	listingSvc := service.NewListingService(listingRepo, reviewRepo, providerRepo, validate, logr)

	bookingCfg := service.BookingConfig{
		HorizonDays:   cfg.Booking.HorizonDays,
		CacheEnabled:  cfg.Booking.CacheEnabled && cacheRepo != nil,
		SlotsCacheTTL: cfg.Booking.SlotsCacheTTL,
	}
	adminCfg := service.AdminConfig{AnalyticsCacheTTL: cfg.Admin.AnalyticsCacheTTL}

	var bookingSvc *service.BookingService
	var adminSvc *service.AdminService
	if cacheRepo != nil {
		bookingSvc = service.NewBookingService(bookingRepo, listingRepo, cacheRepo, metricsSvc, eventSvc, validate, logr, bookingCfg)
		adminSvc = service.NewAdminService(userRepo, providerRepo, analyticsRepo, cacheRepo, logr, adminCfg)
	} else {
		bookingSvc = service.NewBookingService(bookingRepo, listingRepo, nil, metricsSvc, eventSvc, validate, logr, bookingCfg)
		adminSvc = service.NewAdminService(userRepo, providerRepo, analyticsRepo, nil, logr, adminCfg)
	}
	reviewSvc := service.NewReviewService(reviewRepo, bookingRepo, eventSvc, validate, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc),
		Provider: handler.NewProviderHandler(providerSvc),
		Listing:  handler.NewListingHandler(listingSvc),
		Booking:  handler.NewBookingHandler(bookingSvc),
		Review:   handler.NewReviewHandler(reviewSvc),
		Admin:    handler.NewAdminHandler(adminSvc, metricsSvc),
		Metrics:  handler.NewMetricsHandler(metricsSvc, db, redisClient),
	}
	handler.RegisterRoutes(r, cfg.APIPrefix, handlers, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
