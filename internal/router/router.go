package router

import (
	"fmt"
	"strings"

	"github.com/promolane/internal/cache"
	"github.com/promolane/internal/config"
	adminhandlers "github.com/promolane/internal/http/handlers/admin"
	publichandlers "github.com/promolane/internal/http/handlers/public"
	"github.com/promolane/internal/logger"
	"github.com/promolane/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pl"
	}
	redisClient := cache.Client()
	purchaseRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:purchase", redisPrefix),
		WindowSeconds: cfg.Security.PurchaseRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PurchaseRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.PurchaseRateLimit.BlockSeconds,
		Message:       "too many purchase attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.POST("/promotions", RateLimitMiddleware(redisClient, purchaseRule, KeyByIPAndJSONField("content_id")), publicHandler.CreatePromotion)
			public.GET("/promotions/display", publicHandler.GetDisplay)
			public.GET("/promotions/:id", publicHandler.GetPromotion)
			public.POST("/promotions/:id/payment/verified", publicHandler.PaymentVerified)
			public.POST("/promotions/:id/payment/failed", publicHandler.PaymentFailed)
			public.POST("/promotions/:id/cancel", publicHandler.CancelPromotion)
			public.GET("/packages", publicHandler.GetPackages)
		}

		admin := apiV1.Group("/admin")
		{
			admin.GET("/promotions", adminHandler.ListPromotions)
			admin.GET("/promotions/stats", adminHandler.GetStats)
			admin.POST("/promotions/sweep", adminHandler.RunSweep)
			admin.GET("/promotions/sweep/last", adminHandler.LastSweep)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
