package router

import (
	"fmt"
	"strings"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/cache"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/config"
	adminhandlers "github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/http/handlers/admin"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires all routes and middleware.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "inlz"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		admin := apiV1.Group("/admin")
		{
			admin.POST("/auth/login",
				RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")),
				adminHandler.Login,
			)

			authed := admin.Group("")
			authed.Use(JWTAuthMiddleware(c.AuthService))
			authed.Use(RBACMiddleware(c.AuthzService))
			{
				authed.POST("/auth/logout", adminHandler.Logout)

				authed.GET("/fx", adminHandler.ResolveFx)
				authed.GET("/fx/rates", adminHandler.GetFxRates)
				authed.POST("/fx", adminHandler.CreateFxSnapshot)

				authed.GET("/campaigns", adminHandler.GetCampaigns)
				authed.POST("/campaigns", adminHandler.CreateCampaign)
				authed.GET("/campaigns/:id", adminHandler.GetCampaign)
				authed.PUT("/campaigns/:id", adminHandler.UpdateCampaign)
				authed.GET("/campaigns/:id/history", adminHandler.GetCampaignHistory)

				authed.GET("/links", adminHandler.GetLinks)
				authed.POST("/links", adminHandler.CreateLinks)
				authed.POST("/links/:id/assign", adminHandler.AssignLink)
				authed.POST("/links/:id/unassign", adminHandler.UnassignLink)

				authed.GET("/bindings", adminHandler.GetBindings)
				authed.GET("/bindings/:id/history", adminHandler.GetBindingHistory)

				authed.GET("/levels", adminHandler.GetLevels)
				authed.PATCH("/levels", adminHandler.PatchLevels)

				authed.POST("/reports/daily", adminHandler.CreateDailyReport)
				authed.POST("/reports/daily/batch", adminHandler.CreateDailyReportBatch)
				authed.GET("/reports/partner-daily", adminHandler.GetPartnerDailyReports)

				authed.POST("/withdrawals", adminHandler.CreateWithdrawal)
				authed.GET("/withdrawals", adminHandler.GetWithdrawals)
				authed.GET("/withdrawals/:id", adminHandler.GetWithdrawal)
				authed.PATCH("/withdrawals/:id", adminHandler.PatchWithdrawal)
			}
		}
	}

	return r
}
