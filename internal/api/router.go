package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"opspanel-backend/config"
	"opspanel-backend/internal/mw"
	"opspanel-backend/internal/nav"
	"opspanel-backend/internal/session"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, controller *nav.Controller, sessions *session.Store, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Multipart bodies hold at most one report image plus form fields.
	r.MaxMultipartMemory = int64(cfg.Limits.ReportImageBytes) + 1<<20

	handler := NewHandler(controller, cfg.Session.CookieName, int(cfg.Session.TTL.Seconds()), log)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/session", handler.GetSession)
		api.POST("/login", handler.Login)
	}

	authed := api.Group("")
	authed.Use(mw.RequireSession(sessions, cfg.Session.CookieName), caching)
	{
		authed.POST("/logout", handler.Logout)
		authed.GET("/menu", handler.GetMenu)

		authed.GET("/operators", handler.GetOperators)
		authed.POST("/operators", handler.CreateOperator)
		authed.GET("/operators/:id", handler.GetOperator)
		authed.PUT("/operators/:id", handler.UpdateOperator)
		authed.DELETE("/operators/:id", handler.DeleteOperator)
		authed.GET("/operators/:id/photo", handler.GetOperatorPhoto)

		authed.GET("/machines", handler.GetMachines)
		authed.POST("/machines", handler.CreateMachine)
		authed.GET("/machines/:id", handler.GetMachine)
		authed.PUT("/machines/:id", handler.UpdateMachine)
		authed.DELETE("/machines/:id", handler.DeleteMachine)
		authed.GET("/machines/:id/reports", handler.GetMachineReports)
		authed.POST("/machines/:id/reports", handler.CreateReport)

		authed.GET("/results", handler.GetResults)

		authed.GET("/reports/:id", handler.GetReport)
		authed.PUT("/reports/:id", handler.UpdateReport)
		authed.DELETE("/reports/:id", handler.DeleteReport)
	}

	return r
}
