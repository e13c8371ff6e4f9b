package http

import (
	"livesocial_backend/internal/config"
	"livesocial_backend/internal/http/handlers"
	"livesocial_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires every endpoint onto the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	r.Use(middleware.Metrics())

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ws", h.Websocket)

	apiLimit := middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow)
	authLimit := middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Use(authLimit)
	{
		auth.POST("/otp", h.RequestOTP)
		auth.POST("/verify", h.VerifyOTP)
	}

	authed := v1.Group("")
	authed.Use(apiLimit, middleware.JWT())
	{
		authed.GET("/me", h.Me)
		authed.GET("/users/:id", h.Profile)

		authed.GET("/wallet", h.GetWallet)
		authed.GET("/wallet/transactions", h.GetTransactions)
		authed.POST("/wallet/recharge", h.Recharge)

		authed.POST("/calls", h.StartCall)
		authed.GET("/calls/:id", h.GetCall)
		authed.POST("/calls/:id/accept", h.AcceptCall)
		authed.POST("/calls/:id/end", h.EndCall)

		authed.GET("/gifts", h.ListGifts)
		authed.POST("/gifts/send", h.SendGift)

		authed.GET("/withdrawals/estimate", h.EstimateWithdrawal)
		authed.POST("/withdrawals", h.RequestWithdrawal)
		authed.GET("/withdrawals", h.ListWithdrawals)
		authed.POST("/withdrawals/:id/cancel", h.CancelWithdrawal)
	}

	admin := v1.Group("/admin")
	admin.Use(apiLimit, middleware.JWT(), middleware.AdminOnly(cfg.AdminUserIDs))
	{
		admin.GET("/rates", h.GetRates)
		admin.PUT("/rates", h.UpdateRates)

		admin.PATCH("/users/:id/tier", h.SetUserTier)

		admin.POST("/gifts", h.CreateGift)
		admin.PUT("/gifts/:id", h.UpdateGift)

		admin.GET("/withdrawals", h.PendingWithdrawals)
		admin.POST("/withdrawals/:id/complete", h.CompleteWithdrawal)
		admin.POST("/withdrawals/:id/reject", h.RejectWithdrawal)

		admin.GET("/reconciliations", h.PendingReconciliations)
		admin.POST("/reconciliations/:id/resolve", h.ResolveReconciliation)
	}
}
