package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"careshift-backend/config"
	"careshift-backend/internal/cascade"
	"careshift-backend/internal/mw"
	"careshift-backend/internal/scheduling"
	"careshift-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, svc *scheduling.Service, ranker *cascade.Ranker, s store.Store, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(svc, ranker, s, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/shifts", caching, handler.GetShifts)
		api.POST("/shifts", handler.PostShift)
		api.POST("/shifts/:id/confirm", handler.ConfirmShift)
		api.POST("/shifts/:id/cancel", handler.CancelShift)
		api.POST("/shifts/:id/complete", handler.CompleteShift)
		api.POST("/shifts/:id/session", handler.LinkShiftSession)

		api.GET("/shift-requests", handler.ListShiftRequests)
		api.POST("/shift-requests", handler.PostShiftRequest)
		api.POST("/shift-requests/:id/approve", handler.ApproveShiftRequest)
		api.POST("/shift-requests/:id/reject", handler.RejectShiftRequest)

		api.GET("/swap-requests", handler.ListSwapRequests)
		api.POST("/swap-requests", handler.PostSwapRequest)
		api.POST("/swap-requests/:id/accept", handler.AcceptSwapRequest)
		api.POST("/swap-requests/:id/reject", handler.RejectSwapRequest)
		api.POST("/swap-requests/:id/cancel", handler.CancelSwapRequest)

		api.GET("/cascade/candidates", handler.GetCascadeCandidates)

		api.PUT("/push-subscriptions", handler.PutSubscription)
		api.DELETE("/push-subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
