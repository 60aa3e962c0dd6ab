package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"careshift-backend/internal/cascade"
	"careshift-backend/internal/scheduling"
	"careshift-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	scheduling *scheduling.Service
	ranker     *cascade.Ranker
	store      store.Store
	webpush    *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(svc *scheduling.Service, ranker *cascade.Ranker, s store.Store, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		scheduling: svc,
		ranker:     ranker,
		store:      s,
		webpush:    webpushOptions,
	}
}

// actorFrom reads the caller's identity from the headers set by the fronting
// auth proxy. Authentication itself happens upstream of this service.
func actorFrom(c *gin.Context) scheduling.Actor {
	return scheduling.Actor{
		UserID: c.GetHeader("X-User-ID"),
		Role:   c.GetHeader("X-User-Role"),
	}
}
