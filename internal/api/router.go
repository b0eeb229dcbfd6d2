package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"dorm-assignment-backend/config"
	"dorm-assignment-backend/internal/mw"
	"dorm-assignment-backend/internal/session"
	"dorm-assignment-backend/internal/store"
)

// NewRouter creates and configures a new Gin router implementing the dorm
// assignment wire contract.
func NewRouter(s store.Store, sessions *session.Store, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	if cfg.Server.RequestIPHeader != "" {
		r.TrustedPlatform = cfg.Server.RequestIPHeader
	}

	handler := NewHandler(s, sessions, cfg.Session)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)
	r.Use(rateLimiter)

	// The dorm list changes rarely; cache it briefly. Room listings carry
	// live occupancy and stay uncached.
	cacheTTL := cacheTTLOrDefault(cfg.Server.CacheTTL)
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.POST("/login", handler.Login)
	r.POST("/logout", handler.Logout)

	authed := r.Group("/")
	authed.Use(handler.RequireSession)
	{
		authed.GET("/dorms", caching, handler.GetDorms)
		authed.GET("/dorms/:dorm_id/rooms", handler.GetRooms)
		authed.GET("/user", handler.GetUser)
		authed.POST("/rooms/:room_id/assign", handler.AssignRoom)
		authed.POST("/rooms/unassign", handler.UnassignRoom)
	}

	return r
}

// cacheTTLOrDefault guards against a zero TTL when a caller builds a Config
// by hand instead of through config.Load.
func cacheTTLOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	return ttl
}
