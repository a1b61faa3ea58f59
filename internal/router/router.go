package router

import (
	"pawpals/config"
	"pawpals/internal/cache"
	"pawpals/internal/domain"
	"pawpals/internal/handler"
	"pawpals/internal/identity"
	"pawpals/internal/middleware"
	"pawpals/internal/repository"
	"pawpals/internal/service"
	"pawpals/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, verifier identity.Verifier, nearbyCache cache.NearbyCache, avatars service.AvatarResolver) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	positionRepo := repository.NewPositionRepository(db)

	// Services
	locationSvc := service.NewLocationService(positionRepo, nearbyCache, cfg.Location.NearbyCacheTTL, avatars)

	// Live update channel
	hub := ws.NewHub()
	radii := ws.NewRadiusRegistry(cfg.Location.DefaultRadiusMeters)
	gateway := ws.NewGateway(locationSvc, hub, radii)

	// Handlers
	locationHandler := handler.NewLocationHandler(locationSvc, radii)
	profileHandler := handler.NewProfileHandler(userRepo, avatars)
	adminHandler := handler.NewAdminHandler(userRepo, hub)

	authMw := middleware.AuthRequired(verifier)

	r.GET("/healthz", handler.Health(db))

	api := r.Group("/api/v1")
	{
		api.GET("/nearby", authMw, locationHandler.Nearby)
		api.GET("/ws/locations", handler.UpgradeLocationWS(verifier, hub, gateway))

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", profileHandler.GetProfile)
			me.PATCH("/profile", profileHandler.UpdateProfile)
			me.DELETE("", profileHandler.DeleteAccount)
			me.PATCH("/location", locationHandler.UpdateLocation)
			me.GET("/location", locationHandler.GetMyLocation)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/users", adminHandler.LookupUser)
			admin.POST("/notify", adminHandler.NotifyUser)
		}
	}
	return r
}
