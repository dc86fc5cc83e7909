package routes

import (
	"math-operations-api/internal/auth"
	"math-operations-api/internal/config"
	"math-operations-api/internal/handlers"
	"math-operations-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Options tunes the router's global middleware.
type Options struct {
	CORSOrigins []string
	Logger      zerolog.Logger
}

func SetupRoutes(h *handlers.Handler, tokens *auth.TokenManager, opts Options) *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
	)

	ginRouter.GET("/", h.Root)
	ginRouter.GET("/health", h.Health)

	// Public routes (no authentication required)
	api := ginRouter.Group(config.APIPrefix)
	{
		api.GET("/health", h.Health)
		api.POST("/calculate", h.Calculate)
		api.GET("/history", h.GetHistory)
		api.GET("/cache/stats", h.GetCacheStats)
		api.POST("/login", h.Login)
	}

	// Administrative routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(tokens))
	{
		protectedRoutes.DELETE("/cache", h.ClearCache)
		protectedRoutes.GET("/ws", h.WebSocket)
	}

	return ginRouter
}
