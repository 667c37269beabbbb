package routes

import (
	"windbooks_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the HTTP API under /api/v1.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMiddleware gin.HandlerFunc,
	adminMiddleware gin.HandlerFunc,
) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api, authMiddleware)
		appHandlers.UserHandler.RegisterRoutes(api, authMiddleware, adminMiddleware)
		appHandlers.ConfigHandler.RegisterRoutes(api)
	}
}
