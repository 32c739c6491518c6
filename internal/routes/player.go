package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/handlers"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/middleware"
)

func RegisterPlayerRoutes(r gin.IRouter) {
	players := r.Group("/players", middleware.AuthMiddleware())
	{
		players.GET("/me", handlers.GetProfile)
		players.PUT("/me", handlers.UpdateProfile)
		players.GET("/me/submissions", handlers.GetMySubmissions)
	}
}
