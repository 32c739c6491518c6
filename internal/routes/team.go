package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/handlers"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/middleware"
)

func RegisterTeamRoutes(r gin.IRouter) {
	teams := r.Group("/teams")
	{
		teams.POST("", middleware.AuthMiddleware(), handlers.CreateTeam)
		teams.POST("/join", middleware.AuthMiddleware(), handlers.JoinTeam)
		teams.POST("/leave", middleware.AuthMiddleware(), handlers.LeaveTeam)
		teams.GET("/me", middleware.AuthMiddleware(), handlers.GetMyTeam)
		teams.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetTeam)
	}
}
