package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/handlers"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/middleware"
)

func RegisterAuthRoutes(r gin.IRouter) {
	r.POST("/register", middleware.AuthRateLimit(), handlers.Register)
	r.POST("/login", middleware.AuthRateLimit(), handlers.Login)
	r.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
}
