package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/handlers"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/middleware"
)

func RegisterAdminRoutes(r gin.IRouter) {
	admin := r.Group("/admin", middleware.AuthMiddleware(), middleware.AdminOnly())
	{
		admin.POST("/players/reset-scores", handlers.AdminResetScores)
		admin.POST("/players/ban", handlers.AdminBanUser)
		admin.POST("/players/unban", handlers.AdminUnbanUser)

		admin.GET("/settings", handlers.GetSettings)
		admin.PUT("/settings", handlers.UpdateSettings)

		admin.GET("/challenges", handlers.AdminListChallenges)
		admin.POST("/challenges", handlers.AdminCreateChallenge)
		admin.PUT("/challenges/:id", handlers.AdminUpdateChallenge)
		admin.DELETE("/challenges/:id", handlers.AdminDeleteChallenge)

		admin.GET("/audit", handlers.GetAuditLog)
		admin.GET("/security", handlers.GetSecurityStats)
	}
}
