package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/handlers"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/middleware"
)

func RegisterScoreboardRoutes(r gin.IRouter) {
	r.GET("/leaderboard", middleware.OptionalAuthMiddleware(), handlers.GetLeaderboard)
	r.GET("/leaderboard/teams", middleware.OptionalAuthMiddleware(), handlers.GetTeamLeaderboard)
	r.GET("/competition", handlers.GetCompetitionStatus)
	r.GET("/feed", handlers.LiveFeed)
}
