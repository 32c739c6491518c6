package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/handlers"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/middleware"
)

func RegisterChallengeRoutes(r gin.IRouter) {
	challenges := r.Group("/challenges")
	{
		challenges.GET("", middleware.OptionalAuthMiddleware(), handlers.ListChallenges)
		challenges.GET("/:id", middleware.OptionalAuthMiddleware(), handlers.GetChallenge)

		// Scoring entry points: authenticated, with the per-IP limiter in
		// front of the per-player window inside the engine.
		challenges.POST("/:id/submit", middleware.AuthMiddleware(), middleware.SubmitRateLimit(), handlers.SubmitFlag)
		challenges.POST("/:id/hints", middleware.AuthMiddleware(), middleware.SubmitRateLimit(), handlers.UnlockHint)
	}
}
