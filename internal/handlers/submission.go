package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/services"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/apperrors"
)

type SubmitFlagInput struct {
	Flag string `json:"flag" binding:"required"`
}

// SubmitFlag handles POST /challenges/:id/submit
func SubmitFlag(c *gin.Context) {
	playerID := c.GetString("playerId")
	challengeID := c.Param("id")

	var input SubmitFlagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Flag is required",
		})
		return
	}

	result, err := services.SubmitFlag(services.SubmitInput{
		PlayerID:    playerID,
		ChallengeID: challengeID,
		Flag:        input.Flag,
		IPAddress:   c.ClientIP(),
	})
	if err != nil {
		appErr := apperrors.FromError(err)
		resp := gin.H{
			"success": false,
			"message": appErr.Message,
			"kind":    appErr.Kind,
		}
		if appErr.Kind == apperrors.KindRateLimited {
			resp["rate_limited"] = true
			resp["retry_after"] = int(appErr.RetryAfter.Seconds())
		}
		c.JSON(appErr.Code, resp)
		return
	}

	message := "Incorrect flag, keep trying"
	if result.Correct {
		message = "Correct! Challenge solved"
		if result.FirstBlood {
			message = "First blood! Challenge solved"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"correct":     result.Correct,
		"points":      result.Points,
		"first_blood": result.FirstBlood,
		"message":     message,
	})
}
