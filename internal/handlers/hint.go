package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/services"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/apperrors"
)

type UnlockHintInput struct {
	HintIndex    int `json:"hintIndex"`
	ExpectedCost int `json:"expectedCost"`
}

// UnlockHint handles POST /challenges/:id/hints
func UnlockHint(c *gin.Context) {
	playerID := c.GetString("playerId")
	challengeID := c.Param("id")

	var input UnlockHintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := services.UnlockHint(playerID, challengeID, input.HintIndex, input.ExpectedCost, c.ClientIP())
	if err != nil {
		appErr := apperrors.FromError(err)
		// Re-requesting an owned hint is not a failure: the hint comes
		// back again and nothing is charged.
		if appErr.Kind == apperrors.KindAlreadyUnlocked && result != nil {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"hint":    result.Hint,
				"cost":    0,
				"message": "Hint already unlocked",
			})
			return
		}
		c.JSON(appErr.Code, gin.H{
			"success": false,
			"message": appErr.Message,
			"kind":    appErr.Kind,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"hint":    result.Hint,
		"cost":    result.Cost,
		"message": "Hint unlocked",
	})
}
