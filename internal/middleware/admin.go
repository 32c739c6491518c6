package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
)

// AdminOnly restricts access to players with the ADMIN role. The
// rejection is identical whether the caller is unknown or merely
// unprivileged, so probing reveals nothing about targets.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		playerID, exists := c.Get("playerId")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var player models.Player
		if err := database.DB.First(&player, "id = ?", playerID.(string)).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		if player.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
