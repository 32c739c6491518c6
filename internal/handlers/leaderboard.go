package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/services"
)

func callerIsAdmin(c *gin.Context) bool {
	playerID, exists := c.Get("playerId")
	if !exists {
		return false
	}
	var player models.Player
	if err := database.DB.Select("role").First(&player, "id = ?", playerID).Error; err != nil {
		return false
	}
	return player.Role == models.RoleAdmin
}

// GetLeaderboard handles GET /leaderboard. During a freeze untrusted
// readers see the pre-freeze snapshot; admins see live standings.
func GetLeaderboard(c *gin.Context) {
	entries, err := services.GetLeaderboard(callerIsAdmin(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	state, settings, _ := services.CurrentState()
	resp := gin.H{
		"leaderboard": entries,
		"state":       state,
	}
	if settings != nil && settings.FreezeTime != nil && state == services.StateFrozen {
		resp["frozenAt"] = settings.FreezeTime
	}
	c.JSON(http.StatusOK, resp)
}

// GetTeamLeaderboard handles GET /leaderboard/teams
func GetTeamLeaderboard(c *gin.Context) {
	entries, err := services.GetTeamLeaderboard(callerIsAdmin(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// GetCompetitionStatus handles GET /competition. Public view of the
// clock so clients can render countdowns.
func GetCompetitionStatus(c *gin.Context) {
	state, settings, err := services.CurrentState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load competition status"})
		return
	}

	resp := gin.H{
		"state":      state,
		"serverTime": time.Now().UTC(),
	}
	if settings != nil {
		resp["startTime"] = settings.StartTime
		resp["endTime"] = settings.EndTime
		resp["freezeTime"] = settings.FreezeTime
		resp["teamMode"] = settings.TeamMode
	}
	c.JSON(http.StatusOK, resp)
}
