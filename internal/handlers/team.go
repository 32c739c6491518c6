package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"gorm.io/gorm"
)

type CreateTeamInput struct {
	Name        string `json:"name" binding:"required,min=3,max=48"`
	Description string `json:"description"`
}

type JoinTeamInput struct {
	InviteCode string `json:"inviteCode" binding:"required"`
}

// CreateTeam handles POST /teams. The creator becomes captain and the
// invite code is only ever shown to members.
func CreateTeam(c *gin.Context) {
	playerID := c.GetString("playerId")

	var input CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var player models.Player
	if err := database.DB.First(&player, "id = ?", playerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}
	if player.TeamID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already on a team"})
		return
	}

	team := models.Team{
		ID:          utils.GenerateID(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CaptainID:   &player.ID,
		InviteCode:  utils.GenerateInviteCode(8),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return tx.Model(&models.Player{}).
			Where("id = ?", playerID).
			Updates(map[string]interface{}{"team_id": team.ID, "updated_at": time.Now()}).Error
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			c.JSON(http.StatusConflict, gin.H{"error": "Team name already taken"})
			return
		}
		logger.Error().Err(err).Msg("Failed to create team")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": team, "inviteCode": team.InviteCode})
}

// JoinTeam handles POST /teams/join
func JoinTeam(c *gin.Context) {
	playerID := c.GetString("playerId")

	var input JoinTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var player models.Player
	if err := database.DB.First(&player, "id = ?", playerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}
	if player.TeamID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already on a team"})
		return
	}

	var team models.Team
	if err := database.DB.Where("invite_code = ?", strings.TrimSpace(input.InviteCode)).First(&team).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite code"})
		return
	}

	if err := database.DB.Model(&models.Player{}).
		Where("id = ?", playerID).
		Updates(map[string]interface{}{"team_id": team.ID, "updated_at": time.Now()}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team})
}

// LeaveTeam handles POST /teams/leave. Captaincy passes to another
// member when the captain leaves; an empty team is removed.
func LeaveTeam(c *gin.Context) {
	playerID := c.GetString("playerId")

	var player models.Player
	if err := database.DB.First(&player, "id = ?", playerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}
	if player.TeamID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are not on a team"})
		return
	}
	teamID := *player.TeamID

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Player{}).
			Where("id = ?", playerID).
			Updates(map[string]interface{}{"team_id": nil, "updated_at": time.Now()}).Error; err != nil {
			return err
		}

		var remaining []models.Player
		if err := tx.Where("team_id = ?", teamID).Order("created_at asc").Find(&remaining).Error; err != nil {
			return err
		}
		if len(remaining) == 0 {
			return tx.Delete(&models.Team{}, "id = ?", teamID).Error
		}

		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			return err
		}
		if team.CaptainID != nil && *team.CaptainID == playerID {
			return tx.Model(&models.Team{}).
				Where("id = ?", teamID).
				Update("captain_id", remaining[0].ID).Error
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Str("team_id", teamID).Msg("Failed to leave team")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left team"})
}

// GetTeam handles GET /teams/:id
func GetTeam(c *gin.Context) {
	teamID := c.Param("id")

	var team models.Team
	if err := database.DB.First(&team, "id = ?", teamID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	var members []models.Player
	database.DB.Where("team_id = ?", teamID).
		Order("total_points desc").
		Find(&members)

	resp := gin.H{"team": team, "members": members}

	// Members get the invite code back; outsiders do not.
	if playerID, exists := c.Get("playerId"); exists {
		for _, m := range members {
			if m.ID == playerID {
				resp["inviteCode"] = team.InviteCode
				break
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetMyTeam handles GET /teams/me
func GetMyTeam(c *gin.Context) {
	playerID := c.GetString("playerId")

	var player models.Player
	if err := database.DB.First(&player, "id = ?", playerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}
	if player.TeamID == nil {
		c.JSON(http.StatusOK, gin.H{"team": nil})
		return
	}

	c.Params = append(c.Params, gin.Param{Key: "id", Value: *player.TeamID})
	GetTeam(c)
}
