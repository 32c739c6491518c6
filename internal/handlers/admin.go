package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/services"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/apperrors"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"gorm.io/gorm"
)

type AdminUserActionInput struct {
	Username string `json:"username" binding:"required"`
	Reason   string `json:"reason"`
}

// AdminResetScores handles POST /admin/players/reset-scores
func AdminResetScores(c *gin.Context) {
	var input AdminUserActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.AdminResetScores(c.GetString("playerId"), input.Username, c.ClientIP())
	if err != nil {
		appErr := apperrors.FromError(err)
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Scores reset", "result": result})
}

// AdminBanUser handles POST /admin/players/ban
func AdminBanUser(c *gin.Context) {
	var input AdminUserActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.AdminBanUser(c.GetString("playerId"), input.Username, input.Reason, c.ClientIP()); err != nil {
		appErr := apperrors.FromError(err)
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User banned"})
}

// AdminUnbanUser handles POST /admin/players/unban
func AdminUnbanUser(c *gin.Context) {
	var input AdminUserActionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.AdminUnbanUser(c.GetString("playerId"), input.Username, c.ClientIP()); err != nil {
		appErr := apperrors.FromError(err)
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unbanned"})
}

type SettingsInput struct {
	IsActive     *bool      `json:"isActive"`
	StartTime    *time.Time `json:"startTime"`
	EndTime      *time.Time `json:"endTime"`
	FreezeTime   *time.Time `json:"freezeTime"`
	DecayEnabled *bool      `json:"decayEnabled"`
	DecayMinimum *int       `json:"decayMinimum"`
	TeamMode     *bool      `json:"teamMode"`
}

// GetSettings handles GET /admin/settings
func GetSettings(c *gin.Context) {
	settings, err := services.LoadSettings(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles PUT /admin/settings. Only the fields present
// in the request change; the audit row carries exactly what changed.
func UpdateSettings(c *gin.Context) {
	var input SettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.StartTime != nil {
		updates["start_time"] = input.StartTime
	}
	if input.EndTime != nil {
		updates["end_time"] = input.EndTime
	}
	if input.FreezeTime != nil {
		updates["freeze_time"] = input.FreezeTime
	}
	if input.DecayEnabled != nil {
		updates["decay_enabled"] = *input.DecayEnabled
	}
	if input.DecayMinimum != nil {
		if *input.DecayMinimum < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "decayMinimum cannot be negative"})
			return
		}
		updates["decay_minimum"] = *input.DecayMinimum
	}
	if input.TeamMode != nil {
		updates["team_mode"] = *input.TeamMode
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}
	updates["updated_at"] = time.Now()

	var settings models.CompetitionSettings
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", "default").First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.CompetitionSettings{
				ID:        utils.GenerateID(),
				CreatedAt: time.Now(),
				Name:      "default",
			}
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := tx.Model(&models.CompetitionSettings{}).
			Where("id = ?", settings.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&settings, "id = ?", settings.ID).Error; err != nil {
			return err
		}

		details := map[string]interface{}{}
		for k, v := range updates {
			if k != "updated_at" {
				details[k] = v
			}
		}
		return services.RecordAudit(tx, services.AuditEntry{
			EventType: models.EventSettingsUpdated,
			ActorID:   c.GetString("playerId"),
			IPAddress: c.ClientIP(),
			Details:   details,
		})
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	services.InvalidateLeaderboardCache()
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type ChallengeInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Difficulty  string   `json:"difficulty" binding:"required"`
	Points      int      `json:"points" binding:"required,min=1"`
	Flag        string   `json:"flag" binding:"required"`
	Hints       []string `json:"hints"`
	HintCosts   []int64  `json:"hintCosts"`
	Files       []string `json:"files"`
	IsActive    *bool    `json:"isActive"`
}

// AdminCreateChallenge handles POST /admin/challenges
func AdminCreateChallenge(c *gin.Context) {
	var input ChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Hints) != len(input.HintCosts) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hints and hintCosts must have the same length"})
		return
	}

	actorID := c.GetString("playerId")
	challenge := models.Challenge{
		ID:          utils.GenerateID(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Title:       input.Title,
		Description: input.Description,
		Category:    models.Category(input.Category),
		Difficulty:  models.Difficulty(input.Difficulty),
		Points:      input.Points,
		Flag:        input.Flag,
		Hints:       pq.StringArray(input.Hints),
		HintCosts:   pq.Int64Array(input.HintCosts),
		Files:       pq.StringArray(input.Files),
		IsActive:    true,
		AuthorID:    &actorID,
	}
	if input.IsActive != nil {
		challenge.IsActive = *input.IsActive
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&challenge).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, services.AuditEntry{
			EventType:   models.EventChallengeCreated,
			ActorID:     actorID,
			ChallengeID: challenge.ID,
			IPAddress:   c.ClientIP(),
			Details:     map[string]interface{}{"title": challenge.Title, "points": challenge.Points},
		})
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create challenge")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create challenge"})
		return
	}

	database.CacheInvalidate(challengeListCacheKey)
	c.JSON(http.StatusCreated, gin.H{"challenge": challenge})
}

// AdminUpdateChallenge handles PUT /admin/challenges/:id. Solves is not
// editable here; it only moves through the submission engine.
func AdminUpdateChallenge(c *gin.Context) {
	challengeID := c.Param("id")

	var input ChallengeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(input.Hints) != len(input.HintCosts) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hints and hintCosts must have the same length"})
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	updates := map[string]interface{}{
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"difficulty":  input.Difficulty,
		"points":      input.Points,
		"flag":        input.Flag,
		"hints":       pq.StringArray(input.Hints),
		"hint_costs":  pq.Int64Array(input.HintCosts),
		"files":       pq.StringArray(input.Files),
		"updated_at":  time.Now(),
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Challenge{}).Where("id = ?", challengeID).Updates(updates).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, services.AuditEntry{
			EventType:   models.EventChallengeUpdated,
			ActorID:     c.GetString("playerId"),
			ChallengeID: challengeID,
			IPAddress:   c.ClientIP(),
			Details:     map[string]interface{}{"title": input.Title},
		})
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to update challenge")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update challenge"})
		return
	}

	database.CacheInvalidate(challengeListCacheKey)
	services.InvalidateLeaderboardCache()
	c.JSON(http.StatusOK, gin.H{"message": "Challenge updated"})
}

// AdminDeleteChallenge handles DELETE /admin/challenges/:id. The
// challenge is deactivated, not dropped: its submissions and audit
// rows stay meaningful.
func AdminDeleteChallenge(c *gin.Context) {
	challengeID := c.Param("id")

	var challenge models.Challenge
	if err := database.DB.First(&challenge, "id = ?", challengeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Challenge{}).
			Where("id = ?", challengeID).
			Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error; err != nil {
			return err
		}
		return services.RecordAudit(tx, services.AuditEntry{
			EventType:   models.EventChallengeDeleted,
			ActorID:     c.GetString("playerId"),
			ChallengeID: challengeID,
			IPAddress:   c.ClientIP(),
			Details:     map[string]interface{}{"title": challenge.Title},
		})
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to delete challenge")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete challenge"})
		return
	}

	database.CacheInvalidate(challengeListCacheKey)
	c.JSON(http.StatusOK, gin.H{"message": "Challenge deactivated"})
}

// AdminListChallenges handles GET /admin/challenges with flags and
// hints included.
func AdminListChallenges(c *gin.Context) {
	var challenges []models.Challenge
	if err := database.DB.Order("category asc, points asc").Find(&challenges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}

	// The admin view needs the redacted columns too.
	full := make([]gin.H, 0, len(challenges))
	for _, ch := range challenges {
		full = append(full, gin.H{
			"challenge": ch.Redacted(),
			"flag":      ch.Flag,
			"hints":     []string(ch.Hints),
		})
	}
	c.JSON(http.StatusOK, gin.H{"challenges": full})
}

// GetAuditLog handles GET /admin/audit. Filters: eventType, actorId,
// challengeId, limit (default 100, max 500).
func GetAuditLog(c *gin.Context) {
	query := database.DB.Model(&models.AuditLog{}).Order("created_at desc")

	if eventType := c.Query("eventType"); eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	if actorID := c.Query("actorId"); actorID != "" {
		query = query.Where("actor_id = ?", actorID)
	}
	if challengeID := c.Query("challengeId"); challengeID != "" {
		query = query.Where("challenge_id = ?", challengeID)
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	var entries []models.AuditLog
	if err := query.Limit(limit).Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// GetSecurityStats handles GET /admin/security. Aggregate counts of the
// events that indicate abuse over the last 24 hours.
func GetSecurityStats(c *gin.Context) {
	since := time.Now().Add(-24 * time.Hour)

	stats := gin.H{}
	for _, et := range []models.EventType{
		models.EventRateLimitHit,
		models.EventScoreManipulation,
		models.EventBannedAttempt,
		models.EventFlagIncorrect,
	} {
		var count int64
		database.DB.Model(&models.AuditLog{}).
			Where("event_type = ? AND created_at >= ?", et, since).
			Count(&count)
		stats[string(et)] = count
	}

	var bannedCount int64
	database.DB.Model(&models.Player{}).Where("is_banned = ?", true).Count(&bannedCount)
	stats["BANNED_PLAYERS"] = bannedCount

	c.JSON(http.StatusOK, gin.H{"since": since, "stats": stats})
}
