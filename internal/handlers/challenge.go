package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
)

const challengeListCacheKey = "challenges:public"

// ListChallenges handles GET /challenges. Untrusted readers only ever
// see the redacted projection; the flag column never serializes.
func ListChallenges(c *gin.Context) {
	var cached []models.ChallengePublic
	if err := database.CacheGet(challengeListCacheKey, &cached); err == nil {
		c.JSON(http.StatusOK, gin.H{"challenges": cached})
		return
	}

	var challenges []models.Challenge
	query := database.DB.Where("is_active = ?", true).Order("category asc, points asc")
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&challenges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch challenges"})
		return
	}

	public := make([]models.ChallengePublic, 0, len(challenges))
	for i := range challenges {
		public = append(public, challenges[i].Redacted())
	}

	if c.Query("category") == "" {
		if err := database.CacheSet(challengeListCacheKey, public, 30*time.Second); err != nil {
			logger.Debug().Err(err).Msg("Challenge list cache write skipped")
		}
	}

	c.JSON(http.StatusOK, gin.H{"challenges": public})
}

// GetChallenge handles GET /challenges/:id with caller-specific state:
// whether they solved it and which hints they already own.
func GetChallenge(c *gin.Context) {
	challengeID := c.Param("id")

	var challenge models.Challenge
	if err := database.DB.Where("id = ? AND is_active = ?", challengeID, true).First(&challenge).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Challenge not found"})
		return
	}

	resp := gin.H{"challenge": challenge.Redacted()}

	if playerID, exists := c.Get("playerId"); exists {
		var solved int64
		database.DB.Model(&models.Submission{}).
			Where("player_id = ? AND challenge_id = ? AND is_correct = ?", playerID, challengeID, true).
			Count(&solved)
		resp["solved"] = solved > 0

		var unlocks []models.HintUnlock
		database.DB.Where("player_id = ? AND challenge_id = ?", playerID, challengeID).Find(&unlocks)

		hints := make(map[int]string)
		for _, u := range unlocks {
			if u.HintIndex < len(challenge.Hints) {
				hints[u.HintIndex] = challenge.Hints[u.HintIndex]
			}
		}
		resp["unlockedHints"] = hints
	}

	c.JSON(http.StatusOK, resp)
}

// GetMySubmissions handles GET /players/me/submissions
func GetMySubmissions(c *gin.Context) {
	playerID := c.GetString("playerId")

	var submissions []models.Submission
	if err := database.DB.
		Where("player_id = ?", playerID).
		Order("created_at desc").
		Limit(100).
		Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}
