package services

import (
	"errors"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/apperrors"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"gorm.io/gorm"
)

type ScoreResetResult struct {
	Username  string `json:"username"`
	OldPoints int    `json:"oldPoints"`
	NewPoints int    `json:"newPoints"`
	OldSolved int    `json:"oldSolved"`
	NewSolved int    `json:"newSolved"`
}

// AdminResetScores zeroes a player's score columns. This is one of the
// three authorized score writers; the old and new values both land in
// the audit trail.
func AdminResetScores(actorID, username, ip string) (*ScoreResetResult, error) {
	var result ScoreResetResult

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var player models.Player
		if err := tx.Where("username = ?", username).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Player not found")
			}
			return err
		}

		result = ScoreResetResult{
			Username:  player.Username,
			OldPoints: player.TotalPoints,
			OldSolved: player.ChallengesSolved,
		}

		if err := tx.Set(models.ScoreWriterKey, models.ScoreWriterAdmin).
			Model(&models.Player{}).
			Where("id = ?", player.ID).
			Updates(map[string]interface{}{
				"total_points":      0,
				"challenges_solved": 0,
			}).Error; err != nil {
			return err
		}

		return RecordAudit(tx, AuditEntry{
			EventType: models.EventAdminScoreReset,
			ActorID:   actorID,
			TargetID:  player.ID,
			IPAddress: ip,
			Details: map[string]interface{}{
				"username":   player.Username,
				"old_points": result.OldPoints,
				"new_points": 0,
				"old_solved": result.OldSolved,
				"new_solved": 0,
			},
		})
	})

	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		logger.Error().Err(err).Str("username", username).Msg("Score reset failed")
		return nil, apperrors.Internal()
	}

	InvalidateLeaderboardCache()
	return &result, nil
}

// AdminBanUser flags the player as banned with actor and timestamp.
// Banned players fail validation on every scoring entry point.
func AdminBanUser(actorID, username, reason, ip string) error {
	return adminSetBanState(actorID, username, reason, ip, true)
}

// AdminUnbanUser clears a ban.
func AdminUnbanUser(actorID, username, ip string) error {
	return adminSetBanState(actorID, username, "", ip, false)
}

func adminSetBanState(actorID, username, reason, ip string, banned bool) error {
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var player models.Player
		if err := tx.Where("username = ?", username).First(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Player not found")
			}
			return err
		}

		updates := map[string]interface{}{"is_banned": banned}
		eventType := models.EventUserUnbanned
		if banned {
			now := time.Now()
			updates["ban_reason"] = reason
			updates["banned_at"] = &now
			updates["banned_by"] = actorID
			eventType = models.EventUserBanned
		} else {
			updates["ban_reason"] = nil
			updates["banned_at"] = nil
			updates["banned_by"] = nil
		}

		if err := tx.Model(&models.Player{}).Where("id = ?", player.ID).Updates(updates).Error; err != nil {
			return err
		}

		return RecordAudit(tx, AuditEntry{
			EventType: eventType,
			ActorID:   actorID,
			TargetID:  player.ID,
			IPAddress: ip,
			Details: map[string]interface{}{
				"username": player.Username,
				"reason":   reason,
			},
		})
	})

	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		logger.Error().Err(err).Str("username", username).Msg("Ban state change failed")
		return apperrors.Internal()
	}
	return nil
}
