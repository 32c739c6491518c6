package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/apperrors"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"gorm.io/gorm"
)

type HintResult struct {
	Hint        string `json:"hint"`
	Cost        int    `json:"cost"`
	AlreadyOwed bool   `json:"-"`
}

// UnlockHint purchases one hint in a single transaction. The balance
// check and the deduction are one guarded UPDATE, and the unlock row
// sits behind a composite unique index, so neither a double-spend nor
// a double-charge can happen under concurrency. Unlocking something
// already owned returns the hint again without charging.
func UnlockHint(playerID, challengeID string, hintIndex, expectedCost int, ip string) (*HintResult, error) {
	if hintIndex < 0 {
		return nil, apperrors.Validation("Invalid hint index")
	}

	var player models.Player
	if err := database.DB.First(&player, "id = ?", playerID).Error; err != nil {
		return nil, apperrors.NotFound("Player not found")
	}
	if player.IsBanned {
		RecordAuditAsync(AuditEntry{
			EventType:   models.EventBannedAttempt,
			ActorID:     playerID,
			ChallengeID: challengeID,
			IPAddress:   ip,
			Details:     map[string]interface{}{"operation": "unlock_hint"},
		})
		return nil, apperrors.Banned("Your account has been banned")
	}

	var (
		result HintResult
		appErr *apperrors.AppError
	)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		if err := tx.Where("id = ? AND is_active = ?", challengeID, true).First(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				appErr = apperrors.NotFound("Challenge not found")
				return appErr
			}
			return err
		}
		if hintIndex >= len(challenge.Hints) {
			appErr = apperrors.NotFound("Hint not found")
			return appErr
		}

		cost := 0
		if hintIndex < len(challenge.HintCosts) {
			cost = int(challenge.HintCosts[hintIndex])
		}
		if expectedCost != cost {
			appErr = apperrors.Validation("Hint cost has changed, refresh and try again")
			return appErr
		}

		var existing models.HintUnlock
		err := tx.Where("player_id = ? AND challenge_id = ? AND hint_index = ?", playerID, challengeID, hintIndex).
			First(&existing).Error
		if err == nil {
			result = HintResult{Hint: challenge.Hints[hintIndex], Cost: 0, AlreadyOwed: true}
			appErr = apperrors.AlreadyUnlocked()
			return appErr
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if cost > 0 {
			// Balance check and deduction in one statement: the WHERE
			// clause is the row-level guard against double-spend.
			res := tx.Model(&models.Player{}).
				Where("id = ? AND total_points >= ?", playerID, cost).
				UpdateColumns(map[string]interface{}{
					"total_points": gorm.Expr("total_points - ?", cost),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				appErr = apperrors.InsufficientPoints(fmt.Sprintf("You need %d points to unlock this hint", cost))
				return appErr
			}
		}

		unlock := models.HintUnlock{
			ID:          utils.GenerateID(),
			CreatedAt:   time.Now(),
			PlayerID:    playerID,
			ChallengeID: challengeID,
			HintIndex:   hintIndex,
			PointsSpent: cost,
		}
		if err := tx.Create(&unlock).Error; err != nil {
			// A concurrent purchase won the unique index; rolling back
			// also restores the deducted points.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result = HintResult{Hint: challenge.Hints[hintIndex], Cost: 0, AlreadyOwed: true}
				appErr = apperrors.AlreadyUnlocked()
				return appErr
			}
			return err
		}

		result = HintResult{Hint: challenge.Hints[hintIndex], Cost: cost}
		return RecordAudit(tx, AuditEntry{
			EventType:   models.EventHintUnlocked,
			ActorID:     playerID,
			ChallengeID: challengeID,
			IPAddress:   ip,
			Details: map[string]interface{}{
				"hint_index":   hintIndex,
				"points_spent": cost,
			},
		})
	})

	if appErr != nil {
		if appErr.Kind == apperrors.KindAlreadyUnlocked && result.AlreadyOwed {
			// Idempotent outcome: hand the hint back, charge nothing.
			return &result, appErr
		}
		return nil, appErr
	}
	if err != nil {
		logger.Error().Err(err).
			Str("player_id", playerID).
			Str("challenge_id", challengeID).
			Msg("Hint unlock transaction failed")
		return nil, apperrors.Internal()
	}

	Publish(DomainEvent{Type: EventTypeHintPurchase, Payload: map[string]interface{}{
		"playerId":    playerID,
		"challengeId": challengeID,
		"hintIndex":   hintIndex,
		"cost":        result.Cost,
	}})

	return &result, nil
}
