package services

import (
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateDecision is the outcome of one attempt-counter check.
type RateDecision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// CheckAndIncrement maintains the per (player, challenge) sliding
// window. Expired or missing windows open fresh with count=1. A live
// window gets an atomic increment; when the post-increment count
// exceeds the limit the caller is throttled and the window is left
// where it is, so repeated throttled calls see a stable, decreasing
// retry-after. Runs inside the caller's transaction and must be
// consulted before any flag comparison.
func CheckAndIncrement(tx *gorm.DB, playerID, challengeID string, limit int, window time.Duration) (RateDecision, error) {
	now := time.Now()

	var rl models.SubmissionRateLimit
	err := tx.Where("player_id = ? AND challenge_id = ?", playerID, challengeID).First(&rl).Error
	if err == gorm.ErrRecordNotFound {
		fresh := models.SubmissionRateLimit{
			ID:           utils.GenerateID(),
			CreatedAt:    now,
			PlayerID:     playerID,
			ChallengeID:  challengeID,
			AttemptCount: 1,
			WindowStart:  now,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_id"}, {Name: "challenge_id"}},
			DoNothing: true,
		}).Create(&fresh)
		if res.Error != nil {
			return RateDecision{}, res.Error
		}
		if res.RowsAffected > 0 {
			return RateDecision{Allowed: true}, nil
		}
		// Lost the insert race; fall through to the increment path.
		if err := tx.Where("player_id = ? AND challenge_id = ?", playerID, challengeID).First(&rl).Error; err != nil {
			return RateDecision{}, err
		}
	} else if err != nil {
		return RateDecision{}, err
	}

	windowEnd := rl.WindowStart.Add(window)
	if !now.Before(windowEnd) {
		// Window expired: reset, guarded on the old window start so a
		// concurrent reset wins only once.
		res := tx.Model(&models.SubmissionRateLimit{}).
			Where("id = ? AND window_start = ?", rl.ID, rl.WindowStart).
			Updates(map[string]interface{}{"attempt_count": 1, "window_start": now})
		if res.Error != nil {
			return RateDecision{}, res.Error
		}
		if res.RowsAffected > 0 {
			return RateDecision{Allowed: true}, nil
		}
		if err := tx.First(&rl, "id = ?", rl.ID).Error; err != nil {
			return RateDecision{}, err
		}
		windowEnd = rl.WindowStart.Add(window)
	}

	if err := tx.Model(&models.SubmissionRateLimit{}).
		Where("id = ?", rl.ID).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1")).Error; err != nil {
		return RateDecision{}, err
	}
	if err := tx.First(&rl, "id = ?", rl.ID).Error; err != nil {
		return RateDecision{}, err
	}

	if rl.AttemptCount > limit {
		retry := windowEnd.Sub(now)
		if retry < 0 {
			retry = 0
		}
		return RateDecision{Allowed: false, RetryAfter: retry}, nil
	}
	return RateDecision{Allowed: true}, nil
}
