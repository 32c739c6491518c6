package services

import (
	"errors"
	"strings"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/config"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/apperrors"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"gorm.io/gorm"
)

type SubmitInput struct {
	PlayerID    string
	ChallengeID string
	Flag        string
	IPAddress   string
}

type SubmitResult struct {
	Correct    bool `json:"correct"`
	Points     int  `json:"points"`
	FirstBlood bool `json:"firstBlood"`
}

// SubmitFlag runs one atomic flag-submission transaction: validation,
// already-solved short-circuit, rate check, correctness, award,
// commit. Business rejections come back as typed AppErrors; the only
// caller-retryable failure is KindInternal.
func SubmitFlag(in SubmitInput) (*SubmitResult, error) {
	if in.Flag == "" || strings.TrimSpace(in.Flag) == "" {
		return nil, apperrors.Validation("Flag cannot be empty")
	}
	if !utils.IsUUID(in.ChallengeID) {
		return nil, apperrors.Validation("Invalid challenge id")
	}

	var player models.Player
	if err := database.DB.First(&player, "id = ?", in.PlayerID).Error; err != nil {
		return nil, apperrors.NotFound("Player not found")
	}
	if player.IsBanned {
		RecordAuditAsync(AuditEntry{
			EventType:   models.EventBannedAttempt,
			ActorID:     in.PlayerID,
			ChallengeID: in.ChallengeID,
			IPAddress:   in.IPAddress,
			Details:     map[string]interface{}{"operation": "submit_flag"},
		})
		return nil, apperrors.Banned("Your account has been banned")
	}

	settings, err := LoadSettings(database.DB)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load competition settings")
		return nil, apperrors.Internal()
	}
	if !AcceptsSubmissions(CompetitionStateAt(time.Now(), settings)) {
		return nil, apperrors.CompetitionClosed("The competition is not accepting submissions right now")
	}

	limit := config.AppConfig.SubmitAttemptLimit
	window := time.Duration(config.AppConfig.SubmitWindowSeconds) * time.Second

	var (
		result    SubmitResult
		throttled *RateDecision
		appErr    *apperrors.AppError
	)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var challenge models.Challenge
		if err := tx.Where("id = ? AND is_active = ?", in.ChallengeID, true).First(&challenge).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				appErr = apperrors.NotFound("Challenge not found")
				return appErr
			}
			return err
		}

		// Duplicate and retried requests stop here, before they can
		// burn a rate-limit slot or touch any counter.
		var existing models.Submission
		err := tx.Where("player_id = ? AND challenge_id = ? AND is_correct = ?", in.PlayerID, in.ChallengeID, true).
			First(&existing).Error
		if err == nil {
			appErr = apperrors.AlreadySolved()
			return appErr
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		decision, err := CheckAndIncrement(tx, in.PlayerID, in.ChallengeID, limit, window)
		if err != nil {
			return err
		}
		if !decision.Allowed {
			// The counter increment and this audit row must survive,
			// so the transaction commits; the typed rejection is
			// attached outside.
			throttled = &decision
			return RecordAudit(tx, AuditEntry{
				EventType:   models.EventRateLimitHit,
				ActorID:     in.PlayerID,
				ChallengeID: in.ChallengeID,
				IPAddress:   in.IPAddress,
				Details: map[string]interface{}{
					"retry_after_seconds": int(decision.RetryAfter.Seconds()),
				},
			})
		}

		// The canonical flag never leaves this comparison.
		correct := strings.TrimSpace(in.Flag) == challenge.Flag

		sub := models.Submission{
			ID:            utils.GenerateID(),
			CreatedAt:     time.Now(),
			PlayerID:      in.PlayerID,
			ChallengeID:   in.ChallengeID,
			SubmittedFlag: strings.TrimSpace(in.Flag),
			IsCorrect:     correct,
		}

		if correct {
			// The solves increment takes the challenge row lock, so
			// concurrent correct submissions serialize here and first
			// blood is decided exactly once.
			if err := tx.Model(&models.Challenge{}).
				Where("id = ?", challenge.ID).
				UpdateColumn("solves", gorm.Expr("solves + 1")).Error; err != nil {
				return err
			}
			if err := tx.First(&challenge, "id = ?", challenge.ID).Error; err != nil {
				return err
			}
			priorSolves := challenge.Solves - 1
			points := AwardPoints(&challenge, settings, priorSolves)
			firstBlood := challenge.Solves == 1

			key := models.SolveKeyFor(in.PlayerID, in.ChallengeID)
			sub.PointsAwarded = points
			sub.IsFirstBlood = firstBlood
			sub.SolveKey = &key

			if err := tx.Model(&models.Player{}).
				Where("id = ?", in.PlayerID).
				UpdateColumns(map[string]interface{}{
					"total_points":      gorm.Expr("total_points + ?", points),
					"challenges_solved": gorm.Expr("challenges_solved + 1"),
				}).Error; err != nil {
				return err
			}

			if settings.TeamMode && player.TeamID != nil {
				if err := tx.Model(&models.Team{}).
					Where("id = ?", *player.TeamID).
					UpdateColumn("total_points", gorm.Expr("total_points + ?", points)).Error; err != nil {
					return err
				}
			}

			result = SubmitResult{Correct: true, Points: points, FirstBlood: firstBlood}
		}

		if err := tx.Create(&sub).Error; err != nil {
			// A racing duplicate hit the solve-key unique index; the
			// rollback also undoes the counters above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				appErr = apperrors.AlreadySolved()
				return appErr
			}
			return err
		}

		eventType := models.EventFlagIncorrect
		if correct {
			eventType = models.EventFlagCorrect
		}
		return RecordAudit(tx, AuditEntry{
			EventType:   eventType,
			ActorID:     in.PlayerID,
			ChallengeID: in.ChallengeID,
			IPAddress:   in.IPAddress,
			Details: map[string]interface{}{
				"points_awarded": sub.PointsAwarded,
				"first_blood":    sub.IsFirstBlood,
			},
		})
	})

	if throttled != nil {
		return nil, apperrors.RateLimited(throttled.RetryAfter)
	}
	if appErr != nil {
		return nil, appErr
	}
	if err != nil {
		logger.Error().Err(err).
			Str("player_id", in.PlayerID).
			Str("challenge_id", in.ChallengeID).
			Msg("Flag submission transaction failed")
		return nil, apperrors.Internal()
	}

	// Post-commit fan-out. Observers are decoupled from the
	// transaction; their failure is their own problem.
	if result.Correct {
		payload := map[string]interface{}{
			"playerId":    in.PlayerID,
			"username":    player.Username,
			"challengeId": in.ChallengeID,
			"points":      result.Points,
		}
		Publish(DomainEvent{Type: EventTypeSolve, Payload: payload})
		if result.FirstBlood {
			Publish(DomainEvent{Type: EventTypeFirstBlood, Payload: payload})
		}
		InvalidateLeaderboardCache()
	}

	return &result, nil
}
