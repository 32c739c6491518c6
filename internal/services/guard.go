package services

import (
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
)

// RegisterScoreGuard wires the anti-manipulation hook on Player to the
// audit log and the security event feed. The audit row is written on
// its own connection because the offending transaction is about to
// roll back; the attempted write must be recorded, the score must not
// move. Call once at startup (and in test setup).
func RegisterScoreGuard() {
	models.ManipulationBlockedHandler = func(playerID, column string, attempted, actual int64) {
		logger.Warn().
			Str("player_id", playerID).
			Str("column", column).
			Int64("attempted", attempted).
			Int64("actual", actual).
			Msg("Blocked direct score modification")

		RecordAuditAsync(AuditEntry{
			EventType: models.EventScoreManipulation,
			ActorID:   playerID,
			TargetID:  playerID,
			Details: map[string]interface{}{
				"column":          column,
				"attempted_value": attempted,
				"actual_value":    actual,
			},
		})

		Publish(DomainEvent{Type: EventTypeSecurityAlert, Payload: map[string]interface{}{
			"kind":      "score_manipulation_blocked",
			"playerId":  playerID,
			"column":    column,
			"attempted": attempted,
			"actual":    actual,
		}})
	}
}
