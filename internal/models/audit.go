package models

import "time"

type EventType string

const (
	EventFlagCorrect       EventType = "FLAG_CORRECT"
	EventFlagIncorrect     EventType = "FLAG_INCORRECT"
	EventRateLimitHit      EventType = "RATE_LIMIT_HIT"
	EventScoreManipulation EventType = "SCORE_MANIPULATION_BLOCKED"
	EventAdminScoreReset   EventType = "ADMIN_SCORE_RESET"
	EventUserBanned        EventType = "USER_BANNED"
	EventUserUnbanned      EventType = "USER_UNBANNED"
	EventHintUnlocked      EventType = "HINT_UNLOCKED"
	EventBannedAttempt     EventType = "BANNED_ATTEMPT"
	EventSettingsUpdated   EventType = "SETTINGS_UPDATED"
	EventChallengeCreated  EventType = "CHALLENGE_CREATED"
	EventChallengeUpdated  EventType = "CHALLENGE_UPDATED"
	EventChallengeDeleted  EventType = "CHALLENGE_DELETED"
)

// AuditLog is append-only. Rows are written by the scoring engine, the
// hint economy, the guard and admin operations; nothing updates them.
type AuditLog struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	EventType   EventType `gorm:"type:text;index" json:"eventType"`
	ActorID     *string   `gorm:"index" json:"actorId"`
	TargetID    *string   `json:"targetId"`
	ChallengeID *string   `json:"challengeId"`
	IPAddress   string    `json:"ipAddress"`

	// Details is a JSON blob; jsonb on Postgres, plain text elsewhere.
	Details string `gorm:"type:jsonb" json:"details"`
}
