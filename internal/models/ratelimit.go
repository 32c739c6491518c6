package models

import "time"

// SubmissionRateLimit is the per (player, challenge) sliding window.
// WindowStart only advances when a fresh window opens; throttled
// attempts keep incrementing the counter but never move the window, so
// retry-after stays stable and decreasing.
type SubmissionRateLimit struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	PlayerID    string `gorm:"uniqueIndex:uq_rate_window" json:"playerId"`
	ChallengeID string `gorm:"uniqueIndex:uq_rate_window" json:"challengeId"`

	AttemptCount int       `gorm:"default:1" json:"attemptCount"`
	WindowStart  time.Time `json:"windowStart"`
}
