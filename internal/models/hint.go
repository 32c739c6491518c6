package models

import "time"

// HintUnlock records one purchased hint. The composite unique index
// makes unlocking idempotent: a second purchase attempt conflicts
// instead of charging again.
type HintUnlock struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	PlayerID    string `gorm:"index;uniqueIndex:uq_hint_unlock" json:"playerId"`
	ChallengeID string `gorm:"uniqueIndex:uq_hint_unlock" json:"challengeId"`
	HintIndex   int    `gorm:"uniqueIndex:uq_hint_unlock" json:"hintIndex"`

	PointsSpent int `json:"pointsSpent"`
}
