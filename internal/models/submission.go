package models

import "time"

// Submission is append-only: one row per flag attempt, never updated
// or deleted. SolveKey is "<player>:<challenge>" for correct rows and
// NULL otherwise; its unique index is what makes a double award
// impossible even when two identical submissions race.
type Submission struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	PlayerID    string `gorm:"index" json:"playerId"`
	ChallengeID string `gorm:"index" json:"challengeId"`

	SubmittedFlag string `json:"submittedFlag"`
	IsCorrect     bool   `json:"isCorrect"`
	PointsAwarded int    `gorm:"default:0" json:"pointsAwarded"`
	IsFirstBlood  bool   `gorm:"default:false" json:"isFirstBlood"`

	SolveKey *string `gorm:"uniqueIndex" json:"-"`
}

// SolveKeyFor builds the uniqueness key recorded on correct rows.
func SolveKeyFor(playerID, challengeID string) string {
	return playerID + ":" + challengeID
}
