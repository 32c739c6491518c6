package models

import "time"

// CompetitionSettings is the singleton row named "default". Services
// load a snapshot per call; nothing holds it as ambient mutable state.
type CompetitionSettings struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"uniqueIndex;default:'default'" json:"name"`
	IsActive bool   `gorm:"default:false" json:"isActive"`

	StartTime  *time.Time `json:"startTime"`
	EndTime    *time.Time `json:"endTime"`
	FreezeTime *time.Time `json:"freezeTime"`

	DecayEnabled bool `gorm:"default:false" json:"decayEnabled"`
	DecayMinimum int  `gorm:"default:50" json:"decayMinimum"`

	TeamMode bool `gorm:"default:false" json:"teamMode"`
}
