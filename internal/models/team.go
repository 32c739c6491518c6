package models

import "time"

// Team references its captain by id only; players reference the team
// by id as well. No owning pointers in either direction.
type Team struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string  `gorm:"uniqueIndex" json:"name"`
	Description string  `json:"description"`
	CaptainID   *string `json:"captainId"`
	InviteCode  string  `gorm:"uniqueIndex" json:"-"`
	AvatarURL   string  `json:"avatarUrl"`

	// Aggregate of member scores, maintained by the submission engine
	// when team mode is on.
	TotalPoints int `gorm:"default:0" json:"totalPoints"`
}
