package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RolePlayer Role = "USER"
	RoleAdmin  Role = "ADMIN"
)

// Player is the scoring identity. TotalPoints and ChallengesSolved are
// protected columns: they may only change through the submission
// engine, the hint economy, or an admin reset. Everything else that
// tries gets rejected by the BeforeUpdate guard below.
type Player struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username    string `gorm:"uniqueIndex" json:"username"`
	Email       string `gorm:"uniqueIndex" json:"email"`
	Password    string `json:"-"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Country     string `json:"country"`
	AvatarURL   string `json:"avatarUrl"`

	Role Role `gorm:"type:text;default:'USER'" json:"role"`

	TotalPoints      int `gorm:"default:0" json:"totalPoints"`
	ChallengesSolved int `gorm:"default:0" json:"challengesSolved"`

	IsBanned  bool       `gorm:"default:false" json:"isBanned"`
	BanReason *string    `json:"banReason,omitempty"`
	BannedAt  *time.Time `json:"bannedAt,omitempty"`
	BannedBy  *string    `json:"bannedBy,omitempty"`

	TeamID *string `gorm:"index" json:"teamId"`
}

// ScoreWriter marks a transaction as authorized to touch protected
// score columns. Set it with tx.Set(ScoreWriterKey, writer).
type ScoreWriter string

const (
	ScoreWriterKey = "ctf:score_writer"

	ScoreWriterSubmission ScoreWriter = "submission_engine"
	ScoreWriterHints      ScoreWriter = "hint_economy"
	ScoreWriterAdmin      ScoreWriter = "admin_reset"
)

// ErrScoreManipulation is returned by the guard when an unauthorized
// write targets a protected score column.
var ErrScoreManipulation = fmt.Errorf("direct score modification is not permitted")

// ManipulationBlockedHandler is invoked outside the failing
// transaction so the audit trail survives the rollback. Wired up by
// the services package at startup.
var ManipulationBlockedHandler func(playerID string, column string, attempted, actual int64)

// BeforeUpdate enforces the anti-manipulation invariant at the store
// boundary. UpdateColumn(s) skips hooks, which is exactly the path the
// engine itself uses; any Updates/Save that touches protected columns
// without the score-writer key is rejected.
func (p *Player) BeforeUpdate(tx *gorm.DB) error {
	if _, authorized := tx.Get(ScoreWriterKey); authorized {
		return nil
	}

	playerID := p.ID
	if playerID == "" {
		if id, ok := updatedColumnString(tx, "id"); ok {
			playerID = id
		}
	}

	if dest, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		for _, col := range []string{"total_points", "challenges_solved"} {
			attempted, touched := mapColumnInt(dest, col)
			if !touched {
				continue
			}
			actual := currentScoreColumn(tx, playerID, col)
			if ManipulationBlockedHandler != nil {
				ManipulationBlockedHandler(playerID, col, attempted, actual)
			}
			return ErrScoreManipulation
		}
		return nil
	}

	// Struct update (Save / Updates with struct): compare against the
	// stored row.
	var current Player
	if err := tx.Session(&gorm.Session{NewDB: true}).
		Select("total_points", "challenges_solved").
		First(&current, "id = ?", playerID).Error; err != nil {
		return nil
	}
	if p.TotalPoints != current.TotalPoints {
		if ManipulationBlockedHandler != nil {
			ManipulationBlockedHandler(playerID, "total_points", int64(p.TotalPoints), int64(current.TotalPoints))
		}
		return ErrScoreManipulation
	}
	if p.ChallengesSolved != current.ChallengesSolved {
		if ManipulationBlockedHandler != nil {
			ManipulationBlockedHandler(playerID, "challenges_solved", int64(p.ChallengesSolved), int64(current.ChallengesSolved))
		}
		return ErrScoreManipulation
	}
	return nil
}

func mapColumnInt(dest map[string]interface{}, col string) (int64, bool) {
	v, ok := dest[col]
	if !ok {
		// Struct-style keys also show up in handler-built maps.
		switch col {
		case "total_points":
			v, ok = dest["TotalPoints"]
		case "challenges_solved":
			v, ok = dest["ChallengesSolved"]
		}
	}
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, true
	}
}

func updatedColumnString(tx *gorm.DB, col string) (string, bool) {
	if dest, ok := tx.Statement.Dest.(map[string]interface{}); ok {
		if v, ok := dest[col].(string); ok {
			return v, true
		}
	}
	return "", false
}

func currentScoreColumn(tx *gorm.DB, playerID, col string) int64 {
	var current Player
	if err := tx.Session(&gorm.Session{NewDB: true}).
		Select("total_points", "challenges_solved").
		First(&current, "id = ?", playerID).Error; err != nil {
		return 0
	}
	if col == "challenges_solved" {
		return int64(current.ChallengesSolved)
	}
	return int64(current.TotalPoints)
}
