package models

import (
	"time"

	"github.com/lib/pq"
)

type Category string

const (
	CategoryWeb       Category = "web"
	CategoryCrypto    Category = "crypto"
	CategoryReverse   Category = "reverse"
	CategoryForensics Category = "forensics"
	CategoryPwn       Category = "pwn"
	CategoryScripting Category = "scripting"
	CategoryMisc      Category = "misc"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyInsane Difficulty = "insane"
)

// Challenge holds the canonical flag. The Flag column never leaves the
// server: JSON serialization skips it and list endpoints go through
// Redacted().
type Challenge struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `gorm:"type:text;index" json:"category"`
	Difficulty  Difficulty `gorm:"type:text" json:"difficulty"`

	Points int    `gorm:"default:0" json:"points"`
	Flag   string `json:"-"`

	Hints     pq.StringArray `gorm:"type:text[]" json:"-"`
	HintCosts pq.Int64Array  `gorm:"type:integer[]" json:"hintCosts"`
	Files     pq.StringArray `gorm:"type:text[]" json:"files"`

	// Solves only moves through the submission engine.
	Solves   int  `gorm:"default:0" json:"solves"`
	IsActive bool `gorm:"default:true" json:"isActive"`

	AuthorID *string `json:"authorId,omitempty"`
}

// ChallengePublic is the untrusted-reader projection: everything
// except the flag and the hint bodies.
type ChallengePublic struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
	HintCosts   []int64    `json:"hintCosts"`
	Files       []string   `json:"files"`
	Solves      int        `json:"solves"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (c *Challenge) Redacted() ChallengePublic {
	return ChallengePublic{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Difficulty:  c.Difficulty,
		Points:      c.Points,
		HintCosts:   c.HintCosts,
		Files:       c.Files,
		Solves:      c.Solves,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}
