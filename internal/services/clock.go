package services

import (
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"gorm.io/gorm"
)

type CompetitionState string

const (
	// StateDisabled is practice mode: no configured competition, every
	// challenge stays open.
	StateDisabled   CompetitionState = "DISABLED"
	StateNotStarted CompetitionState = "NOT_STARTED"
	StateActive     CompetitionState = "ACTIVE"
	// StateFrozen still accepts submissions; it only stops the public
	// leaderboard from reflecting new placements.
	StateFrozen CompetitionState = "FROZEN"
	StateEnded  CompetitionState = "ENDED"
)

// CompetitionStateAt derives the platform's temporal state from a
// settings snapshot. Pure function of its inputs.
func CompetitionStateAt(now time.Time, s *models.CompetitionSettings) CompetitionState {
	if s == nil || !s.IsActive {
		return StateDisabled
	}
	if s.StartTime != nil && now.Before(*s.StartTime) {
		return StateNotStarted
	}
	if s.EndTime != nil && !now.Before(*s.EndTime) {
		return StateEnded
	}
	if s.FreezeTime != nil && !now.Before(*s.FreezeTime) {
		return StateFrozen
	}
	return StateActive
}

// AcceptsSubmissions reports whether flag submissions and hint
// purchases are open in the given state.
func AcceptsSubmissions(state CompetitionState) bool {
	switch state {
	case StateDisabled, StateActive, StateFrozen:
		return true
	}
	return false
}

// LoadSettings fetches the singleton settings row. A fresh install
// without one behaves as practice mode: the zero-value settings are
// inactive.
func LoadSettings(db *gorm.DB) (*models.CompetitionSettings, error) {
	var settings models.CompetitionSettings
	err := db.Where("name = ?", "default").First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return &models.CompetitionSettings{Name: "default"}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// CurrentState is a convenience wrapper used by handlers.
func CurrentState() (CompetitionState, *models.CompetitionSettings, error) {
	settings, err := LoadSettings(database.DB)
	if err != nil {
		return StateDisabled, nil, err
	}
	return CompetitionStateAt(time.Now(), settings), settings, nil
}
