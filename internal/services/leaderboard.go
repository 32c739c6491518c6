package services

import (
	"sort"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
)

type LeaderboardEntry struct {
	Rank             int        `json:"rank"`
	PlayerID         string     `json:"playerId"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"displayName"`
	Country          string     `json:"country"`
	TotalPoints      int        `json:"totalPoints"`
	ChallengesSolved int        `json:"challengesSolved"`
	LastSolveAt      *time.Time `json:"lastSolveAt"`
}

type TeamLeaderboardEntry struct {
	Rank        int    `json:"rank"`
	TeamID      string `json:"teamId"`
	Name        string `json:"name"`
	TotalPoints int    `json:"totalPoints"`
}

const (
	lbCacheKey     = "leaderboard:players"
	lbSnapshotKey  = "leaderboard:players:snapshot"
	lbTeamCacheKey = "leaderboard:teams"
	lbTeamSnapKey  = "leaderboard:teams:snapshot"
	lbCacheTTL     = 10 * time.Second
)

// InvalidateLeaderboardCache drops the short-lived cache after a
// scoring mutation commits. The freeze snapshot is left alone.
func InvalidateLeaderboardCache() {
	if err := database.CacheInvalidate(lbCacheKey); err != nil {
		logger.Debug().Err(err).Msg("Leaderboard cache invalidation skipped")
	}
	_ = database.CacheInvalidate(lbTeamCacheKey)
}

// GetLeaderboard returns player standings. While the competition is
// frozen, untrusted readers get the last snapshot computed before the
// freeze; scores keep changing underneath and admins keep seeing the
// live data.
func GetLeaderboard(asAdmin bool) ([]LeaderboardEntry, error) {
	settings, err := LoadSettings(database.DB)
	if err != nil {
		return nil, err
	}
	frozen := CompetitionStateAt(time.Now(), settings) == StateFrozen

	if frozen && !asAdmin {
		var snapshot []LeaderboardEntry
		if err := database.CacheGet(lbSnapshotKey, &snapshot); err == nil {
			return snapshot, nil
		}
		// No snapshot survived (cold cache): rebuild standings as of
		// the freeze moment from the submission ledger.
		return computeFrozenLeaderboard(*settings.FreezeTime)
	}

	if !asAdmin {
		var cached []LeaderboardEntry
		if err := database.CacheGet(lbCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	entries, err := computeLiveLeaderboard()
	if err != nil {
		return nil, err
	}

	if !asAdmin {
		if err := database.CacheSet(lbCacheKey, entries, lbCacheTTL); err != nil {
			logger.Debug().Err(err).Msg("Leaderboard cache write skipped")
		}
	}
	if !frozen {
		// Keep the snapshot current right up until the freeze lands.
		_ = database.CacheSet(lbSnapshotKey, entries, 0)
	}
	return entries, nil
}

func computeLiveLeaderboard() ([]LeaderboardEntry, error) {
	var players []models.Player
	if err := database.DB.
		Where("is_banned = ?", false).
		Order("total_points desc").
		Limit(200).
		Find(&players).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entry := LeaderboardEntry{
			PlayerID:         p.ID,
			Username:         p.Username,
			DisplayName:      p.DisplayName,
			Country:          p.Country,
			TotalPoints:      p.TotalPoints,
			ChallengesSolved: p.ChallengesSolved,
		}
		var last models.Submission
		if err := database.DB.
			Where("player_id = ? AND is_correct = ?", p.ID, true).
			Order("created_at desc").
			First(&last).Error; err == nil {
			t := last.CreatedAt
			entry.LastSolveAt = &t
		}
		entries = append(entries, entry)
	}

	sortAndRank(entries)
	return entries, nil
}

// computeFrozenLeaderboard rebuilds standings as of the cutoff from
// the append-only ledgers: correct submissions minus hint spend up to
// that moment.
func computeFrozenLeaderboard(cutoff time.Time) ([]LeaderboardEntry, error) {
	var submissions []models.Submission
	if err := database.DB.
		Where("is_correct = ? AND created_at <= ?", true, cutoff).
		Order("created_at asc").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	byPlayer := make(map[string]*LeaderboardEntry)
	for _, sub := range submissions {
		entry := byPlayer[sub.PlayerID]
		if entry == nil {
			entry = &LeaderboardEntry{PlayerID: sub.PlayerID}
			byPlayer[sub.PlayerID] = entry
		}
		entry.TotalPoints += sub.PointsAwarded
		entry.ChallengesSolved++
		t := sub.CreatedAt
		entry.LastSolveAt = &t
	}

	var unlocks []models.HintUnlock
	if err := database.DB.Where("created_at <= ?", cutoff).Find(&unlocks).Error; err != nil {
		return nil, err
	}
	for _, u := range unlocks {
		if entry := byPlayer[u.PlayerID]; entry != nil {
			entry.TotalPoints -= u.PointsSpent
		}
	}

	ids := make([]string, 0, len(byPlayer))
	for id := range byPlayer {
		ids = append(ids, id)
	}
	var players []models.Player
	if err := database.DB.Where("id IN ? AND is_banned = ?", ids, false).Find(&players).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		entry := byPlayer[p.ID]
		entry.Username = p.Username
		entry.DisplayName = p.DisplayName
		entry.Country = p.Country
		entries = append(entries, *entry)
	}

	sortAndRank(entries)
	return entries, nil
}

// GetTeamLeaderboard mirrors GetLeaderboard for team standings.
func GetTeamLeaderboard(asAdmin bool) ([]TeamLeaderboardEntry, error) {
	settings, err := LoadSettings(database.DB)
	if err != nil {
		return nil, err
	}
	frozen := CompetitionStateAt(time.Now(), settings) == StateFrozen

	if frozen && !asAdmin {
		var snapshot []TeamLeaderboardEntry
		if err := database.CacheGet(lbTeamSnapKey, &snapshot); err == nil {
			return snapshot, nil
		}
	}

	var teams []models.Team
	if err := database.DB.Order("total_points desc").Limit(100).Find(&teams).Error; err != nil {
		return nil, err
	}
	entries := make([]TeamLeaderboardEntry, 0, len(teams))
	for i, t := range teams {
		entries = append(entries, TeamLeaderboardEntry{
			Rank:        i + 1,
			TeamID:      t.ID,
			Name:        t.Name,
			TotalPoints: t.TotalPoints,
		})
	}

	if !frozen {
		_ = database.CacheSet(lbTeamSnapKey, entries, 0)
	}
	return entries, nil
}

func sortAndRank(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		// Earlier last solve wins the tie.
		li, lj := entries[i].LastSolveAt, entries[j].LastSolveAt
		if li != nil && lj != nil && !li.Equal(*lj) {
			return li.Before(*lj)
		}
		return entries[i].Username < entries[j].Username
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
