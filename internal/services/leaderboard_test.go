package services

import (
	"testing"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func recordSolve(t *testing.T, db *gorm.DB, playerID, challengeID string, points int, at time.Time) {
	t.Helper()
	key := models.SolveKeyFor(playerID, challengeID)
	sub := models.Submission{
		ID:            utils.GenerateID(),
		CreatedAt:     at,
		PlayerID:      playerID,
		ChallengeID:   challengeID,
		SubmittedFlag: "CTF{recorded}",
		IsCorrect:     true,
		PointsAwarded: points,
		SolveKey:      &key,
	}
	require.NoError(t, db.Create(&sub).Error)
}

func TestGetLeaderboard_LiveRanking(t *testing.T) {
	db := setupTestDB(t)
	early := createTestPlayer(t, db, "early", 300)
	late := createTestPlayer(t, db, "late", 300)
	third := createTestPlayer(t, db, "third", 100)

	chA := createTestChallenge(t, db, "A", 300, "CTF{a}")
	now := time.Now()
	recordSolve(t, db, early.ID, chA.ID, 300, now.Add(-2*time.Hour))
	recordSolve(t, db, late.ID, chA.ID, 300, now.Add(-time.Hour))
	recordSolve(t, db, third.ID, chA.ID, 100, now.Add(-30*time.Minute))

	entries, err := GetLeaderboard(false)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Equal points: the earlier last solve ranks higher.
	assert.Equal(t, "early", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "late", entries[1].Username)
	assert.Equal(t, "third", entries[2].Username)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestGetLeaderboard_ExcludesBanned(t *testing.T) {
	db := setupTestDB(t)
	createTestPlayer(t, db, "clean", 100)
	banned := createTestPlayer(t, db, "dirty", 900)
	require.NoError(t, db.Model(&models.Player{}).Where("id = ?", banned.ID).Update("is_banned", true).Error)

	entries, err := GetLeaderboard(false)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "clean", entries[0].Username)
}

func TestGetLeaderboard_FrozenHidesLatePlacements(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "mover", 390)

	chA := createTestChallenge(t, db, "A", 100, "CTF{a}")
	chB := createTestChallenge(t, db, "B", 300, "CTF{b}")

	now := time.Now()
	start := now.Add(-3 * time.Hour)
	freeze := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	settings := models.CompetitionSettings{
		ID:         utils.GenerateID(),
		Name:       "default",
		IsActive:   true,
		StartTime:  &start,
		FreezeTime: &freeze,
		EndTime:    &end,
	}
	require.NoError(t, db.Create(&settings).Error)

	// One solve and a hint purchase before the freeze, one solve after.
	recordSolve(t, db, player.ID, chA.ID, 100, now.Add(-2*time.Hour))
	unlock := models.HintUnlock{
		ID:          utils.GenerateID(),
		CreatedAt:   now.Add(-90 * time.Minute),
		PlayerID:    player.ID,
		ChallengeID: chA.ID,
		HintIndex:   0,
		PointsSpent: 10,
	}
	require.NoError(t, db.Create(&unlock).Error)
	recordSolve(t, db, player.ID, chB.ID, 300, now.Add(-30*time.Minute))

	// Untrusted readers see the pre-freeze ledger state.
	frozen, err := GetLeaderboard(false)
	require.NoError(t, err)
	require.Len(t, frozen, 1)
	assert.Equal(t, 90, frozen[0].TotalPoints)
	assert.Equal(t, 1, frozen[0].ChallengesSolved)

	// Admins keep seeing the live standings.
	live, err := GetLeaderboard(true)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, 390, live[0].TotalPoints)
}

func TestGetTeamLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Team{ID: utils.GenerateID(), Name: "red", InviteCode: "RED00001", TotalPoints: 500}).Error)
	require.NoError(t, db.Create(&models.Team{ID: utils.GenerateID(), Name: "blue", InviteCode: "BLUE0001", TotalPoints: 700}).Error)

	entries, err := GetTeamLeaderboard(false)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "blue", entries[0].Name)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "red", entries[1].Name)
}
