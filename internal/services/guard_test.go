package services

import (
	"testing"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestScoreGuard_BlocksMapUpdate(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "victim", 100)

	err := db.Model(&models.Player{}).
		Where("id = ?", player.ID).
		Updates(map[string]interface{}{"id": player.ID, "total_points": 99999}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrScoreManipulation)

	// The stored value did not move and the attempt was audited.
	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Equal(t, 100, fresh.TotalPoints)
	assert.EqualValues(t, 1, auditCount(t, db, models.EventScoreManipulation))
}

func TestScoreGuard_BlocksStructSave(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "saver", 100)

	player.ChallengesSolved = 50
	err := db.Save(&player).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrScoreManipulation)

	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Zero(t, fresh.ChallengesSolved)
}

func TestScoreGuard_AllowsNonScoreColumns(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "harmless", 100)

	err := db.Model(&models.Player{}).
		Where("id = ?", player.ID).
		Updates(map[string]interface{}{"display_name": "Harmless", "bio": "just vibes"}).Error
	require.NoError(t, err)

	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Equal(t, "Harmless", fresh.DisplayName)
	assert.Equal(t, 100, fresh.TotalPoints)
}

func TestScoreGuard_AuthorizedWriterPasses(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "legit", 100)

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Set(models.ScoreWriterKey, models.ScoreWriterAdmin).
			Model(&models.Player{}).
			Where("id = ?", player.ID).
			Updates(map[string]interface{}{"total_points": 0, "challenges_solved": 0}).Error
	})
	require.NoError(t, err)

	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Zero(t, fresh.TotalPoints)
	assert.Zero(t, auditCount(t, db, models.EventScoreManipulation))
}

func TestScoreGuard_EngineColumnPathPasses(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "engine", 100)

	// UpdateColumns is the hook-skipping path the engine itself uses.
	err := db.Model(&models.Player{}).
		Where("id = ?", player.ID).
		UpdateColumns(map[string]interface{}{"total_points": gorm.Expr("total_points + ?", 50)}).Error
	require.NoError(t, err)

	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Equal(t, 150, fresh.TotalPoints)
}
