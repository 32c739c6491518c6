package services

import (
	"testing"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndIncrement_FreshWindow(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "fresh", 0)
	challenge := createTestChallenge(t, db, "Window", 100, "CTF{w}")

	decision, err := CheckAndIncrement(db, player.ID, challenge.ID, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	var rl models.SubmissionRateLimit
	require.NoError(t, db.Where("player_id = ?", player.ID).First(&rl).Error)
	assert.Equal(t, 1, rl.AttemptCount)
}

func TestCheckAndIncrement_ThrottlesOverLimit(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "heavy", 0)
	challenge := createTestChallenge(t, db, "Window", 100, "CTF{w}")

	for i := 0; i < 5; i++ {
		decision, err := CheckAndIncrement(db, player.ID, challenge.ID, 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "attempt %d", i+1)
	}

	decision, err := CheckAndIncrement(db, player.ID, challenge.ID, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, decision.RetryAfter, time.Minute)

	// Throttled attempts keep counting but never move the window.
	var rl models.SubmissionRateLimit
	require.NoError(t, db.Where("player_id = ?", player.ID).First(&rl).Error)
	first := rl.WindowStart

	decision2, err := CheckAndIncrement(db, player.ID, challenge.ID, 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, decision2.Allowed)
	assert.LessOrEqual(t, decision2.RetryAfter, decision.RetryAfter)

	require.NoError(t, db.Where("player_id = ?", player.ID).First(&rl).Error)
	assert.Equal(t, 7, rl.AttemptCount)
	assert.True(t, rl.WindowStart.Equal(first))
}

func TestCheckAndIncrement_ExpiredWindowResets(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "patient", 0)
	challenge := createTestChallenge(t, db, "Window", 100, "CTF{w}")

	for i := 0; i < 6; i++ {
		_, err := CheckAndIncrement(db, player.ID, challenge.ID, 5, time.Minute)
		require.NoError(t, err)
	}

	// Age the window out.
	stale := time.Now().Add(-2 * time.Minute)
	require.NoError(t, db.Model(&models.SubmissionRateLimit{}).
		Where("player_id = ? AND challenge_id = ?", player.ID, challenge.ID).
		Update("window_start", stale).Error)

	decision, err := CheckAndIncrement(db, player.ID, challenge.ID, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	var rl models.SubmissionRateLimit
	require.NoError(t, db.Where("player_id = ?", player.ID).First(&rl).Error)
	assert.Equal(t, 1, rl.AttemptCount)
	assert.True(t, rl.WindowStart.After(stale))
}

func TestCheckAndIncrement_PerChallengeIsolation(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "multi", 0)
	a := createTestChallenge(t, db, "A", 100, "CTF{a}")
	b := createTestChallenge(t, db, "B", 100, "CTF{b}")

	for i := 0; i < 6; i++ {
		_, err := CheckAndIncrement(db, player.ID, a.ID, 5, time.Minute)
		require.NoError(t, err)
	}

	// Exhausting one challenge's window leaves the other untouched.
	decision, err := CheckAndIncrement(db, player.ID, b.ID, 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}
