package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/apperrors"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFlag_Correct(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "alice", 0)
	challenge := createTestChallenge(t, db, "Cookie Monster", 100, "CTF{yum}")

	result, err := SubmitFlag(SubmitInput{
		PlayerID:    player.ID,
		ChallengeID: challenge.ID,
		Flag:        "CTF{yum}",
		IPAddress:   "203.0.113.7",
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 100, result.Points)
	assert.True(t, result.FirstBlood)

	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Equal(t, 100, fresh.TotalPoints)
	assert.Equal(t, 1, fresh.ChallengesSolved)

	var ch models.Challenge
	require.NoError(t, db.First(&ch, "id = ?", challenge.ID).Error)
	assert.Equal(t, 1, ch.Solves)

	var sub models.Submission
	require.NoError(t, db.Where("player_id = ?", player.ID).First(&sub).Error)
	assert.True(t, sub.IsCorrect)
	assert.True(t, sub.IsFirstBlood)
	require.NotNil(t, sub.SolveKey)
	assert.Equal(t, models.SolveKeyFor(player.ID, challenge.ID), *sub.SolveKey)

	assert.EqualValues(t, 1, auditCount(t, db, models.EventFlagCorrect))
}

func TestSubmitFlag_TrimsWhitespace(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "alice", 0)
	challenge := createTestChallenge(t, db, "Trim", 100, "CTF{trim}")

	result, err := SubmitFlag(SubmitInput{
		PlayerID:    player.ID,
		ChallengeID: challenge.ID,
		Flag:        "  CTF{trim}\n",
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestSubmitFlag_Incorrect(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "bob", 50)
	challenge := createTestChallenge(t, db, "Rotten Cipher", 100, "CTF{right}")

	result, err := SubmitFlag(SubmitInput{
		PlayerID:    player.ID,
		ChallengeID: challenge.ID,
		Flag:        "CTF{wrong}",
	})
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Zero(t, result.Points)

	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Equal(t, 50, fresh.TotalPoints)
	assert.Zero(t, fresh.ChallengesSolved)

	// The wrong attempt is still a ledger row.
	var count int64
	db.Model(&models.Submission{}).Where("player_id = ? AND is_correct = ?", player.ID, false).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.EqualValues(t, 1, auditCount(t, db, models.EventFlagIncorrect))
}

func TestSubmitFlag_FirstBloodOnlyOnce(t *testing.T) {
	db := setupTestDB(t)
	first := createTestPlayer(t, db, "first", 0)
	second := createTestPlayer(t, db, "second", 0)
	challenge := createTestChallenge(t, db, "Packed Lunch", 250, "CTF{fb}")

	r1, err := SubmitFlag(SubmitInput{PlayerID: first.ID, ChallengeID: challenge.ID, Flag: "CTF{fb}"})
	require.NoError(t, err)
	assert.True(t, r1.FirstBlood)

	r2, err := SubmitFlag(SubmitInput{PlayerID: second.ID, ChallengeID: challenge.ID, Flag: "CTF{fb}"})
	require.NoError(t, err)
	assert.True(t, r2.Correct)
	assert.False(t, r2.FirstBlood)
}

func TestSubmitFlag_AlreadySolved(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "alice", 0)
	challenge := createTestChallenge(t, db, "Once", 100, "CTF{once}")

	_, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{once}"})
	require.NoError(t, err)

	_, err = SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{once}"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAlreadySolved))

	// Exactly one award, no double count.
	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Equal(t, 100, fresh.TotalPoints)
	assert.Equal(t, 1, fresh.ChallengesSolved)

	var ch models.Challenge
	require.NoError(t, db.First(&ch, "id = ?", challenge.ID).Error)
	assert.Equal(t, 1, ch.Solves)
}

func TestSubmitFlag_DecayAward(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "ninth", 0)
	challenge := createTestChallenge(t, db, "Decayed", 500, "CTF{late}")
	require.NoError(t, db.Model(&models.Challenge{}).Where("id = ?", challenge.ID).UpdateColumn("solves", 8).Error)

	settings := models.CompetitionSettings{
		ID:           utils.GenerateID(),
		Name:         "default",
		IsActive:     true,
		DecayEnabled: true,
		DecayMinimum: 100,
	}
	require.NoError(t, db.Create(&settings).Error)

	result, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{late}"})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 100, result.Points)
	assert.False(t, result.FirstBlood)
}

func TestSubmitFlag_RateLimit(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "spammer", 0)
	challenge := createTestChallenge(t, db, "Guarded", 100, "CTF{real}")

	for i := 0; i < 5; i++ {
		result, err := SubmitFlag(SubmitInput{
			PlayerID:    player.ID,
			ChallengeID: challenge.ID,
			Flag:        fmt.Sprintf("CTF{guess-%d}", i),
		})
		require.NoError(t, err, "attempt %d should pass the limiter", i+1)
		assert.False(t, result.Correct)
	}

	// Sixth attempt is throttled, even with the right flag, and the
	// flag is never compared.
	_, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{real}"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindRateLimited))

	appErr := apperrors.FromError(err)
	assert.Greater(t, appErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, appErr.RetryAfter, 60*time.Second)

	var fresh models.Player
	require.NoError(t, db.First(&fresh, "id = ?", player.ID).Error)
	assert.Zero(t, fresh.TotalPoints)

	// The throttled attempt still advanced the counter and left audit.
	var rl models.SubmissionRateLimit
	require.NoError(t, db.Where("player_id = ? AND challenge_id = ?", player.ID, challenge.ID).First(&rl).Error)
	assert.Equal(t, 6, rl.AttemptCount)
	assert.EqualValues(t, 1, auditCount(t, db, models.EventRateLimitHit))

	// No submission row for the throttled attempt.
	var count int64
	db.Model(&models.Submission{}).Where("player_id = ?", player.ID).Count(&count)
	assert.EqualValues(t, 5, count)
}

func TestSubmitFlag_BannedPlayer(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "banned", 0)
	challenge := createTestChallenge(t, db, "OffLimits", 100, "CTF{no}")
	require.NoError(t, db.Model(&models.Player{}).Where("id = ?", player.ID).Update("is_banned", true).Error)

	_, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{no}"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBanned))

	var count int64
	db.Model(&models.Submission{}).Where("player_id = ?", player.ID).Count(&count)
	assert.Zero(t, count)
	assert.EqualValues(t, 1, auditCount(t, db, models.EventBannedAttempt))
}

func TestSubmitFlag_CompetitionClosed(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "early", 0)
	challenge := createTestChallenge(t, db, "Patience", 100, "CTF{wait}")

	future := time.Now().Add(2 * time.Hour)
	settings := models.CompetitionSettings{
		ID:        utils.GenerateID(),
		Name:      "default",
		IsActive:  true,
		StartTime: &future,
	}
	require.NoError(t, db.Create(&settings).Error)

	_, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{wait}"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindCompetitionClosed))

	// Ended is closed too.
	past := time.Now().Add(-2 * time.Hour)
	end := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&models.CompetitionSettings{}).Where("id = ?", settings.ID).
		Updates(map[string]interface{}{"start_time": &past, "end_time": &end}).Error)

	_, err = SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{wait}"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindCompetitionClosed))
}

func TestSubmitFlag_FrozenStillAccepts(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "lateblood", 0)
	challenge := createTestChallenge(t, db, "Frozen", 100, "CTF{brr}")

	start := time.Now().Add(-2 * time.Hour)
	freeze := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	settings := models.CompetitionSettings{
		ID:         utils.GenerateID(),
		Name:       "default",
		IsActive:   true,
		StartTime:  &start,
		FreezeTime: &freeze,
		EndTime:    &end,
	}
	require.NoError(t, db.Create(&settings).Error)

	result, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{brr}"})
	require.NoError(t, err)
	assert.True(t, result.Correct)
}

func TestSubmitFlag_Validation(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "sloppy", 0)
	challenge := createTestChallenge(t, db, "Strict", 100, "CTF{x}")

	_, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "   "})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: "not-a-uuid", Flag: "CTF{x}"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: utils.GenerateID(), Flag: "CTF{x}"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubmitFlag_InactiveChallengeHidden(t *testing.T) {
	db := setupTestDB(t)
	player := createTestPlayer(t, db, "probe", 0)
	challenge := createTestChallenge(t, db, "Retired", 100, "CTF{gone}")
	require.NoError(t, db.Model(&models.Challenge{}).Where("id = ?", challenge.ID).Update("is_active", false).Error)

	_, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{gone}"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSubmitFlag_TeamModeAggregates(t *testing.T) {
	db := setupTestDB(t)

	team := models.Team{ID: utils.GenerateID(), Name: "ops", InviteCode: "ABCD1234"}
	require.NoError(t, db.Create(&team).Error)

	player := createTestPlayer(t, db, "teammate", 0)
	require.NoError(t, db.Model(&models.Player{}).Where("id = ?", player.ID).Update("team_id", team.ID).Error)

	challenge := createTestChallenge(t, db, "TeamWork", 200, "CTF{together}")

	settings := models.CompetitionSettings{
		ID:       utils.GenerateID(),
		Name:     "default",
		IsActive: true,
		TeamMode: true,
	}
	require.NoError(t, db.Create(&settings).Error)

	result, err := SubmitFlag(SubmitInput{PlayerID: player.ID, ChallengeID: challenge.ID, Flag: "CTF{together}"})
	require.NoError(t, err)
	assert.Equal(t, 200, result.Points)

	var freshTeam models.Team
	require.NoError(t, db.First(&freshTeam, "id = ?", team.ID).Error)
	assert.Equal(t, 200, freshTeam.TotalPoints)
}
