package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/config"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB points the global connection at a fresh in-memory
// database. Shared cache keeps the database alive across the pool's
// connections; TranslateError makes unique-index violations surface as
// gorm.ErrDuplicatedKey like they do on Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger.Init("test")
	config.AppConfig = &config.Config{
		JWTSecret:           "test-secret",
		SubmitAttemptLimit:  5,
		SubmitWindowSeconds: 60,
	}

	dsn := fmt.Sprintf("file:ctftest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Player{},
		&models.Team{},
		&models.Challenge{},
		&models.Submission{},
		&models.HintUnlock{},
		&models.SubmissionRateLimit{},
		&models.CompetitionSettings{},
		&models.AuditLog{},
		&models.PlayerSession{},
	))

	database.DB = db
	database.Redis = nil
	RegisterScoreGuard()

	return db
}

func createTestPlayer(t *testing.T, db *gorm.DB, username string, points int) models.Player {
	t.Helper()
	player := models.Player{
		ID:          utils.GenerateID(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Username:    username,
		Email:       username + "@test.local",
		Password:    "x",
		Role:        models.RolePlayer,
		TotalPoints: points,
	}
	require.NoError(t, db.Create(&player).Error)
	return player
}

func createTestChallenge(t *testing.T, db *gorm.DB, title string, points int, flag string) models.Challenge {
	t.Helper()
	challenge := models.Challenge{
		ID:         utils.GenerateID(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		Title:      title,
		Category:   models.CategoryWeb,
		Difficulty: models.DifficultyEasy,
		Points:     points,
		Flag:       flag,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&challenge).Error)
	return challenge
}

func auditCount(t *testing.T, db *gorm.DB, eventType models.EventType) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("event_type = ?", eventType).Count(&count).Error)
	return count
}
