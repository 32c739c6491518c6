package main

import (
	"log"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/config"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("Running migrations...")
	if err := database.DB.AutoMigrate(
		&models.Player{},
		&models.Team{},
		&models.Challenge{},
		&models.Submission{},
		&models.HintUnlock{},
		&models.SubmissionRateLimit{},
		&models.CompetitionSettings{},
		&models.AuditLog{},
		&models.PlayerSession{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	admin, err := seeds.GetOrCreateSystemAdmin()
	if err != nil {
		log.Fatalf("Failed to ensure system admin: %v", err)
	}

	seeds.SeedChallenges(admin)
	seeds.SeedCompetitionSettings()

	log.Println("Seeding complete")
}
