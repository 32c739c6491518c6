package seeds

import (
	"log"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// GetOrCreateSystemAdmin returns the platform admin account, creating
// it on first run. The default password is for local development only.
func GetOrCreateSystemAdmin() (models.Player, error) {
	log.Println("Checking system admin...")

	username := "cyberops"
	email := "admin@cyberops.local"

	var admin models.Player
	err := database.DB.Where("username = ?", username).First(&admin).Error
	if err == nil {
		log.Printf("   System admin found: %s", admin.Username)
		return admin, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("CyberOpsAdmin2026!"), bcrypt.DefaultCost)
	if err != nil {
		return models.Player{}, err
	}

	admin = models.Player{
		ID:          utils.GenerateID(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Username:    username,
		Email:       email,
		Password:    string(hash),
		DisplayName: "CyberOps Crew",
		Role:        models.RoleAdmin,
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		return models.Player{}, err
	}

	log.Printf("   System admin created: %s", admin.Username)
	return admin, nil
}
