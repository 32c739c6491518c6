package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: promote_admin <username>")
	}
	username := os.Args[1]

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=cyberops_ctf port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	var player models.Player
	if err := db.Where("username = ?", username).First(&player).Error; err != nil {
		log.Fatalf("Player %s not found: %v", username, err)
	}

	if err := db.Model(&models.Player{}).Where("id = ?", player.ID).Update("role", models.RoleAdmin).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("Promoted %s (%s) to ADMIN.\n", player.Username, player.Email)
}
