package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/services"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Country  string `json:"country"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /auth/register
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	username := strings.ToLower(strings.TrimSpace(input.Username))

	var existing models.Player
	if err := database.DB.Where("email = ? OR username = ?", input.Email, username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	player := models.Player{
		ID:        utils.GenerateID(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Username:  username,
		Email:     input.Email,
		Password:  string(hashed),
		Country:   input.Country,
		Role:      models.RolePlayer,
	}
	if err := database.DB.Create(&player).Error; err != nil {
		logger.Error().Err(err).Msg("Failed to create player")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	token, err := utils.GenerateToken(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "player": player})
}

// Login handles POST /auth/login
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var player models.Player
	if err := database.DB.Where("email = ?", input.Email).First(&player).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(player.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.GenerateToken(player.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	// Best-effort session enrichment; never blocks the login response.
	services.TrackSession(player.ID, c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusOK, gin.H{"token": token, "player": player})
}

// Logout handles POST /auth/logout by blacklisting the token until it
// would have expired anyway.
func Logout(c *gin.Context) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		return
	}

	claims := claimsVal.(*utils.Claims)
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := database.BlacklistToken(claims.GetJTI(), ttl); err != nil {
			logger.Warn().Err(err).Msg("Failed to blacklist token")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetProfile handles GET /players/me
func GetProfile(c *gin.Context) {
	playerID := c.GetString("playerId")

	var player models.Player
	if err := database.DB.First(&player, "id = ?", playerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"player": player})
}

// UpdateProfile handles PUT /players/me. Score columns are not in the
// whitelist; anything that sneaks one through gets stopped by the
// store-level guard anyway.
func UpdateProfile(c *gin.Context) {
	playerID := c.GetString("playerId")

	var input struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
		Country     string `json:"country"`
		AvatarURL   string `json:"avatarUrl"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"display_name": input.DisplayName,
		"bio":          input.Bio,
		"country":      input.Country,
		"avatar_url":   input.AvatarURL,
		"updated_at":   time.Now(),
	}
	if err := database.DB.Model(&models.Player{}).Where("id = ?", playerID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
