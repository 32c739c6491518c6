package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mohidqx/cyberops-capture-the-flag/internal/config"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/logger"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
)

var geoClient = &http.Client{Timeout: 5 * time.Second}

type geoResponse struct {
	Status      string `json:"status"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
}

// TrackSession records a login session with best-effort IP
// geolocation. Runs in its own goroutine: the lookup and the insert
// are both allowed to fail without anyone noticing but the log.
func TrackSession(playerID, ip, userAgent string) {
	go func() {
		session := models.PlayerSession{
			ID:        utils.GenerateID(),
			CreatedAt: time.Now(),
			PlayerID:  playerID,
			IPAddress: ip,
			UserAgent: userAgent,
		}

		if !isPrivateIP(ip) && config.AppConfig.GeoAPIURL != "" {
			if geo, err := lookupGeo(ip); err == nil {
				session.CountryCode = geo.CountryCode
				session.CountryName = geo.Country
				session.City = geo.City
			} else {
				logger.Debug().Err(err).Str("ip", ip).Msg("Geolocation lookup failed")
			}
		}

		if err := database.DB.Create(&session).Error; err != nil {
			logger.Error().Err(err).Str("player_id", playerID).Msg("Failed to record session")
		}
	}()
}

func lookupGeo(ip string) (*geoResponse, error) {
	url := fmt.Sprintf("%s/%s?fields=status,country,countryCode,city", config.AppConfig.GeoAPIURL, ip)
	resp, err := geoClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var geo geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return nil, err
	}
	if geo.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup returned status %q", geo.Status)
	}
	return &geo, nil
}

func isPrivateIP(ip string) bool {
	return ip == "" || ip == "unknown" || ip == "127.0.0.1" || ip == "::1" ||
		strings.HasPrefix(ip, "10.") ||
		strings.HasPrefix(ip, "192.168.") ||
		strings.HasPrefix(ip, "172.")
}
