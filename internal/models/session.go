package models

import "time"

// PlayerSession captures best-effort login enrichment (IP geolocation,
// user agent). Written asynchronously; never on the scoring path.
type PlayerSession struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	PlayerID    string `gorm:"index" json:"playerId"`
	IPAddress   string `json:"ipAddress"`
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
	City        string `json:"city"`
	UserAgent   string `json:"userAgent"`
}
