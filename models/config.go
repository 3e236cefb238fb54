package models

import (
	"time"
)

// AppConfigID is the primary key of the single app_configs row.
const AppConfigID uint = 1

// AppConfig is the singleton platform configuration: the dropdown options the
// client offers at signup and when filtering tournaments. Last writer wins,
// there is no versioning.
type AppConfig struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	LocationOptions []string  `json:"locationOptions" gorm:"serializer:json"`
	GameOptions     []string  `json:"gameOptions" gorm:"serializer:json"`
	UpdatedAt       time.Time `json:"-" gorm:"autoUpdateTime"`
}

// DefaultAppConfig seeds the config row on first read.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		ID: AppConfigID,
		LocationOptions: []string{
			"Nairobi CBD",
			"Westlands",
			"Karen",
			"Kilimani",
			"Kasarani",
			"Embakasi",
			"Ngong Road",
			"Thika Road",
		},
		GameOptions: []string{
			"EA FC 25",
			"FIFA 24",
			"Call of Duty: Warzone",
			"Tekken 8",
			"Street Fighter 6",
			"Mortal Kombat 1",
			"Valorant",
			"Fortnite",
			"PUBG Mobile",
		},
	}
}
