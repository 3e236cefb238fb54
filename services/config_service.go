// esports-community-system/services/config_service.go
package services

import (
	"errors"
	"log"
	"strings"

	"esports-community-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ConfigService serves the signup dropdown options (locations and games).
// A single row holds the whole config; it is seeded with defaults on first
// read.
type ConfigService struct {
	DB *gorm.DB
}

func NewConfigService(db *gorm.DB) *ConfigService {
	return &ConfigService{DB: db}
}

func (s *ConfigService) load() (*models.AppConfig, error) {
	var cfg models.AppConfig
	err := s.DB.First(&cfg, "id = ?", models.AppConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = *models.DefaultAppConfig()
		if err := s.DB.Create(&cfg).Error; err != nil {
			return nil, err
		}
		log.Println("Seeded default app config")
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfig returns the current dropdown options. Public: the signup form
// needs them before any account exists.
func (s *ConfigService) GetConfig(c *fiber.Ctx) error {
	cfg, err := s.load()
	if err != nil {
		log.Printf("ERROR loading app config: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch config"})
	}

	return c.JSON(fiber.Map{
		"locationOptions": cfg.LocationOptions,
		"gameOptions":     cfg.GameOptions,
	})
}

// UpdateConfig replaces both option lists (admin). Both lists must be present
// and non-empty — partial updates are rejected so a typoed payload cannot
// silently wipe one list.
func (s *ConfigService) UpdateConfig(c *fiber.Ctx) error {
	type Req struct {
		LocationOptions *[]string `json:"locationOptions"`
		GameOptions     *[]string `json:"gameOptions"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	locations, err := validateOptions("locationOptions", req.LocationOptions)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	games, err := validateOptions("gameOptions", req.GameOptions)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	cfg, err := s.load()
	if err != nil {
		log.Printf("ERROR loading app config: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update config"})
	}

	cfg.LocationOptions = locations
	cfg.GameOptions = games
	if err := s.DB.Save(cfg).Error; err != nil {
		log.Printf("UpdateConfig: save failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update config"})
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"locationOptions": cfg.LocationOptions,
		"gameOptions":     cfg.GameOptions,
	})
}

// validateOptions rejects missing lists, empty lists and blank entries, and
// trims whitespace from the survivors.
func validateOptions(field string, values *[]string) ([]string, error) {
	if values == nil {
		return nil, errors.New(field + " is required")
	}
	cleaned := make([]string, 0, len(*values))
	for _, v := range *values {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, errors.New(field + " must not contain empty entries")
		}
		cleaned = append(cleaned, v)
	}
	if len(cleaned) == 0 {
		return nil, errors.New(field + " must not be empty")
	}
	return cleaned, nil
}
