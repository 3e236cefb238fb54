// esports-community-system/services/tournament_service.go
package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"esports-community-system/models"
	"esports-community-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxRegistrationAttempts caps how often a user may register for the same
// tournament, counted across unregister/re-register cycles.
const MaxRegistrationAttempts = 3

// TournamentService owns tournament browsing, the registration workflow and
// the admin tournament CRUD.
type TournamentService struct {
	DB       *gorm.DB
	Accounts *AccountService
}

func NewTournamentService(db *gorm.DB, accounts *AccountService) *TournamentService {
	return &TournamentService{DB: db, Accounts: accounts}
}

// GetAllTournaments lists every tournament and scrim, newest first.
func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	if err := s.DB.Order("created_at DESC").Find(&tournaments).Error; err != nil {
		log.Printf("ERROR fetching tournaments: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tournaments"})
	}
	return c.JSON(fiber.Map{"tournaments": tournaments})
}

// GetParticipants returns the roster for one tournament.
func (s *TournamentService) GetParticipants(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var participants []models.TournamentParticipant
	err := s.DB.Where("tournament_id = ?", tournamentID).
		Order("registered_at ASC").
		Find(&participants).Error
	if err != nil {
		log.Printf("ERROR fetching participants for %s: %v", tournamentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch participants"})
	}

	return c.JSON(fiber.Map{
		"participants": participants,
		"count":        len(participants),
	})
}

// Register enters the caller into a tournament. The participant insert and the
// history bump are applied in one transaction; the unique (tournament, user)
// index backstops concurrent duplicate registrations.
func (s *TournamentService) Register(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	type Req struct {
		TournamentID    string `json:"tournamentId"`
		TournamentTitle string `json:"tournamentTitle"`
		Gamertag        string `json:"gamertag"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if req.TournamentID == "" || req.TournamentTitle == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Tournament ID and title are required"})
	}

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User profile not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to register for tournament"})
	}

	var existing models.TournamentParticipant
	err := s.DB.Where("tournament_id = ? AND user_id = ?", req.TournamentID, userID).
		First(&existing).Error
	if err == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Already registered for this tournament"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to register for tournament"})
	}

	var history models.RegistrationHistory
	err = s.DB.Where("user_id = ? AND tournament_id = ?", userID, req.TournamentID).
		First(&history).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to register for tournament"})
	}
	if err == nil && history.Count >= MaxRegistrationAttempts {
		return c.Status(400).JSON(fiber.Map{
			"error": "Registration limit reached for this tournament (maximum 3 attempts)",
		})
	}

	participant := models.TournamentParticipant{
		ID:              uuid.NewString(),
		TournamentID:    req.TournamentID,
		UserID:          userID,
		TournamentTitle: req.TournamentTitle,
		UserName:        profile.Name,
		UserEmail:       profile.Email,
		Location:        profile.Location,
		FavoriteGame:    profile.FavoriteGame,
		Gamertag:        req.Gamertag,
		RegisteredAt:    time.Now().UTC(),
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		if history.ID == "" {
			history = models.RegistrationHistory{
				ID:           uuid.NewString(),
				UserID:       userID,
				TournamentID: req.TournamentID,
				Count:        1,
				IsRegistered: true,
			}
			return tx.Create(&history).Error
		}
		return tx.Model(&history).Updates(map[string]interface{}{
			"count":         history.Count + 1,
			"is_registered": true,
		}).Error
	})
	if txErr != nil {
		log.Printf("Register: transaction failed for user %s tournament %s: %v", userID, req.TournamentID, txErr)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to register for tournament"})
	}

	registrations, err := s.Accounts.RegisteredTournaments(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to register for tournament"})
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"message":               "Successfully registered for tournament",
		"registeredTournaments": registrations,
	})
}

// Unregister reverses a registration. The history count is deliberately left
// alone — only the isRegistered flag flips.
func (s *TournamentService) Unregister(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	type Req struct {
		TournamentID string `json:"tournamentId"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.TournamentID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Tournament ID is required"})
	}

	var participant models.TournamentParticipant
	err := s.DB.Where("tournament_id = ? AND user_id = ?", req.TournamentID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(400).JSON(fiber.Map{"error": "Not registered for this tournament"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unregister from tournament"})
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&participant).Error; err != nil {
			return err
		}
		return tx.Model(&models.RegistrationHistory{}).
			Where("user_id = ? AND tournament_id = ?", userID, req.TournamentID).
			Update("is_registered", false).Error
	})
	if txErr != nil {
		log.Printf("Unregister: transaction failed for user %s tournament %s: %v", userID, req.TournamentID, txErr)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unregister from tournament"})
	}

	registrations, err := s.Accounts.RegisteredTournaments(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to unregister from tournament"})
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"message":               "Successfully unregistered from tournament",
		"registeredTournaments": registrations,
	})
}

// CreateTournament creates a tournament or scrim. The id and timestamps are
// always server-generated.
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var tournament models.Tournament
	if err := c.BodyParser(&tournament); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if tournament.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}
	if tournament.Type == "" {
		tournament.Type = "tournament"
	}
	if tournament.Type != "tournament" && tournament.Type != "scrim" {
		return c.Status(400).JSON(fiber.Map{"error": `Type must be either "tournament" or "scrim"`})
	}

	now := time.Now().UTC()
	tournament.ID = utils.GenerateID()
	tournament.CreatedAt = now
	tournament.UpdatedAt = now

	if err := s.DB.Create(&tournament).Error; err != nil {
		log.Printf("CreateTournament: insert failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create tournament"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "tournament": tournament})
}

// UpdateTournament merges the caller's fields over the stored record. The id
// and createdAt are immutable: whatever the client sends, the stored values
// are restored before saving.
func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update tournament"})
	}

	id, createdAt := tournament.ID, tournament.CreatedAt
	if err := json.Unmarshal(c.Body(), &tournament); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	tournament.ID = id
	tournament.CreatedAt = createdAt
	tournament.UpdatedAt = time.Now().UTC()

	if tournament.Type != "tournament" && tournament.Type != "scrim" {
		return c.Status(400).JSON(fiber.Map{"error": `Type must be either "tournament" or "scrim"`})
	}

	if err := s.DB.Save(&tournament).Error; err != nil {
		log.Printf("UpdateTournament: save failed for %s: %v", tournamentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update tournament"})
	}

	return c.JSON(fiber.Map{"success": true, "tournament": tournament})
}

// DeleteTournament removes a tournament and its whole roster. Registration
// history rows survive on purpose: the attempt cap outlives the tournament.
func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", tournamentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete tournament"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tournament_id = ?", tournamentID).
			Delete(&models.TournamentParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&tournament).Error
	})
	if err != nil {
		log.Printf("DeleteTournament: cascade failed for %s: %v", tournamentID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete tournament"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// RemoveParticipant forcibly unregisters a user from a tournament (admin).
func (s *TournamentService) RemoveParticipant(c *fiber.Ctx) error {
	tournamentID := c.Params("id")
	userID := c.Params("userId")

	var participant models.TournamentParticipant
	err := s.DB.Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Participant not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to remove participant"})
	}

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&participant).Error; err != nil {
			return err
		}
		return tx.Model(&models.RegistrationHistory{}).
			Where("user_id = ? AND tournament_id = ?", userID, tournamentID).
			Update("is_registered", false).Error
	})
	if txErr != nil {
		log.Printf("RemoveParticipant: failed for %s/%s: %v", tournamentID, userID, txErr)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to remove participant"})
	}

	return c.JSON(fiber.Map{"success": true})
}
