// esports-community-system/services/account_service.go
package services

import (
	"errors"
	"log"
	"time"

	"esports-community-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AccountService owns signup, profile reads and the admin user management
// endpoints. Credentials live in the auth service; everything else is local.
type AccountService struct {
	DB       *gorm.DB
	Provider IdentityProvider
}

func NewAccountService(db *gorm.DB, provider IdentityProvider) *AccountService {
	return &AccountService{DB: db, Provider: provider}
}

// Signup creates the auth service account first, then the domain profile. If
// the profile insert fails the account is deleted again so the email can
// retry — without this the user would exist but every /profile call would 404.
func (s *AccountService) Signup(c *fiber.Ctx) error {
	type Req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		Name         string `json:"name"`
		Location     string `json:"location"`
		FavoriteGame string `json:"favoriteGame"`
		Birthday     string `json:"birthday"`
	}

	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Email, password, and name are required"})
	}

	authUser, err := s.Provider.CreateUser(req.Email, req.Password, UserMetadata{
		Name:         req.Name,
		Location:     req.Location,
		FavoriteGame: req.FavoriteGame,
		Birthday:     req.Birthday,
	})
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return c.Status(400).JSON(fiber.Map{"error": pe.Message})
		}
		log.Printf("Signup: auth service unreachable: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create account"})
	}

	profile := models.UserProfile{
		ID:           authUser.ID,
		Email:        req.Email,
		Name:         req.Name,
		Location:     req.Location,
		FavoriteGame: req.FavoriteGame,
		Role:         "user",
		JoinedAt:     time.Now().UTC(),
	}

	if err := s.DB.Create(&profile).Error; err != nil {
		log.Printf("Signup: profile insert failed for %s, rolling back account: %v", authUser.ID, err)
		if derr := s.Provider.DeleteUser(authUser.ID); derr != nil {
			log.Printf("Signup: rollback of account %s failed, account is orphaned: %v", authUser.ID, derr)
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create account"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":    profile.ID,
			"email": profile.Email,
			"name":  profile.Name,
		},
	})
}

// GetProfile returns the caller's assembled profile. When the auth service
// marks the account admin but the stored role is stale, the row is brought in
// sync here — this is the only place the role is reconciled.
func (s *AccountService) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	metaAdmin, _ := c.Locals("is_admin").(bool)

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	if metaAdmin && profile.Role != "admin" {
		if err := s.DB.Model(&profile).Update("role", "admin").Error; err != nil {
			log.Printf("GetProfile: role sync failed for %s: %v", userID, err)
		} else {
			profile.Role = "admin"
		}
	}

	view, err := s.profileView(&profile)
	if err != nil {
		log.Printf("GetProfile: assembling view for %s failed: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": view})
}

// GetMyTournaments lists the caller's current registrations, oldest first.
func (s *AccountService) GetMyTournaments(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tournaments"})
	}

	registrations, err := s.RegisteredTournaments(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tournaments"})
	}

	return c.JSON(fiber.Map{"tournaments": registrations})
}

// ListUsers returns every profile with its registrations, history and stats —
// the admin user table and its CSV export consume this directly.
func (s *AccountService) ListUsers(c *fiber.Ctx) error {
	var profiles []models.UserProfile
	if err := s.DB.Order("joined_at ASC").Find(&profiles).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	var participants []models.TournamentParticipant
	if err := s.DB.Order("registered_at ASC").Find(&participants).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	var histories []models.RegistrationHistory
	if err := s.DB.Find(&histories).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	var stats []models.PlayerGameStat
	if err := s.DB.Find(&stats).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	regsByUser := make(map[string][]models.RegisteredTournament)
	for _, p := range participants {
		regsByUser[p.UserID] = append(regsByUser[p.UserID], models.RegisteredTournament{
			TournamentID:    p.TournamentID,
			TournamentTitle: p.TournamentTitle,
			Gamertag:        p.Gamertag,
			RegisteredAt:    p.RegisteredAt,
		})
	}
	historyByUser := make(map[string]map[string]models.RegistrationStatus)
	for _, h := range histories {
		if historyByUser[h.UserID] == nil {
			historyByUser[h.UserID] = make(map[string]models.RegistrationStatus)
		}
		historyByUser[h.UserID][h.TournamentID] = models.RegistrationStatus{
			Count:        h.Count,
			IsRegistered: h.IsRegistered,
		}
	}
	statsByUser := make(map[string]map[string]models.GameStat)
	for _, st := range stats {
		if statsByUser[st.UserID] == nil {
			statsByUser[st.UserID] = make(map[string]models.GameStat)
		}
		statsByUser[st.UserID][st.Game] = models.GameStat{
			Wins:         st.Wins,
			Points:       st.Points,
			Rank:         st.Rank,
			PreviousRank: st.PreviousRank,
			UpdatedAt:    st.UpdatedAt,
		}
	}

	views := make([]models.ProfileView, len(profiles))
	for i, p := range profiles {
		views[i] = assembleProfileView(&p, regsByUser[p.ID], historyByUser[p.ID], statsByUser[p.ID])
	}

	return c.JSON(fiber.Map{"users": views})
}

// UpdateUserRole sets a user's role to "user" or "admin"; nothing else is a
// valid role.
func (s *AccountService) UpdateUserRole(c *fiber.Ctx) error {
	targetID := c.Params("id")

	type Req struct {
		Role string `json:"role"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}

	if req.Role != "user" && req.Role != "admin" {
		return c.Status(400).JSON(fiber.Map{"error": `Role must be either "user" or "admin"`})
	}

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update role"})
	}

	if err := s.DB.Model(&profile).Update("role", req.Role).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update role"})
	}
	profile.Role = req.Role

	return c.JSON(fiber.Map{"success": true, "user": profile})
}

// DeleteUser removes the auth service account, then every trace of the user:
// participant rows across all tournaments, registration history, game stats
// and finally the profile itself.
func (s *AccountService) DeleteUser(c *fiber.Ctx) error {
	targetID := c.Params("id")

	var profile models.UserProfile
	if err := s.DB.First(&profile, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	if err := s.Provider.DeleteUser(targetID); err != nil {
		log.Printf("DeleteUser: auth service delete failed for %s: %v", targetID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete auth account"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", targetID).Delete(&models.TournamentParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.RegistrationHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.PlayerGameStat{}).Error; err != nil {
			return err
		}
		return tx.Delete(&profile).Error
	})
	if err != nil {
		log.Printf("DeleteUser: cascade failed for %s: %v", targetID, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete user"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// RegisteredTournaments builds a user's registration list from the
// participant table.
func (s *AccountService) RegisteredTournaments(userID string) ([]models.RegisteredTournament, error) {
	var participants []models.TournamentParticipant
	err := s.DB.Where("user_id = ?", userID).Order("registered_at ASC").Find(&participants).Error
	if err != nil {
		return nil, err
	}

	registrations := make([]models.RegisteredTournament, len(participants))
	for i, p := range participants {
		registrations[i] = models.RegisteredTournament{
			TournamentID:    p.TournamentID,
			TournamentTitle: p.TournamentTitle,
			Gamertag:        p.Gamertag,
			RegisteredAt:    p.RegisteredAt,
		}
	}
	return registrations, nil
}

func (s *AccountService) profileView(profile *models.UserProfile) (*models.ProfileView, error) {
	registrations, err := s.RegisteredTournaments(profile.ID)
	if err != nil {
		return nil, err
	}

	var histories []models.RegistrationHistory
	if err := s.DB.Where("user_id = ?", profile.ID).Find(&histories).Error; err != nil {
		return nil, err
	}
	history := make(map[string]models.RegistrationStatus, len(histories))
	for _, h := range histories {
		history[h.TournamentID] = models.RegistrationStatus{Count: h.Count, IsRegistered: h.IsRegistered}
	}

	var stats []models.PlayerGameStat
	if err := s.DB.Where("user_id = ?", profile.ID).Find(&stats).Error; err != nil {
		return nil, err
	}
	gameStats := make(map[string]models.GameStat, len(stats))
	for _, st := range stats {
		gameStats[st.Game] = models.GameStat{
			Wins:         st.Wins,
			Points:       st.Points,
			Rank:         st.Rank,
			PreviousRank: st.PreviousRank,
			UpdatedAt:    st.UpdatedAt,
		}
	}

	view := assembleProfileView(profile, registrations, history, gameStats)
	return &view, nil
}

func assembleProfileView(
	profile *models.UserProfile,
	registrations []models.RegisteredTournament,
	history map[string]models.RegistrationStatus,
	gameStats map[string]models.GameStat,
) models.ProfileView {
	if registrations == nil {
		registrations = []models.RegisteredTournament{}
	}
	if history == nil {
		history = map[string]models.RegistrationStatus{}
	}
	if gameStats == nil {
		gameStats = map[string]models.GameStat{}
	}
	return models.ProfileView{
		ID:                    profile.ID,
		Email:                 profile.Email,
		Name:                  profile.Name,
		Location:              profile.Location,
		FavoriteGame:          profile.FavoriteGame,
		Role:                  profile.Role,
		JoinedAt:              profile.JoinedAt,
		RegisteredTournaments: registrations,
		RegistrationHistory:   history,
		GameStats:             gameStats,
	}
}
