// esports-community-system/services/leaderboard_service.go
package services

import (
	"errors"
	"log"
	"sort"
	"time"

	"esports-community-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaderboardService serves per-game standings and owns the rank snapshot
// bookkeeping behind the trend arrows.
type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// standingRow is a player stat joined with its profile.
type standingRow struct {
	UserID       string
	Name         string
	Email        string
	Wins         int
	Points       int
	Rank         int
	PreviousRank int
}

// LeaderboardEntry is one row of a rendered leaderboard.
type LeaderboardEntry struct {
	UserID string `json:"userId"`
	Player string `json:"player"`
	Email  string `json:"email"`
	Wins   int    `json:"wins"`
	Points int    `json:"points"`
	Rank   int    `json:"rank"`
	Trend  string `json:"trend"`
}

func (s *LeaderboardService) standingsFor(game string) ([]standingRow, error) {
	var rows []standingRow
	err := s.DB.Table("player_game_stats").
		Select("player_game_stats.user_id, user_profiles.name, user_profiles.email, player_game_stats.wins, player_game_stats.points, player_game_stats.rank, player_game_stats.previous_rank").
		Joins("JOIN user_profiles ON user_profiles.id = player_game_stats.user_id").
		Where("player_game_stats.game = ?", game).
		Scan(&rows).Error
	return rows, err
}

// rankStandings orders rows by points and assigns live ranks. Trend compares
// the live position against the last snapshotted previous_rank: a player who
// has never been snapshotted (previous_rank 0) shows "same". When includeZero
// is false, zero-point players are dropped (public view); the admin view keeps
// them.
func rankStandings(rows []standingRow, includeZero bool) []LeaderboardEntry {
	if !includeZero {
		filtered := rows[:0:0]
		for _, r := range rows {
			if r.Points > 0 {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Wins > rows[j].Wins
	})

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		rank := i + 1
		trend := "same"
		if r.PreviousRank > 0 {
			if r.PreviousRank > rank {
				trend = "up"
			} else if r.PreviousRank < rank {
				trend = "down"
			}
		}
		entries = append(entries, LeaderboardEntry{
			UserID: r.UserID,
			Player: r.Name,
			Email:  r.Email,
			Wins:   r.Wins,
			Points: r.Points,
			Rank:   rank,
			Trend:  trend,
		})
	}
	return entries
}

// GetLeaderboard returns the public standings for one game, zero-point
// players excluded.
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	game := c.Query("game")
	if game == "" {
		return c.Status(400).JSON(fiber.Map{"error": "game query parameter is required"})
	}

	rows, err := s.standingsFor(game)
	if err != nil {
		log.Printf("ERROR fetching leaderboard for %s: %v", game, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	return c.JSON(fiber.Map{
		"game":        game,
		"leaderboard": rankStandings(rows, false),
	})
}

// GetAdminLeaderboard returns the full standings for one game, zero-point
// players included so admins can audit every tracked player.
func (s *LeaderboardService) GetAdminLeaderboard(c *fiber.Ctx) error {
	game := c.Params("game")

	rows, err := s.standingsFor(game)
	if err != nil {
		log.Printf("ERROR fetching admin leaderboard for %s: %v", game, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	return c.JSON(fiber.Map{
		"game":        game,
		"leaderboard": rankStandings(rows, true),
	})
}

// GetTopGames ranks games by how many distinct users have ever entered one of
// their tournaments.
func (s *LeaderboardService) GetTopGames(c *fiber.Ctx) error {
	type gameCount struct {
		Game    string `json:"game"`
		Players int    `json:"players"`
	}
	var games []gameCount
	err := s.DB.Raw(`
		SELECT t.game AS game, COUNT(DISTINCT p.user_id) AS players
		FROM tournaments t
		JOIN tournament_participants p ON p.tournament_id = t.id
		WHERE t.game <> ''
		GROUP BY t.game
		HAVING COUNT(DISTINCT p.user_id) > 0
		ORDER BY players DESC
	`).Scan(&games).Error
	if err != nil {
		log.Printf("ERROR fetching top games: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch top games"})
	}
	if games == nil {
		games = []gameCount{}
	}

	return c.JSON(fiber.Map{"games": games})
}

// UpdatePlayerStats sets a player's wins and points for one game (admin).
// The stored rank columns are not touched here; they only move when ranks are
// recalculated.
func (s *LeaderboardService) UpdatePlayerStats(c *fiber.Ctx) error {
	type Req struct {
		UserID string `json:"userId"`
		Game   string `json:"game"`
		Wins   int    `json:"wins"`
		Points int    `json:"points"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.UserID == "" || req.Game == "" {
		return c.Status(400).JSON(fiber.Map{"error": "userId and game are required"})
	}

	var profile models.UserProfile
	if err := s.DB.Select("id").First(&profile, "id = ?", req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update player stats"})
	}

	var stat models.PlayerGameStat
	err := s.DB.Where("user_id = ? AND game = ?", req.UserID, req.Game).First(&stat).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		stat = models.PlayerGameStat{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			Game:      req.Game,
			Wins:      req.Wins,
			Points:    req.Points,
			UpdatedAt: time.Now().UTC(),
		}
		err = s.DB.Create(&stat).Error
	case err == nil:
		err = s.DB.Model(&stat).Updates(map[string]interface{}{
			"wins":       req.Wins,
			"points":     req.Points,
			"updated_at": time.Now().UTC(),
		}).Error
		stat.Wins = req.Wins
		stat.Points = req.Points
	}
	if err != nil {
		log.Printf("UpdatePlayerStats: upsert failed for %s/%s: %v", req.UserID, req.Game, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update player stats"})
	}

	return c.JSON(fiber.Map{"success": true, "stats": stat})
}

// RecalculateRanks snapshots the current ordering for one game (or, with an
// empty body, every game) into the rank/previous_rank columns. Until the next
// snapshot, trend arrows compare live positions against this one.
func (s *LeaderboardService) RecalculateRanks(c *fiber.Ctx) error {
	type Req struct {
		Game string `json:"game"`
	}
	var req Req
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
		}
	}

	if req.Game != "" {
		if err := s.recalcGame(req.Game); err != nil {
			log.Printf("RecalculateRanks: %s failed: %v", req.Game, err)
			return c.Status(500).JSON(fiber.Map{"error": "Failed to recalculate ranks"})
		}
		return c.JSON(fiber.Map{"success": true, "game": req.Game})
	}

	if err := s.RecalculateAllRanks(); err != nil {
		log.Printf("RecalculateRanks: full pass failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to recalculate ranks"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// RecalculateAllRanks runs the snapshot for every game with tracked stats.
// Also invoked by the daily scheduler.
func (s *LeaderboardService) RecalculateAllRanks() error {
	var games []string
	err := s.DB.Model(&models.PlayerGameStat{}).
		Distinct("game").
		Pluck("game", &games).Error
	if err != nil {
		return err
	}

	for _, game := range games {
		if err := s.recalcGame(game); err != nil {
			return err
		}
	}
	log.Printf("Rank snapshot complete for %d game(s)", len(games))
	return nil
}

func (s *LeaderboardService) recalcGame(game string) error {
	var stats []models.PlayerGameStat
	err := s.DB.Where("game = ?", game).Find(&stats).Error
	if err != nil {
		return err
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Points != stats[j].Points {
			return stats[i].Points > stats[j].Points
		}
		return stats[i].Wins > stats[j].Wins
	})

	return s.DB.Transaction(func(tx *gorm.DB) error {
		for i, stat := range stats {
			newRank := i + 1
			prev := stat.Rank
			if prev == 0 {
				// first snapshot: no history yet, trend stays "same"
				prev = newRank
			}
			err := tx.Model(&models.PlayerGameStat{}).
				Where("id = ?", stat.ID).
				Updates(map[string]interface{}{
					"rank":          newRank,
					"previous_rank": prev,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
