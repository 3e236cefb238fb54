package handlers

import (
	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(api fiber.Router, leaderboardService *services.LeaderboardService) {
	// Public — leaderboards and the top-games widget
	api.Get("/leaderboard", leaderboardService.GetLeaderboard)
	api.Get("/top-games", leaderboardService.GetTopGames)
}
