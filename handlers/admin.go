package handlers

import (
	"esports-community-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the back-office. Everything here sits behind both the
// user context and the admin gate.
func SetupAdminRoutes(
	api fiber.Router,
	accountService *services.AccountService,
	tournamentService *services.TournamentService,
	leaderboardService *services.LeaderboardService,
	blogService *services.BlogService,
	configService *services.ConfigService,
	mediaService *services.MediaService,
	userCtx fiber.Handler,
	adminOnly fiber.Handler,
) {
	// Group on the /admin prefix only; a Group("/", ...) would leak the
	// middleware onto public routes registered after this call.
	admin := api.Group("/admin", userCtx, adminOnly)

	// User management
	admin.Get("/users", accountService.ListUsers)
	admin.Patch("/users/:id/role", accountService.UpdateUserRole)
	admin.Delete("/users/:id", accountService.DeleteUser)

	// Tournament management
	admin.Post("/tournaments", tournamentService.CreateTournament)
	admin.Put("/tournaments/:id", tournamentService.UpdateTournament)
	admin.Delete("/tournaments/:id", tournamentService.DeleteTournament)
	admin.Delete("/tournament/:id/participant/:userId", tournamentService.RemoveParticipant)

	// Leaderboard management
	admin.Get("/leaderboard/:game", leaderboardService.GetAdminLeaderboard)
	admin.Post("/update-player-stats", leaderboardService.UpdatePlayerStats)
	admin.Post("/recalculate-ranks", leaderboardService.RecalculateRanks)

	// Blog management
	admin.Get("/blog-posts", blogService.ListPosts)
	admin.Post("/blog-posts", blogService.CreatePost)
	admin.Put("/blog-posts/:id", blogService.UpdatePost)
	admin.Delete("/blog-posts/:id", blogService.DeletePost)

	// App config
	admin.Get("/config", configService.GetConfig)
	admin.Put("/config", configService.UpdateConfig)

	// Media
	admin.Post("/uploads", mediaService.UploadImage)
}
